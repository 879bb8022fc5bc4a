// Package apptest wires the whole HTTP stack over SQLite for handler tests.
package apptest

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/formbuilder-go/internal/api/middleware"
	"github.com/linskybing/formbuilder-go/internal/api/routes"
	"github.com/linskybing/formbuilder-go/internal/application"
	"github.com/linskybing/formbuilder-go/internal/feed"
	"github.com/linskybing/formbuilder-go/internal/metrics"
	"github.com/linskybing/formbuilder-go/internal/repository"
	"github.com/linskybing/formbuilder-go/internal/storage"
	"github.com/linskybing/formbuilder-go/internal/testutils"
	"github.com/stretchr/testify/require"
)

const TestSecret = "test-secret-key"

// TestApp is a fully wired router over a private SQLite database.
type TestApp struct {
	Router   *gin.Engine
	Repos    *repository.Repos
	Services *application.Services
	Store    *storage.MemoryStore
	Metrics  *metrics.Metrics
}

func SetupRouter(t *testing.T) *TestApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.Init(TestSecret, "formbuilder-test")

	repos := repository.NewRepositories(testutils.NewTestDB(t))
	store := storage.NewMemoryStore()
	m := metrics.New()
	svc := application.New(repos, application.Options{
		Store:          store,
		Hub:            feed.NewHub(),
		Metrics:        m,
		AdminUsername:  "admin",
		TokenTTL:       time.Hour,
		AllowedOrigins: []string{"http://localhost:"},
	})
	t.Cleanup(svc.Audit.Wait)

	r := gin.New()
	r.Use(m.Middleware())
	routes.RegisterRoutes(r, repos, svc, m)
	return &TestApp{Router: r, Repos: repos, Services: svc, Store: store, Metrics: m}
}

// Token issues a bearer token for the given user.
func Token(t *testing.T, userID uint, username string, isAdmin bool) string {
	t.Helper()
	tok, err := middleware.GenerateToken(userID, username, isAdmin, time.Hour)
	require.NoError(t, err)
	return tok
}

// Do sends a JSON request through the router. body may be nil.
func (a *TestApp) Do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

// Envelope decodes the standard response body; data is decoded into dst
// when dst is non-nil.
func Envelope(t *testing.T, w *httptest.ResponseRecorder, dst any) (message string, success bool) {
	t.Helper()
	var env struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
		Success bool            `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if dst != nil {
		require.NoError(t, json.Unmarshal(env.Data, dst))
	}
	return env.Message, env.Success
}
