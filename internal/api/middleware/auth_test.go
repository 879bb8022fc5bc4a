package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/linskybing/formbuilder-go/internal/domain/form"
	"github.com/linskybing/formbuilder-go/internal/repository"
	"github.com/linskybing/formbuilder-go/internal/repository/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	Init("middleware-test-secret", "formbuilder-test")
}

func issue(t *testing.T, id uint, admin bool, ttl time.Duration) string {
	tok, err := GenerateToken(id, "u", admin, ttl)
	require.NoError(t, err)
	return tok
}

func serve(r *gin.Engine, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestParseToken(t *testing.T) {
	claims, err := ParseToken(issue(t, 7, true, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "formbuilder-test", claims.Issuer)

	_, err = ParseToken(issue(t, 7, false, -time.Minute))
	assert.Error(t, err, "expired")

	tok := issue(t, 7, false, time.Hour)
	Init("another-secret", "formbuilder-test")
	_, err = ParseToken(tok)
	Init("middleware-test-secret", "formbuilder-test")
	assert.Error(t, err, "wrong key")
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/x", JWTAuthMiddleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, "/x", ""))
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/x", "garbage"))
	assert.Equal(t, http.StatusNoContent, serve(r, "/x", issue(t, 1, false, time.Hour)))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFormOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockForm := mock.NewMockFormRepo(ctrl)
	auth := NewAuth(&repository.Repos{Form: mockForm})

	r := gin.New()
	r.GET("/forms/:id", JWTAuthMiddleware(), auth.FormOwner(FromFormIDParam()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	mockForm.EXPECT().GetOwnerID(uint(5)).Return(uint(1), nil).Times(3)
	mockForm.EXPECT().GetOwnerID(uint(6)).Return(uint(0), gorm.ErrRecordNotFound)
	mockForm.EXPECT().GetOwnerID(uint(7)).Return(uint(0), errors.New("db down"))

	assert.Equal(t, http.StatusNoContent, serve(r, "/forms/5", issue(t, 1, false, time.Hour)))
	assert.Equal(t, http.StatusForbidden, serve(r, "/forms/5", issue(t, 2, false, time.Hour)))
	assert.Equal(t, http.StatusNoContent, serve(r, "/forms/5", issue(t, 2, true, time.Hour)))
	assert.Equal(t, http.StatusNotFound, serve(r, "/forms/6", issue(t, 1, false, time.Hour)))
	assert.Equal(t, http.StatusInternalServerError, serve(r, "/forms/7", issue(t, 1, false, time.Hour)))
	assert.Equal(t, http.StatusBadRequest, serve(r, "/forms/abc", issue(t, 1, false, time.Hour)))
}

func TestFormOwner_FromPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockForm := mock.NewMockFormRepo(ctrl)
	pages := &stubPageRepo{pages: map[uint]form.Page{3: {ID: 3, FormID: 9}}}
	auth := NewAuth(&repository.Repos{Form: mockForm, Page: pages})

	r := gin.New()
	r.GET("/pages/:id", JWTAuthMiddleware(), auth.FormOwner(FromPageIDParam()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	mockForm.EXPECT().GetOwnerID(uint(9)).Return(uint(4), nil)

	assert.Equal(t, http.StatusNoContent, serve(r, "/pages/3", issue(t, 4, false, time.Hour)))
	assert.Equal(t, http.StatusNotFound, serve(r, "/pages/8", issue(t, 4, false, time.Hour)))
}

func TestAdmin(t *testing.T) {
	auth := NewAuth(&repository.Repos{})
	r := gin.New()
	r.GET("/admin", JWTAuthMiddleware(), auth.Admin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusForbidden, serve(r, "/admin", issue(t, 1, false, time.Hour)))
	assert.Equal(t, http.StatusNoContent, serve(r, "/admin", issue(t, 1, true, time.Hour)))

	bare := gin.New()
	bare.GET("/admin", auth.Admin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	assert.Equal(t, http.StatusUnauthorized, serve(bare, "/admin", ""), "no claims on the context")
}

// stubPageRepo answers GetPageByID from a map; the other methods are unused here.
type stubPageRepo struct {
	repository.PageRepo
	pages map[uint]form.Page
}

func (s *stubPageRepo) GetPageByID(id uint) (form.Page, error) {
	p, ok := s.pages[id]
	if !ok {
		return form.Page{}, gorm.ErrRecordNotFound
	}
	return p, nil
}
