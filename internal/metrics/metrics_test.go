package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/forms/:slug", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/forms/a", "/forms/b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/forms/:slug", "GET", "200")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "formbuilder_http_requests_total")
}

func TestSubmissionsTotalHasNoPerFormLabel(t *testing.T) {
	m := New()
	m.SubmissionAccepted()

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() != "formbuilder_submissions_total" {
			continue
		}
		found = true
		require.Len(t, mf.GetMetric(), 1)
		assert.Empty(t, mf.GetMetric()[0].GetLabel())
		assert.Equal(t, 1.0, mf.GetMetric()[0].GetCounter().GetValue())
	}
	assert.True(t, found)
}

func TestSubmissionCounters(t *testing.T) {
	m := New()
	m.SubmissionAccepted()
	m.SubmissionAccepted()
	m.SubmissionRejected("inactive")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("inactive")))

	var nilMetrics *Metrics
	nilMetrics.SubmissionAccepted()
	nilMetrics.SubmissionRejected("x")
}
