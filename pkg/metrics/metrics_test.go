package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amoylab/casedesk/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(config.MetricsConfig{Namespace: "casedesk"})

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/complaints/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/complaints/abc", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpReqCnt.WithLabelValues("GET", "/api/complaints/:id", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), "casedesk_http_requests_total")
}

func TestDomainCounters(t *testing.T) {
	m := New(config.MetricsConfig{Namespace: "cd"})
	m.LoginAttempt("success")
	m.LoginAttempt("success")
	m.RateLimited("auth")
	m.ComplaintCreated("psychological")
	m.StatusTransition("complaint", "draft", "submitted")
	m.SetOverdue("acme", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.loginCnt.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited.WithLabelValues("auth")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.complaints.WithLabelValues("psychological")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("complaint", "draft", "submitted")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.overdue.WithLabelValues("acme")))

	n, err := testutil.GatherAndCount(m.Registry(), "cd_status_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.LoginAttempt("success")
		m.RateLimited("api")
		m.ComplaintCreated("other")
		m.StatusTransition("investigation", "pending", "in_progress")
		m.SetOverdue("acme", 1)
	})
}
