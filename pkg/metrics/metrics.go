package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/amoylab/casedesk/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	namespace   string
	httpReqCnt  *prometheus.CounterVec
	httpDur     *prometheus.HistogramVec
	httpInfl    *prometheus.GaugeVec
	loginCnt    *prometheus.CounterVec
	rateLimited *prometheus.CounterVec
	complaints  *prometheus.CounterVec
	transitions *prometheus.CounterVec
	overdue     *prometheus.GaugeVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry:  r,
		namespace: ns,
		httpReqCnt: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"},
			[]string{"method", "route", "status"}),
		httpDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets},
			[]string{"method", "route", "status"}),
		httpInfl: prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"},
			[]string{"route"}),
		loginCnt: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "login_attempts_total"},
			[]string{"result"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "rate_limited_requests_total"},
			[]string{"policy"}),
		complaints: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "complaints_created_total"},
			[]string{"type"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "status_transitions_total"},
			[]string{"entity", "from", "to"}),
		overdue: prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "investigations_overdue"},
			[]string{"tenant"}),
	}
	r.MustRegister(m.httpReqCnt, m.httpDur, m.httpInfl, m.loginCnt, m.rateLimited, m.complaints, m.transitions, m.overdue)
	return m
}

// LoginAttempt counts a login outcome: success, bad_credentials, locked, inactive
func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.loginCnt.WithLabelValues(result).Inc()
}

func (m *Metrics) RateLimited(policy string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(policy).Inc()
}

func (m *Metrics) ComplaintCreated(complaintType string) {
	if m == nil {
		return
	}
	m.complaints.WithLabelValues(complaintType).Inc()
}

// StatusTransition counts a workflow move of entity (complaint or investigation)
func (m *Metrics) StatusTransition(entity, from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(entity, from, to).Inc()
}

// SetOverdue publishes the overdue investigation count of a tenant
func (m *Metrics) SetOverdue(tenant string, n int) {
	if m == nil {
		return
	}
	m.overdue.WithLabelValues(tenant).Set(float64(n))
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
