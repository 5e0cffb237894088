package service

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the prometheus registry and the application metrics.
type MetricsService struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	sessionsEnded prometheus.Counter
	certsIssued   prometheus.Counter
}

// NewMetricsService registers the application collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &MetricsService{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Aggregate cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Aggregate cache misses.",
		}),
		sessionsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "study_sessions_completed_total",
			Help: "Study sessions closed, including manual logs.",
		}),
		certsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "certificates_issued_total",
			Help: "Certificates generated or registered.",
		}),
	}

	registry.MustRegister(m.httpRequests, m.httpDuration, m.cacheHits, m.cacheMisses, m.sessionsEnded, m.certsIssued)
	return m
}

// ObserveHTTPRequest records one finished request.
func (m *MetricsService) ObserveHTTPRequest(method, route, status string, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// CacheHit counts a served cache lookup.
func (m *MetricsService) CacheHit() { m.cacheHits.Inc() }

// CacheMiss counts a cache lookup that fell through to the database.
func (m *MetricsService) CacheMiss() { m.cacheMisses.Inc() }

// SessionCompleted counts a closed study session.
func (m *MetricsService) SessionCompleted() { m.sessionsEnded.Inc() }

// CertificateIssued counts a new certificate.
func (m *MetricsService) CertificateIssued() { m.certsIssued.Inc() }

// Handler exposes the scrape endpoint.
func (m *MetricsService) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
