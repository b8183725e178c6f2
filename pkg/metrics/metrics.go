package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	llmRequestsTotal *prometheus.CounterVec
	llmDuration      *prometheus.HistogramVec
	analysesTotal    *prometheus.CounterVec
}

// New creates a Metrics with all collectors registered
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clausecloud",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clausecloud",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "clausecloud",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
		},
	)
	llmRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clausecloud",
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "Total completion calls by operation and outcome.",
		},
		[]string{"operation", "status"},
	)
	llmDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clausecloud",
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "Completion call duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"operation"},
	)
	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clausecloud",
			Subsystem: "contracts",
			Name:      "analyses_total",
			Help:      "Total contract analyses by risk level.",
		},
		[]string{"risk_level"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		llmRequestsTotal,
		llmDuration,
		analysesTotal,
	)

	return &Metrics{
		registry:         registry,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		llmRequestsTotal: llmRequestsTotal,
		llmDuration:      llmDuration,
		analysesTotal:    analysesTotal,
	}
}

// Handler exposes the registry for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count, duration and in-flight gauge
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		c.Next()

		// Use the route template so path cardinality stays bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.requestTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordLLMRequest records one completion call
func (m *Metrics) RecordLLMRequest(operation string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.llmRequestsTotal.WithLabelValues(operation, status).Inc()
	m.llmDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordAnalysis records one completed contract analysis
func (m *Metrics) RecordAnalysis(riskLevel string) {
	if riskLevel == "" {
		riskLevel = "unknown"
	}
	m.analysesTotal.WithLabelValues(riskLevel).Inc()
}
