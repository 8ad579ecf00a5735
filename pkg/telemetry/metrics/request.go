package metrics

import (
	"strconv"
	"time"

	"mercator-hq/verdict/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks HTTP request handling.
//
// Metrics:
//   - verdict_http_requests_total: Request count by method, route, status
//   - verdict_http_request_duration_seconds: Request duration histogram
//   - verdict_http_rate_limited_total: Requests rejected by the rate limiter
//   - verdict_http_auth_failures_total: Requests rejected by API key auth, by reason
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
	authFailures    *prometheus.CounterVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "route"},
		),

		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "rate_limited_total",
				Help:      "Total number of requests rejected by the rate limiter",
			},
		),

		authFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "auth_failures_total",
				Help:      "Total number of requests rejected by API key authentication",
			},
			[]string{"reason"},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.rateLimited,
		rm.authFailures,
	)

	return rm
}

// RecordRequest records a completed request.
func (rm *RequestMetrics) RecordRequest(method, route string, status int, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	rm.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
