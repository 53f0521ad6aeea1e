package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/config"
)

// RequestMetrics tracks inbound gateway requests.
//
// Metrics:
//   - swapgate_gateway_requests_total: requests by operation and response status
//   - swapgate_gateway_request_duration_seconds: end-to-end latency by operation
//   - swapgate_gateway_validation_failures_total: requests rejected before any upstream call
//   - swapgate_gateway_auth_failures_total: requests rejected by inbound authentication
type RequestMetrics struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
	authFailures       *prometheus.CounterVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of gateway requests by operation and response status",
			},
			[]string{"operation", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of gateway requests in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"operation"},
		),

		validationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_failures_total",
				Help:      "Total number of requests rejected by validation",
			},
			[]string{"operation"},
		),

		authFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "auth_failures_total",
				Help:      "Total number of requests rejected by inbound authentication",
			},
			[]string{"reason"},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.validationFailures,
		rm.authFailures,
	)

	return rm
}

// RecordRequest records a completed gateway request.
func (rm *RequestMetrics) RecordRequest(operation, status string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(operation, status).Inc()
	rm.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordValidationFailure records a rejected request.
func (rm *RequestMetrics) RecordValidationFailure(operation string) {
	rm.validationFailures.WithLabelValues(operation).Inc()
}

// RecordAuthFailure records an authentication rejection.
func (rm *RequestMetrics) RecordAuthFailure(reason string) {
	rm.authFailures.WithLabelValues(reason).Inc()
}
