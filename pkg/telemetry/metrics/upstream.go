package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/config"
)

// UpstreamMetrics tracks calls to the swap-aggregation API.
//
// Metrics:
//   - swapgate_gateway_upstream_requests_total: HTTP attempts by call and status class
//   - swapgate_gateway_upstream_latency_seconds: attempt latency by call
//   - swapgate_gateway_upstream_errors_total: failed attempts by call and error kind
//   - swapgate_gateway_upstream_health: passive health (1=healthy, 0=unhealthy)
type UpstreamMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	health   prometheus.Gauge
}

// NewUpstreamMetrics creates and registers upstream metrics with the provided registry.
func NewUpstreamMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_requests_total",
				Help:      "Total number of upstream HTTP attempts by call and status class",
			},
			[]string{"call", "status_class"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_latency_seconds",
				Help:      "Upstream API call latency in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"call"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_errors_total",
				Help:      "Total number of failed upstream attempts by error kind",
			},
			[]string{"call", "kind"},
		),

		health: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_health",
				Help:      "Upstream health status (1=healthy, 0=unhealthy)",
			},
		),
	}

	um.health.Set(1)

	registry.MustRegister(
		um.requests,
		um.latency,
		um.errors,
		um.health,
	)

	return um
}

// RecordCall records one upstream attempt.
func (um *UpstreamMetrics) RecordCall(call, statusClass string, duration time.Duration) {
	um.requests.WithLabelValues(call, statusClass).Inc()
	um.latency.WithLabelValues(call).Observe(duration.Seconds())
}

// RecordError records a failed upstream attempt.
func (um *UpstreamMetrics) RecordError(call, kind string) {
	um.errors.WithLabelValues(call, kind).Inc()
}

// UpdateHealth sets the health gauge.
func (um *UpstreamMetrics) UpdateHealth(healthy bool) {
	if healthy {
		um.health.Set(1)
	} else {
		um.health.Set(0)
	}
}
