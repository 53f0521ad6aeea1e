package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/config"
)

// Collector owns every Prometheus metric the gateway exports. It implements
// gateway.Recorder and upstream.Observer, so both packages report to it
// without importing Prometheus.
//
// A disabled collector accepts all calls and records nothing.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	requestMetrics  *RequestMetrics
	upstreamMetrics *UpstreamMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a new registry is created.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	http.Handle("/metrics", collector.Handler())
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	opts := *cfg
	if opts.Namespace == "" {
		opts.Namespace = config.DefaultMetricsNamespace
	}
	if opts.Subsystem == "" {
		opts.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(opts.RequestDurationBuckets) == 0 {
		opts.RequestDurationBuckets = config.DefaultRequestDurationBuckets
	}

	return &Collector{
		enabled:         cfg.Enabled == nil || *cfg.Enabled,
		registry:        registry,
		requestMetrics:  NewRequestMetrics(&opts, registry),
		upstreamMetrics: NewUpstreamMetrics(&opts, registry),
	}
}

// RecordGatewayRequest records one gateway request by operation and the
// status returned to the caller.
func (c *Collector) RecordGatewayRequest(operation string, statusCode int, duration time.Duration) {
	if !c.enabled {
		return
	}
	c.requestMetrics.RecordRequest(operation, strconv.Itoa(statusCode), duration)
}

// RecordValidationFailure records a request rejected before any upstream call.
func (c *Collector) RecordValidationFailure(operation string) {
	if !c.enabled {
		return
	}
	c.requestMetrics.RecordValidationFailure(operation)
}

// RecordAuthFailure records a request rejected by inbound authentication.
//
// Parameters:
//   - reason: "missing_key", "invalid_key"
func (c *Collector) RecordAuthFailure(reason string) {
	if !c.enabled {
		return
	}
	c.requestMetrics.RecordAuthFailure(reason)
}

// ObserveUpstreamCall records one HTTP attempt against the upstream API.
// statusCode is 0 when no response was received; errKind is empty on
// success.
func (c *Collector) ObserveUpstreamCall(call string, statusCode int, duration time.Duration, errKind string) {
	if !c.enabled {
		return
	}
	c.upstreamMetrics.RecordCall(call, statusClass(statusCode), duration)
	if errKind != "" {
		c.upstreamMetrics.RecordError(call, errKind)
	}
}

// UpdateUpstreamHealth sets the upstream health gauge (1=healthy, 0=unhealthy).
func (c *Collector) UpdateUpstreamHealth(healthy bool) {
	if !c.enabled {
		return
	}
	c.upstreamMetrics.UpdateHealth(healthy)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// statusClass folds a status code into "2xx", "4xx", ... to bound label
// cardinality. No response is "none".
func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "none"
	}
	return strconv.Itoa(code/100) + "xx"
}
