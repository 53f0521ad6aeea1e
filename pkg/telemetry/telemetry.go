package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/config"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/telemetry/health"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/telemetry/logging"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/telemetry/metrics"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/telemetry/tracing"
)

// UpstreamCheck is the readiness check name whose result drives the
// upstream health gauge.
const UpstreamCheck = "upstream"

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Telemetry holds the process-wide observability components.
type Telemetry struct {
	Logger  *slog.Logger
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Health  *health.Checker
	Version health.VersionInfo
}

// Options tune Setup beyond what the configuration covers.
type Options struct {
	// LogWriter receives log output; nil means stdout
	LogWriter io.Writer

	// Secrets are values removed from every log record
	Secrets []string

	// Fields add per-request attributes such as the request ID; trace and
	// span IDs are always added
	Fields []logging.ContextField

	// Registry backs the metrics collector; nil creates a new one
	Registry *prometheus.Registry
}

// Setup installs the default logger and tracer provider and creates the
// metrics collector and health checker.
func Setup(cfg *config.TelemetryConfig, info BuildInfo, opts Options) (*Telemetry, error) {
	fields := append([]logging.ContextField{logging.TraceFields}, opts.Fields...)
	logger, err := logging.Setup(logging.Config{
		Level:         cfg.Logging.Level,
		Format:        cfg.Logging.Format,
		AddSource:     cfg.Logging.AddSource,
		RedactSecrets: cfg.Logging.RedactSecretsEnabled(),
		Secrets:       opts.Secrets,
		Fields:        fields,
		Writer:        opts.LogWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	tracer, err := tracing.New(&cfg.Tracing, tracing.WithServiceVersion(info.Version))
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	collector := metrics.NewCollector(&cfg.Metrics, opts.Registry)
	if cfg.MetricsEnabled() {
		collector.RegisterRuntimeCollectors()
	}

	checker := health.New(cfg.Health.CheckTimeout,
		health.WithResultHook(func(name string, err error) {
			if name == UpstreamCheck {
				collector.UpdateUpstreamHealth(err == nil)
			}
		}),
	)

	return &Telemetry{
		Logger:  logger,
		Metrics: collector,
		Tracer:  tracer,
		Health:  checker,
		Version: health.NewVersionInfo(info.Version, info.Commit, info.BuildTime),
	}, nil
}

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.Tracer.Shutdown(ctx)
}
