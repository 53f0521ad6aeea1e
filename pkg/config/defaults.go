package config

import "time"

// Default values for configuration fields.
const (
	// Proxy defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultBasePath        = "/gateway"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 45 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 40 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = int64(1048576)

	// CORS defaults
	DefaultCORSEnabled          = true
	DefaultCORSMaxAge           = 3600 // 1 hour
	DefaultCORSAllowCredentials = false

	// Upstream defaults
	DefaultUpstreamBaseURL          = "https://api.0x.org"
	DefaultUpstreamAPIKeyHeader     = "0x-api-key"
	DefaultUpstreamAPIVersion       = "v2"
	DefaultUpstreamAPIVersionHeader = "0x-version"
	DefaultAllowLegacyPrice         = true
	DefaultUpstreamTimeout          = 30 * time.Second
	DefaultUpstreamMaxAttempts      = 1
	MaxUpstreamAttempts             = 5
	DefaultUpstreamMaxIdleConns     = 100
	DefaultUpstreamIdleConnTimeout  = 90 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultLoggingRedactSecrets = true
	DefaultMetricsEnabled       = true
	DefaultPrometheusPath       = "/metrics"
	DefaultMetricsNamespace     = "swapgate"
	DefaultMetricsSubsystem     = "gateway"
	DefaultTracingSampler       = "ratio"
	DefaultTracingSampleRatio   = 0.1
	DefaultTracingEndpoint      = "localhost:4317"
	DefaultTracingServiceName   = "swapgate"
	DefaultTracingInsecure      = true
	DefaultTracingTimeout       = 10 * time.Second
	DefaultHealthEnabled        = true
	DefaultLivenessPath         = "/health"
	DefaultReadinessPath        = "/ready"
	DefaultHealthCheckTimeout   = 5 * time.Second

	// Security defaults
	DefaultTLSEnabled           = false
	DefaultTLSMinVersion        = "1.2"
	DefaultTLSWatchCertificates = true
	DefaultSecretsEnvPrefix     = "SWAPGATE_SECRET_"
	DefaultSecretsWatchFiles    = true
	DefaultSecretsCacheTTL      = 5 * time.Minute
	DefaultAuthHeader           = "X-Api-Key"
)

// DefaultRequestDurationBuckets are the histogram buckets used when none are configured.
var DefaultRequestDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Proxy defaults
	if cfg.Proxy.ListenAddress == "" {
		cfg.Proxy.ListenAddress = DefaultListenAddress
	}
	if cfg.Proxy.BasePath == "" {
		cfg.Proxy.BasePath = DefaultBasePath
	}
	if cfg.Proxy.ReadTimeout == 0 {
		cfg.Proxy.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Proxy.WriteTimeout == 0 {
		cfg.Proxy.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Proxy.IdleTimeout == 0 {
		cfg.Proxy.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Proxy.ShutdownTimeout == 0 {
		cfg.Proxy.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Proxy.RequestTimeout == 0 {
		cfg.Proxy.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Proxy.MaxHeaderBytes == 0 {
		cfg.Proxy.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Proxy.MaxBodyBytes == 0 {
		cfg.Proxy.MaxBodyBytes = DefaultMaxBodyBytes
	}
	applyCORSDefaults(cfg)

	applyUpstreamDefaults(&cfg.Upstream)
	applyTelemetryDefaults(&cfg.Telemetry)
	applySecurityDefaults(&cfg.Security)
}

// applyCORSDefaults applies default values to CORS configuration.
func applyCORSDefaults(cfg *Config) {
	cors := &cfg.Proxy.CORS

	if !cors.Enabled {
		// An untouched section means the operator wants the defaults.
		hasAnyConfig := len(cors.AllowedOrigins) > 0 ||
			len(cors.AllowedMethods) > 0 ||
			len(cors.AllowedHeaders) > 0 ||
			len(cors.ExposedHeaders) > 0 ||
			cors.MaxAge > 0

		if !hasAnyConfig {
			cors.Enabled = DefaultCORSEnabled
		}
	}

	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{"*"}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", DefaultUpstreamAPIKeyHeader, DefaultAuthHeader}
	}
	if len(cors.ExposedHeaders) == 0 {
		cors.ExposedHeaders = []string{"X-Request-ID"}
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = DefaultCORSMaxAge
	}
}

func applyUpstreamDefaults(u *UpstreamConfig) {
	if u.BaseURL == "" {
		u.BaseURL = DefaultUpstreamBaseURL
	}
	if u.APIKeyHeader == "" {
		u.APIKeyHeader = DefaultUpstreamAPIKeyHeader
	}
	if u.APIVersion == "" {
		u.APIVersion = DefaultUpstreamAPIVersion
	}
	if u.APIVersionHeader == "" {
		u.APIVersionHeader = DefaultUpstreamAPIVersionHeader
	}
	if u.AllowLegacyPrice == nil {
		u.AllowLegacyPrice = boolPtr(DefaultAllowLegacyPrice)
	}
	if u.Timeout == 0 {
		u.Timeout = DefaultUpstreamTimeout
	}
	if u.MaxAttempts == 0 {
		u.MaxAttempts = DefaultUpstreamMaxAttempts
	}
	if u.MaxIdleConns == 0 {
		u.MaxIdleConns = DefaultUpstreamMaxIdleConns
	}
	if u.IdleConnTimeout == 0 {
		u.IdleConnTimeout = DefaultUpstreamIdleConnTimeout
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Logging.Level == "" {
		t.Logging.Level = DefaultLoggingLevel
	}
	if t.Logging.Format == "" {
		t.Logging.Format = DefaultLoggingFormat
	}
	if t.Logging.RedactSecrets == nil {
		t.Logging.RedactSecrets = boolPtr(DefaultLoggingRedactSecrets)
	}

	if t.Metrics.Enabled == nil {
		t.Metrics.Enabled = boolPtr(DefaultMetricsEnabled)
	}
	if t.Metrics.Path == "" {
		t.Metrics.Path = DefaultPrometheusPath
	}
	if t.Metrics.Namespace == "" {
		t.Metrics.Namespace = DefaultMetricsNamespace
	}
	if t.Metrics.Subsystem == "" {
		t.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(t.Metrics.RequestDurationBuckets) == 0 {
		t.Metrics.RequestDurationBuckets = append([]float64(nil), DefaultRequestDurationBuckets...)
	}

	if t.Tracing.Sampler == "" {
		t.Tracing.Sampler = DefaultTracingSampler
	}
	if t.Tracing.SampleRatio == 0 {
		t.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if t.Tracing.Endpoint == "" {
		t.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if t.Tracing.ServiceName == "" {
		t.Tracing.ServiceName = DefaultTracingServiceName
	}
	if t.Tracing.Insecure == nil {
		t.Tracing.Insecure = boolPtr(DefaultTracingInsecure)
	}
	if t.Tracing.Timeout == 0 {
		t.Tracing.Timeout = DefaultTracingTimeout
	}

	if t.Health.Enabled == nil {
		t.Health.Enabled = boolPtr(DefaultHealthEnabled)
	}
	if t.Health.LivenessPath == "" {
		t.Health.LivenessPath = DefaultLivenessPath
	}
	if t.Health.ReadinessPath == "" {
		t.Health.ReadinessPath = DefaultReadinessPath
	}
	if t.Health.CheckTimeout == 0 {
		t.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}

func applySecurityDefaults(s *SecurityConfig) {
	if s.TLS.MinVersion == "" {
		s.TLS.MinVersion = DefaultTLSMinVersion
	}
	if s.TLS.WatchCertificates == nil {
		s.TLS.WatchCertificates = boolPtr(DefaultTLSWatchCertificates)
	}

	if s.Secrets.EnvPrefix == "" {
		s.Secrets.EnvPrefix = DefaultSecretsEnvPrefix
	}
	if s.Secrets.WatchFiles == nil {
		s.Secrets.WatchFiles = boolPtr(DefaultSecretsWatchFiles)
	}
	if s.Secrets.CacheTTL == 0 {
		s.Secrets.CacheTTL = DefaultSecretsCacheTTL
	}

	if s.Authentication.Header == "" {
		s.Authentication.Header = DefaultAuthHeader
	}
}

func boolPtr(b bool) *bool {
	return &b
}
