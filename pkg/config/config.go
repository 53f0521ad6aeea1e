package config

import "time"

// Config is the root configuration structure for the swap gateway.
// It contains all configuration sections for the HTTP server, the upstream
// swap-aggregation API, telemetry, and security settings.
type Config struct {
	// Proxy contains HTTP server configuration including listen address,
	// timeouts, body limits and CORS.
	Proxy ProxyConfig `yaml:"proxy"`

	// Upstream contains configuration for the swap-aggregation API the
	// gateway forwards price, quote, submit and analytics calls to.
	Upstream UpstreamConfig `yaml:"upstream"`

	// Telemetry contains configuration for observability including logging,
	// metrics, tracing and health endpoints.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Security contains security-related configuration including TLS,
	// secret resolution and inbound authentication.
	Security SecurityConfig `yaml:"security"`
}

// ProxyConfig contains configuration for the inbound HTTP server.
type ProxyConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// BasePath is the path prefix under which the gateway routes are mounted.
	// Default: "/gateway"
	BasePath string `yaml:"base_path"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must be longer than RequestTimeout.
	// Default: 45s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for in-flight requests
	// during graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout bounds a single gateway request end to end, including
	// the upstream call. Overrunning requests receive a 504.
	// Default: 40s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits inbound request bodies.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are written.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins. ["*"] writes a wildcard
	// origin; production deployments should list their front ends.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed request headers.
	// Default: ["Content-Type", "Authorization", "X-Request-ID", "0x-api-key", "X-Api-Key"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers exposed to the client.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the maximum age (in seconds) for preflight request cache.
	// Default: 3600 (1 hour)
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls whether credentials are allowed.
	// Cannot be combined with a wildcard origin.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// UpstreamConfig contains configuration for the swap-aggregation API.
type UpstreamConfig struct {
	// BaseURL is the base URL of the upstream API.
	// Default: "https://api.0x.org"
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates the gateway to the upstream API. It may be a
	// literal or a secret reference such as "${secret:swap-api-key}".
	// Required.
	APIKey string `yaml:"api_key"`

	// APIKeyHeader is the header name the API key is sent in.
	// Default: "0x-api-key"
	APIKeyHeader string `yaml:"api_key_header"`

	// APIVersion is the fixed upstream API version.
	// Default: "v2"
	APIVersion string `yaml:"api_version"`

	// APIVersionHeader is the header name the API version is sent in.
	// Default: "0x-version"
	APIVersionHeader string `yaml:"api_version_header"`

	// SurplusRecipient receives any price improvement captured during
	// execution. It is sent as tradeSurplusRecipient on chain-aware price
	// and quote calls and must be a hex address.
	// Required.
	SurplusRecipient string `yaml:"surplus_recipient"`

	// AllowLegacyPrice lets price requests without a chainId fall back to
	// the legacy price call. When false, chainId is required for price.
	// Default: true
	AllowLegacyPrice *bool `yaml:"allow_legacy_price"`

	// Timeout bounds a single upstream call.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxAttempts is the number of attempts for idempotent (GET) calls
	// failing at the transport level. Submit is always attempted once.
	// Default: 1
	MaxAttempts int `yaml:"max_attempts"`

	// MaxIdleConns controls the size of the upstream connection pool.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// IdleConnTimeout is how long idle upstream connections are kept.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// LegacyPriceAllowed reports whether legacy price requests are accepted.
func (u UpstreamConfig) LegacyPriceAllowed() bool {
	if u.AllowLegacyPrice == nil {
		return DefaultAllowLegacyPrice
	}
	return *u.AllowLegacyPrice
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets removes the upstream API key and secret-looking
	// attributes from log records.
	// Default: true
	RedactSecrets *bool `yaml:"redact_secrets"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "swapgate"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "gateway"
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets defines histogram buckets for request and
	// upstream call duration (seconds).
	// Default: [0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP/gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "swapgate"
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS for the collector connection.
	// Default: true
	Insecure *bool `yaml:"insecure"`

	// Timeout is the timeout for trace exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// Enabled controls whether health check endpoints are mounted.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// LivenessPath is the path for the liveness probe endpoint.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path for the readiness probe endpoint.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// CheckTimeout is the timeout for individual component health checks.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}

// SecurityConfig contains security-related configuration.
type SecurityConfig struct {
	// TLS contains TLS configuration for the inbound server.
	TLS TLSConfig `yaml:"tls"`

	// Secrets contains secret resolution configuration.
	Secrets SecretsConfig `yaml:"secrets"`

	// Authentication contains inbound API key authentication configuration.
	Authentication AuthenticationConfig `yaml:"authentication"`
}

// TLSConfig contains TLS configuration.
type TLSConfig struct {
	// Enabled controls whether TLS is enabled for the inbound server.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the TLS certificate file.
	// Required when Enabled is true.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the TLS private key file.
	// Required when Enabled is true.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum TLS version to accept.
	// Options: "1.2", "1.3"
	// Default: "1.2"
	MinVersion string `yaml:"min_version"`

	// WatchCertificates reloads the certificate pair when either file
	// changes on disk.
	// Default: true
	WatchCertificates *bool `yaml:"watch_certificates"`
}

// SecretsConfig contains secret resolution configuration.
type SecretsConfig struct {
	// EnvPrefix is the environment variable prefix for the env provider.
	// "${secret:swap-api-key}" resolves SWAPGATE_SECRET_SWAP_API_KEY.
	// Default: "SWAPGATE_SECRET_"
	EnvPrefix string `yaml:"env_prefix"`

	// FileDir is an optional directory of secret files (one file per
	// secret, mode 0600 or 0400). Empty disables the file provider.
	FileDir string `yaml:"file_dir"`

	// WatchFiles invalidates cached secrets when files in FileDir change.
	// Default: true
	WatchFiles *bool `yaml:"watch_files"`

	// CacheTTL is how long resolved secrets are cached.
	// Default: 5m
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// AuthenticationConfig contains inbound API key authentication configuration.
type AuthenticationConfig struct {
	// Enabled controls whether callers must present an API key.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Header is the request header carrying the caller's API key.
	// Default: "X-Api-Key"
	Header string `yaml:"header"`

	// Keys is the list of accepted API keys.
	Keys []APIKeyConfig `yaml:"keys"`
}

// APIKeyConfig contains configuration for a single inbound API key.
type APIKeyConfig struct {
	// Key is the API key value or a secret reference.
	Key string `yaml:"key"`

	// ClientID identifies the caller in logs.
	ClientID string `yaml:"client_id"`

	// Enabled controls whether this key is accepted.
	// Default: true
	Enabled *bool `yaml:"enabled"`
}

// IsEnabled reports whether the key is accepted.
func (k APIKeyConfig) IsEnabled() bool {
	return k.Enabled == nil || *k.Enabled
}

// boolValue dereferences an optional flag, falling back to def.
func boolValue(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// MetricsEnabled reports whether metrics are collected.
func (t TelemetryConfig) MetricsEnabled() bool {
	return boolValue(t.Metrics.Enabled, DefaultMetricsEnabled)
}

// HealthEnabled reports whether the health endpoints are mounted.
func (t TelemetryConfig) HealthEnabled() bool {
	return boolValue(t.Health.Enabled, DefaultHealthEnabled)
}

// RedactSecretsEnabled reports whether log redaction is active.
func (l LoggingConfig) RedactSecretsEnabled() bool {
	return boolValue(l.RedactSecrets, DefaultLoggingRedactSecrets)
}

// InsecureEnabled reports whether the collector connection skips TLS.
func (t TracingConfig) InsecureEnabled() bool {
	return boolValue(t.Insecure, DefaultTracingInsecure)
}

// WatchEnabled reports whether certificate files are watched.
func (t TLSConfig) WatchEnabled() bool {
	return boolValue(t.WatchCertificates, DefaultTLSWatchCertificates)
}

// WatchEnabled reports whether secret files are watched.
func (s SecretsConfig) WatchEnabled() bool {
	return boolValue(s.WatchFiles, DefaultSecretsWatchFiles)
}
