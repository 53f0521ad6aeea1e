package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "SWAPGATE_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	cfg, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention SWAPGATE_SECTION_FIELD (e.g., SWAPGATE_UPSTREAM_API_KEY).
// Environment variables always take precedence over file-based configuration.
//
// An empty path skips the file and builds the configuration from defaults and
// the environment alone, which is how container deployments usually run.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		parsed, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		cfg = parsed
	} else {
		ApplyDefaults(cfg)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func parseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// envOverride binds one environment variable to a setter.
type envOverride struct {
	name string
	set  func(cfg *Config, val string) error
}

func stringField(get func(cfg *Config) *string) func(*Config, string) error {
	return func(cfg *Config, val string) error {
		*get(cfg) = val
		return nil
	}
}

func durationField(get func(cfg *Config) *time.Duration) func(*Config, string) error {
	return func(cfg *Config, val string) error {
		d, err := time.ParseDuration(val)
		if err != nil {
			return err
		}
		*get(cfg) = d
		return nil
	}
}

func intField(get func(cfg *Config) *int) func(*Config, string) error {
	return func(cfg *Config, val string) error {
		i, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		*get(cfg) = i
		return nil
	}
}

func boolField(get func(cfg *Config) **bool) func(*Config, string) error {
	return func(cfg *Config, val string) error {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		*get(cfg) = &b
		return nil
	}
}

var envOverrides = []envOverride{
	// Proxy
	{"PROXY_LISTEN_ADDRESS", stringField(func(c *Config) *string { return &c.Proxy.ListenAddress })},
	{"PROXY_BASE_PATH", stringField(func(c *Config) *string { return &c.Proxy.BasePath })},
	{"PROXY_READ_TIMEOUT", durationField(func(c *Config) *time.Duration { return &c.Proxy.ReadTimeout })},
	{"PROXY_WRITE_TIMEOUT", durationField(func(c *Config) *time.Duration { return &c.Proxy.WriteTimeout })},
	{"PROXY_IDLE_TIMEOUT", durationField(func(c *Config) *time.Duration { return &c.Proxy.IdleTimeout })},
	{"PROXY_REQUEST_TIMEOUT", durationField(func(c *Config) *time.Duration { return &c.Proxy.RequestTimeout })},
	{"PROXY_MAX_HEADER_BYTES", intField(func(c *Config) *int { return &c.Proxy.MaxHeaderBytes })},
	{"PROXY_CORS_ALLOWED_ORIGINS", func(c *Config, val string) error {
		c.Proxy.CORS.AllowedOrigins = splitList(val)
		return nil
	}},

	// Upstream
	{"UPSTREAM_BASE_URL", stringField(func(c *Config) *string { return &c.Upstream.BaseURL })},
	{"UPSTREAM_API_KEY", stringField(func(c *Config) *string { return &c.Upstream.APIKey })},
	{"UPSTREAM_API_KEY_HEADER", stringField(func(c *Config) *string { return &c.Upstream.APIKeyHeader })},
	{"UPSTREAM_API_VERSION", stringField(func(c *Config) *string { return &c.Upstream.APIVersion })},
	{"UPSTREAM_SURPLUS_RECIPIENT", stringField(func(c *Config) *string { return &c.Upstream.SurplusRecipient })},
	{"UPSTREAM_ALLOW_LEGACY_PRICE", boolField(func(c *Config) **bool { return &c.Upstream.AllowLegacyPrice })},
	{"UPSTREAM_TIMEOUT", durationField(func(c *Config) *time.Duration { return &c.Upstream.Timeout })},
	{"UPSTREAM_MAX_ATTEMPTS", intField(func(c *Config) *int { return &c.Upstream.MaxAttempts })},

	// Telemetry
	{"TELEMETRY_LOGGING_LEVEL", stringField(func(c *Config) *string { return &c.Telemetry.Logging.Level })},
	{"TELEMETRY_LOGGING_FORMAT", stringField(func(c *Config) *string { return &c.Telemetry.Logging.Format })},
	{"TELEMETRY_METRICS_ENABLED", boolField(func(c *Config) **bool { return &c.Telemetry.Metrics.Enabled })},
	{"TELEMETRY_METRICS_PATH", stringField(func(c *Config) *string { return &c.Telemetry.Metrics.Path })},
	{"TELEMETRY_TRACING_ENABLED", func(c *Config, val string) error {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		c.Telemetry.Tracing.Enabled = b
		return nil
	}},
	{"TELEMETRY_TRACING_ENDPOINT", stringField(func(c *Config) *string { return &c.Telemetry.Tracing.Endpoint })},
	{"TELEMETRY_TRACING_SAMPLE_RATIO", func(c *Config, val string) error {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return err
		}
		c.Telemetry.Tracing.SampleRatio = f
		return nil
	}},

	// Security
	{"SECURITY_TLS_ENABLED", func(c *Config, val string) error {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		c.Security.TLS.Enabled = b
		return nil
	}},
	{"SECURITY_TLS_CERT_FILE", stringField(func(c *Config) *string { return &c.Security.TLS.CertFile })},
	{"SECURITY_TLS_KEY_FILE", stringField(func(c *Config) *string { return &c.Security.TLS.KeyFile })},
	{"SECURITY_SECRETS_FILE_DIR", stringField(func(c *Config) *string { return &c.Security.Secrets.FileDir })},
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format SWAPGATE_SECTION_FIELD. A value that
// cannot be parsed for its field is reported rather than silently ignored.
func applyEnvOverrides(cfg *Config) error {
	var errs []FieldError
	for _, o := range envOverrides {
		val := os.Getenv(EnvPrefix + o.name)
		if val == "" {
			continue
		}
		if err := o.set(cfg, val); err != nil {
			errs = append(errs, FieldError{
				Field:   EnvPrefix + o.name,
				Message: fmt.Sprintf("invalid value %q: %v", val, err),
			})
		}
	}
	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
