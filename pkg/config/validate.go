package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/upstream"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "proxy.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateProxy(&cfg.Proxy)...)
	errs = append(errs, validateUpstream(&cfg.Upstream)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateSecurity(&cfg.Security)...)
	errs = append(errs, validateRetryBudget(cfg)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateProxy validates proxy configuration.
func validateProxy(cfg *ProxyConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "proxy.listen_address",
			Message: "listen address is required",
		})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "proxy.listen_address",
			Message: fmt.Sprintf("must be host:port: %v", err),
		})
	}

	if cfg.BasePath == "" || cfg.BasePath[0] != '/' {
		errs = append(errs, FieldError{
			Field:   "proxy.base_path",
			Message: "base path must start with /",
		})
	} else if cfg.BasePath != "/" && strings.HasSuffix(cfg.BasePath, "/") {
		errs = append(errs, FieldError{
			Field:   "proxy.base_path",
			Message: "base path must not end with /",
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.RequestTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.request_timeout",
			Message: "request timeout must be positive",
		})
	}
	if cfg.WriteTimeout > 0 && cfg.RequestTimeout > 0 && cfg.RequestTimeout >= cfg.WriteTimeout {
		errs = append(errs, FieldError{
			Field:   "proxy.request_timeout",
			Message: "request timeout must be shorter than write timeout",
		})
	}

	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxHeaderBytes > 10*1024*1024 { // 10MB is excessive
		errs = append(errs, FieldError{
			Field:   "proxy.max_header_bytes",
			Message: "max header bytes exceeds reasonable limit (10MB)",
		})
	}
	if cfg.MaxBodyBytes <= 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.max_body_bytes",
			Message: "max body bytes must be positive",
		})
	}

	if cfg.CORS.Enabled && cfg.CORS.AllowCredentials && lo.Contains(cfg.CORS.AllowedOrigins, "*") {
		errs = append(errs, FieldError{
			Field:   "proxy.cors.allow_credentials",
			Message: "credentials cannot be allowed with a wildcard origin",
		})
	}

	return errs
}

// validateUpstream validates the swap-aggregation API configuration.
func validateUpstream(cfg *UpstreamConfig) []FieldError {
	var errs []FieldError

	if cfg.BaseURL == "" {
		errs = append(errs, FieldError{
			Field:   "upstream.base_url",
			Message: "base URL is required",
		})
	} else if u, err := url.Parse(cfg.BaseURL); err != nil {
		errs = append(errs, FieldError{
			Field:   "upstream.base_url",
			Message: fmt.Sprintf("invalid URL format: %v", err),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, FieldError{
			Field:   "upstream.base_url",
			Message: "base URL must use http or https",
		})
	}

	// The key itself may still be a secret reference here; the resolved
	// value is checked again when the header set is built.
	if strings.TrimSpace(cfg.APIKey) == "" {
		errs = append(errs, FieldError{
			Field:   "upstream.api_key",
			Message: "API key is required",
		})
	}
	if cfg.APIKeyHeader == "" {
		errs = append(errs, FieldError{
			Field:   "upstream.api_key_header",
			Message: "API key header is required",
		})
	}
	if cfg.APIVersion == "" {
		errs = append(errs, FieldError{
			Field:   "upstream.api_version",
			Message: "API version is required",
		})
	}

	if cfg.SurplusRecipient == "" {
		errs = append(errs, FieldError{
			Field:   "upstream.surplus_recipient",
			Message: "surplus recipient address is required",
		})
	} else if !common.IsHexAddress(cfg.SurplusRecipient) {
		errs = append(errs, FieldError{
			Field:   "upstream.surplus_recipient",
			Message: fmt.Sprintf("invalid address %q", cfg.SurplusRecipient),
		})
	}

	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "upstream.timeout",
			Message: "timeout must be positive",
		})
	}
	if cfg.MaxAttempts < 1 {
		errs = append(errs, FieldError{
			Field:   "upstream.max_attempts",
			Message: "max attempts must be at least 1",
		})
	}
	if cfg.MaxAttempts > MaxUpstreamAttempts {
		errs = append(errs, FieldError{
			Field:   "upstream.max_attempts",
			Message: fmt.Sprintf("max attempts exceeds reasonable limit (%d)", MaxUpstreamAttempts),
		})
	}
	if cfg.MaxIdleConns < 0 {
		errs = append(errs, FieldError{
			Field:   "upstream.max_idle_conns",
			Message: "max idle connections must be non-negative",
		})
	}

	return errs
}

// validateRetryBudget checks that a run of retried upstream calls finishes
// inside the request timeout, so transport failures are reported as such
// rather than as a request timeout.
func validateRetryBudget(cfg *Config) []FieldError {
	if cfg.Proxy.RequestTimeout <= 0 || cfg.Upstream.Timeout <= 0 || cfg.Upstream.MaxAttempts <= 1 {
		return nil
	}
	budget := upstream.RetryBudget(cfg.Upstream.Timeout, cfg.Upstream.MaxAttempts)
	if budget < cfg.Proxy.RequestTimeout {
		return nil
	}
	return []FieldError{{
		Field: "upstream.max_attempts",
		Message: fmt.Sprintf("%d attempts of %s plus backoff (%s) do not fit in proxy.request_timeout (%s)",
			cfg.Upstream.MaxAttempts, cfg.Upstream.Timeout, budget, cfg.Proxy.RequestTimeout),
	}}
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := []string{"debug", "info", "warn", "error"}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !lo.Contains(validLevels, cfg.Logging.Level) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := []string{"json", "text"}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !lo.Contains(validFormats, cfg.Logging.Format) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.MetricsEnabled() {
		if cfg.Metrics.Path == "" || cfg.Metrics.Path[0] != '/' {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with /",
			})
		}
		for i := 1; i < len(cfg.Metrics.RequestDurationBuckets); i++ {
			if cfg.Metrics.RequestDurationBuckets[i] <= cfg.Metrics.RequestDurationBuckets[i-1] {
				errs = append(errs, FieldError{
					Field:   "telemetry.metrics.request_duration_buckets",
					Message: "buckets must be strictly increasing",
				})
				break
			}
		}
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	if !lo.Contains([]string{"always", "never", "ratio"}, cfg.Tracing.Sampler) {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	if cfg.HealthEnabled() {
		if cfg.Health.LivenessPath == "" || cfg.Health.LivenessPath[0] != '/' {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.liveness_path",
				Message: "liveness path must start with /",
			})
		}
		if cfg.Health.ReadinessPath == "" || cfg.Health.ReadinessPath[0] != '/' {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.readiness_path",
				Message: "readiness path must start with /",
			})
		}
		if cfg.Health.CheckTimeout < 0 {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.check_timeout",
				Message: "check timeout must be positive",
			})
		}
		if cfg.Health.CheckTimeout > 60*time.Second {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.check_timeout",
				Message: "check timeout exceeds reasonable limit (60s)",
			})
		}
	}

	return errs
}

// validateSecurity validates security configuration.
func validateSecurity(cfg *SecurityConfig) []FieldError {
	var errs []FieldError

	if cfg.TLS.Enabled {
		if cfg.TLS.CertFile == "" {
			errs = append(errs, FieldError{
				Field:   "security.tls.cert_file",
				Message: "TLS certificate file is required when TLS is enabled",
			})
		}
		if cfg.TLS.KeyFile == "" {
			errs = append(errs, FieldError{
				Field:   "security.tls.key_file",
				Message: "TLS key file is required when TLS is enabled",
			})
		}
	}
	if !lo.Contains([]string{"1.2", "1.3"}, cfg.TLS.MinVersion) {
		errs = append(errs, FieldError{
			Field:   "security.tls.min_version",
			Message: fmt.Sprintf("invalid TLS version %q: must be '1.2' or '1.3'", cfg.TLS.MinVersion),
		})
	}

	if cfg.Secrets.CacheTTL < 0 {
		errs = append(errs, FieldError{
			Field:   "security.secrets.cache_ttl",
			Message: "cache TTL must be non-negative",
		})
	}

	if cfg.Authentication.Enabled {
		if cfg.Authentication.Header == "" {
			errs = append(errs, FieldError{
				Field:   "security.authentication.header",
				Message: "header is required when authentication is enabled",
			})
		}
		enabled := lo.Filter(cfg.Authentication.Keys, func(k APIKeyConfig, _ int) bool {
			return k.IsEnabled()
		})
		if len(enabled) == 0 {
			errs = append(errs, FieldError{
				Field:   "security.authentication.keys",
				Message: "at least one enabled key is required when authentication is enabled",
			})
		}
		for i, k := range cfg.Authentication.Keys {
			if strings.TrimSpace(k.Key) == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("security.authentication.keys[%d].key", i),
					Message: "key is required",
				})
			}
		}
	}

	return errs
}
