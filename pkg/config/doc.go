// Package config provides configuration management for the swap gateway.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SWAPGATE_SECTION_FIELD.
// For example:
//
//   - SWAPGATE_PROXY_LISTEN_ADDRESS overrides proxy.listen_address
//   - SWAPGATE_UPSTREAM_API_KEY overrides upstream.api_key
//   - SWAPGATE_UPSTREAM_SURPLUS_RECIPIENT overrides upstream.surplus_recipient
//
// A value that does not parse for its field fails loading with the variable
// name in the error.
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// All configuration is validated automatically during loading. Validation includes:
//
//   - Required field checks (upstream API key, surplus recipient)
//   - Range validation (e.g., upstream attempts must be 1-5)
//   - Format validation (URL scheme, hex address of the surplus recipient)
//   - Logical validation (e.g., the request timeout must be shorter than the write timeout)
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - upstream.api_key: API key is required
//	  - upstream.surplus_recipient: surplus recipient address is required
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	proxy:
//	  listen_address: "0.0.0.0:8080"
//
//	upstream:
//	  api_key: "${secret:swap-api-key}"
//	  surplus_recipient: "0x..."
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//
// # Thread Safety
//
// A loaded Config is not mutated afterwards and may be shared across
// goroutines.
package config
