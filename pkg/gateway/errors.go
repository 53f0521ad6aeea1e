package gateway

import "fmt"

// ConfigurationError is a startup-time problem with the gateway's settings,
// such as a missing upstream API key. The gateway refuses to start rather
// than forwarding requests the upstream would reject.
type ConfigurationError struct {
	// Field is the configuration field at fault (e.g. "upstream.api_key")
	Field string

	// Message describes the problem
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("gateway configuration error for %s: %s", e.Field, e.Message)
}
