package upstream

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// Call is a single outbound request in upstream terms.
type Call struct {
	// Name labels the call in logs, metrics and spans (e.g. "quote").
	Name string

	// Method is the HTTP method.
	Method string

	// Path is relative to the client's base URL (e.g. "swap/permit2/quote").
	Path string

	// Query is encoded onto the URL when non-empty.
	Query url.Values

	// Body is sent as-is with a JSON content type. Nil for GET calls.
	Body []byte
}

// Idempotent reports whether the call may safely be attempted more than once.
func (c *Call) Idempotent() bool {
	return c.Method == http.MethodGet || c.Method == http.MethodHead
}

// Result is a successful upstream response.
type Result struct {
	// StatusCode is the upstream 2xx status.
	StatusCode int

	// Body is the upstream JSON body, byte for byte.
	Body json.RawMessage

	// Attempts is the number of HTTP calls made to obtain the result.
	Attempts int
}

// Config configures a Client.
type Config struct {
	// BaseURL is the upstream API root.
	BaseURL string

	// Timeout bounds each HTTP call. Zero means only the caller's context applies.
	Timeout time.Duration

	// MaxAttempts bounds attempts for idempotent calls failing at the
	// transport level. Values below one are treated as one.
	MaxAttempts int

	// MaxIdleConns is the connection pool size.
	MaxIdleConns int

	// IdleConnTimeout is how long idle connections are kept.
	IdleConnTimeout time.Duration

	// MaxResponseBytes caps how much of a response body is read.
	// Default: 10MB
	MaxResponseBytes int64
}

// Observer receives one notification per HTTP attempt.
type Observer interface {
	ObserveUpstreamCall(call string, statusCode int, duration time.Duration, errKind string)
}
