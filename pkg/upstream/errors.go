package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Error kinds reported to observers and logs.
const (
	KindStatus    = "status"
	KindTransport = "transport"
	KindTimeout   = "timeout"
	KindParse     = "parse"
)

// StatusError is a non-2xx response from the upstream API.
type StatusError struct {
	// Call is the name of the call that failed
	Call string

	// StatusCode is the upstream HTTP status
	StatusCode int

	// Body is the raw upstream response body
	Body []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d: %s", e.Call, e.StatusCode, e.Reason())
}

// Reason returns the upstream's explanation of the failure. The "reason"
// field of a JSON body wins; otherwise the body itself is returned as text.
func (e *StatusError) Reason() string {
	if reason := gjson.GetBytes(e.Body, "reason"); reason.Exists() {
		if reason.Type == gjson.String {
			if s := reason.String(); s != "" {
				return s
			}
		} else if reason.Raw != "" && reason.Type != gjson.Null {
			return reason.Raw
		}
	}

	if body := strings.TrimSpace(string(e.Body)); body != "" {
		return body
	}
	return http.StatusText(e.StatusCode)
}

// TransportError is a network-level failure talking to the upstream API.
type TransportError struct {
	// Call is the name of the call that failed
	Call string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream %s transport error: %v", e.Call, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// TimeoutError is a call that hit its deadline or was cancelled by the caller.
type TimeoutError struct {
	// Call is the name of the call that timed out
	Call string

	// Timeout is the configured per-call timeout
	Timeout time.Duration

	// Cause is the context error
	Cause error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if errors.Is(e.Cause, context.Canceled) {
		return fmt.Sprintf("upstream %s cancelled by caller", e.Call)
	}
	return fmt.Sprintf("upstream %s timed out after %s", e.Call, e.Timeout)
}

// Unwrap returns the underlying error for error chain support.
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// ParseError is a successful status whose body is not valid JSON.
type ParseError struct {
	// Call is the name of the call whose response failed to parse
	Call string

	// StatusCode is the upstream HTTP status
	StatusCode int

	// RawResponse is the raw response body that failed to parse
	RawResponse string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d with a non-JSON body", e.Call, e.StatusCode)
}

// IsTransport reports whether err is a failure to obtain a usable response:
// a transport error, a timeout or an unparseable success body.
func IsTransport(err error) bool {
	var te *TransportError
	var to *TimeoutError
	var pe *ParseError
	return errors.As(err, &te) || errors.As(err, &to) || errors.As(err, &pe)
}

// ErrorKind classifies err for metrics and logs. It returns "" for nil.
func ErrorKind(err error) string {
	var se *StatusError
	var to *TimeoutError
	var pe *ParseError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &se):
		return KindStatus
	case errors.As(err, &to):
		return KindTimeout
	case errors.As(err, &pe):
		return KindParse
	default:
		return KindTransport
	}
}
