package types

import "net/http"

// ErrorResponse is the error body returned by every gateway route:
//
//	{"error": "Failed to fetch quote", "reason": "insufficient liquidity"}
//
// Reason is omitted when there is nothing useful to add.
type ErrorResponse struct {
	// Error is a short, caller-facing description.
	Error string `json:"error"`

	// Reason carries detail, such as the upstream's own explanation.
	Reason string `json:"reason,omitempty"`
}

// Messages used by the HTTP layer itself, outside the gateway pipeline.
const (
	MsgMethodNotAllowed = "Method not allowed"
	MsgInternal         = "Internal server error"
	MsgTimeout          = "Request timed out"
	MsgTooLarge         = "Request body too large"
	MsgUnauthorized     = "Unauthorized"
	MsgNotFound         = "Not found"
)

// NewErrorResponse creates an error body.
func NewErrorResponse(message, reason string) *ErrorResponse {
	return &ErrorResponse{Error: message, Reason: reason}
}

// NewMethodNotAllowedError is returned for unsupported methods (405).
func NewMethodNotAllowedError() *ErrorResponse {
	return NewErrorResponse(MsgMethodNotAllowed, "")
}

// NewServerError is returned when the handler itself failed (500).
func NewServerError() *ErrorResponse {
	return NewErrorResponse(MsgInternal, "")
}

// NewGatewayTimeoutError is returned when the request deadline passed (504).
func NewGatewayTimeoutError(reason string) *ErrorResponse {
	return NewErrorResponse(MsgTimeout, reason)
}

// StatusText returns the default message for a status without one of its own.
func StatusText(code int) string {
	switch code {
	case http.StatusMethodNotAllowed:
		return MsgMethodNotAllowed
	case http.StatusRequestEntityTooLarge:
		return MsgTooLarge
	case http.StatusUnauthorized:
		return MsgUnauthorized
	case http.StatusNotFound:
		return MsgNotFound
	case http.StatusGatewayTimeout:
		return MsgTimeout
	default:
		if text := http.StatusText(code); text != "" {
			return text
		}
		return MsgInternal
	}
}
