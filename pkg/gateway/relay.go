package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/upstream"
)

// Caller-facing reasons for failures that must not expose internals.
const (
	reasonTimeout     = "upstream request timed out"
	reasonCancelled   = "request cancelled"
	reasonBadResponse = "upstream returned an invalid response"
	reasonUnreachable = "upstream unreachable"
	reasonInternal    = "internal error"

	msgInvalidRequest = "Invalid request"
	msgMisconfigured  = "Gateway misconfigured"
)

// Response is what the gateway hands back to the transport layer.
type Response struct {
	// StatusCode is the HTTP status for the caller
	StatusCode int

	// Body is a JSON document, written as is
	Body []byte
}

// ErrorBody is the normalized failure shape.
type ErrorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Success relays an upstream result: status 200 and the upstream body
// byte for byte.
func Success(res *upstream.Result) *Response {
	return &Response{StatusCode: http.StatusOK, Body: res.Body}
}

// Failure converts any error raised while handling op into a response.
// It never fails and never exposes transport internals.
func Failure(op Operation, err error) *Response {
	var (
		ve *ValidationError
		ce *ConfigurationError
		se *upstream.StatusError
		to *upstream.TimeoutError
		pe *upstream.ParseError
		te *upstream.TransportError
	)

	switch {
	case errors.As(err, &ve):
		return errorResponse(http.StatusBadRequest, msgInvalidRequest, ve.Detail())
	case errors.As(err, &ce):
		return errorResponse(http.StatusInternalServerError, msgMisconfigured, "")
	case errors.As(err, &se):
		return errorResponse(op.upstreamFailureStatus(se.StatusCode), op.failureMessage(), se.Reason())
	case errors.As(err, &to):
		reason := reasonTimeout
		if errors.Is(to.Cause, context.Canceled) {
			reason = reasonCancelled
		}
		return errorResponse(http.StatusInternalServerError, op.failureMessage(), reason)
	case errors.As(err, &pe):
		return errorResponse(http.StatusInternalServerError, op.failureMessage(), reasonBadResponse)
	case errors.As(err, &te):
		return errorResponse(http.StatusInternalServerError, op.failureMessage(), reasonUnreachable)
	default:
		return errorResponse(http.StatusInternalServerError, op.failureMessage(), reasonInternal)
	}
}

// MethodNotAllowed is returned for unsupported methods on gateway routes.
func MethodNotAllowed() *Response {
	return errorResponse(http.StatusMethodNotAllowed, "Method not allowed", "")
}

func errorResponse(status int, message, reason string) *Response {
	body, err := json.Marshal(ErrorBody{Error: message, Reason: reason})
	if err != nil {
		body = []byte(`{"error":"Internal server error"}`)
	}
	return &Response{StatusCode: status, Body: body}
}
