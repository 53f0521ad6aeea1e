package proxy

import (
	"errors"
	"net/http"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy/types"
)

// RequestError is a failure the HTTP layer answers itself, before the
// request reaches the gateway.
type RequestError struct {
	StatusCode int
	Message    string
	Reason     string
	Cause      error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// ToErrorResponse converts a RequestError to the wire error body. The cause
// is never exposed.
func (e *RequestError) ToErrorResponse() *types.ErrorResponse {
	return types.NewErrorResponse(e.Message, e.Reason)
}

// HandleError converts err into a status and error body. Anything that is
// not a *RequestError is reported as an opaque 500.
func HandleError(err error) (int, *types.ErrorResponse) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		status := reqErr.StatusCode
		if status == 0 {
			status = http.StatusBadRequest
		}
		return status, reqErr.ToErrorResponse()
	}
	return http.StatusInternalServerError, types.NewServerError()
}
