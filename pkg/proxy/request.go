package proxy

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	// DefaultMaxRequestBodySize caps inbound bodies when no limit is configured (1MB).
	DefaultMaxRequestBodySize = 1 << 20
)

// ReadBody reads the request body up to maxBytes. A larger body yields a
// *RequestError with status 413.
//
// Example usage:
//
//	body, err := ReadBody(r, cfg.MaxBodyBytes)
//	if err != nil {
//	    WriteError(w, err)
//	    return
//	}
func ReadBody(r *http.Request, maxBytes int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestBodySize
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, tooLarge(mbe.Limit)
		}
		return nil, &RequestError{
			StatusCode: http.StatusBadRequest,
			Message:    "Failed to read request body",
			Cause:      err,
		}
	}
	if int64(len(body)) > maxBytes {
		return nil, tooLarge(maxBytes)
	}
	return body, nil
}

func tooLarge(limit int64) *RequestError {
	return &RequestError{
		StatusCode: http.StatusRequestEntityTooLarge,
		Message:    "Request body too large",
		Reason:     fmt.Sprintf("request body exceeds maximum size of %d bytes", limit),
	}
}
