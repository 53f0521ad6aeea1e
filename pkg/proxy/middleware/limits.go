package middleware

import (
	"net/http"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy/types"
)

// BodyLimitMiddleware rejects request bodies larger than maxBytes with 413.
// A declared Content-Length is checked up front; bodies without one are
// capped with http.MaxBytesReader so handlers fail on read instead.
//
// Example usage:
//
//	handler = BodyLimitMiddleware(1 << 20)(handler)
func BodyLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				_ = proxy.WriteErrorResponse(w, http.StatusRequestEntityTooLarge,
					types.NewErrorResponse(types.MsgTooLarge, ""))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Chain applies middleware so that the first one listed is outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
