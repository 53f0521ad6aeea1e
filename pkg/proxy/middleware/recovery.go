package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy/types"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and returns a 500
// response with the standard error body. The panic and stack trace are
// logged; neither reaches the client.
//
// Example usage:
//
//	handler = RecoveryMiddleware(handler)
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"request_id", GetRequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				_ = proxy.WriteErrorResponse(w, http.StatusInternalServerError, types.NewServerError())
			}
		}()

		next.ServeHTTP(w, r)
	})
}
