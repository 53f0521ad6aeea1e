package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy/types"
)

// TimeoutMiddleware enforces a per-request deadline. The handler runs with a
// context that expires after timeout; the gateway passes it to the upstream
// call, so an expired request also aborts its outbound call. If the handler
// has not responded by then, the client gets 504 with the standard error body
// and anything the handler writes afterwards is discarded.
//
// Example usage:
//
//	handler = TimeoutMiddleware(40 * time.Second)(handler)
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			tw := &timeoutWriter{w: w, h: make(http.Header)}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case p := <-panicked:
				panic(p)

			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.flush()

			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true

				if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
					// Client went away; nobody is listening.
					return
				}
				slog.WarnContext(r.Context(), "request timeout",
					"request_id", GetRequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"timeout", timeout.String(),
				)
				_ = proxy.WriteErrorResponse(w, http.StatusGatewayTimeout,
					types.NewGatewayTimeoutError("request exceeded "+timeout.String()))
			}
		})
	}
}

// timeoutWriter buffers the handler's response so that it can be dropped
// if the deadline passes first.
type timeoutWriter struct {
	w    http.ResponseWriter
	h    http.Header
	mu   sync.Mutex
	buf  bytes.Buffer
	code int

	timedOut bool
}

func (tw *timeoutWriter) Header() http.Header { return tw.h }

func (tw *timeoutWriter) Write(p []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if tw.code == 0 {
		tw.code = http.StatusOK
	}
	return tw.buf.Write(p)
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut || tw.code != 0 {
		return
	}
	tw.code = code
}

// flush copies the buffered response to the real writer. Callers hold mu.
func (tw *timeoutWriter) flush() {
	dst := tw.w.Header()
	for k, vv := range tw.h {
		dst[k] = vv
	}
	if tw.code == 0 {
		tw.code = http.StatusOK
	}
	tw.w.WriteHeader(tw.code)
	_, _ = tw.w.Write(tw.buf.Bytes())
}
