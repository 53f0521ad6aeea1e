package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy/types"
)

// Failure reasons reported to the FailureRecorder.
const (
	ReasonMissingKey = "missing_key"
	ReasonInvalidKey = "invalid_key"
)

// Middleware authenticates requests by the API key in header.
type Middleware struct {
	store    *KeyStore
	header   string
	recorder FailureRecorder
}

// NewMiddleware creates an API key middleware. recorder may be nil.
func NewMiddleware(store *KeyStore, header string, recorder FailureRecorder) *Middleware {
	return &Middleware{
		store:    store,
		header:   header,
		recorder: recorder,
	}
}

// Handle wraps next. Preflight requests pass through unauthenticated so
// CORS keeps working; everything else needs a valid key.
func (m *Middleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		client, err := m.store.Authenticate(r.Context(), r.Header.Get(m.header))
		if err != nil {
			reason := ReasonInvalidKey
			if errors.Is(err, ErrMissingKey) {
				reason = ReasonMissingKey
			}
			if m.recorder != nil {
				m.recorder.RecordAuthFailure(reason)
			}
			slog.WarnContext(r.Context(), "rejected unauthenticated request",
				"reason", reason,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			_ = proxy.WriteErrorResponse(w, http.StatusUnauthorized, types.NewErrorResponse(types.MsgUnauthorized, err.Error()))
			return
		}

		slog.DebugContext(r.Context(), "API key authenticated", "client_id", client.ID)
		ctx := context.WithValue(r.Context(), contextKey{}, client)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
