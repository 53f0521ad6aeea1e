package auth

import (
	"context"
	"errors"
)

var (
	// ErrMissingKey is returned when the request carries no API key.
	ErrMissingKey = errors.New("missing API key")

	// ErrInvalidKey is returned when the key matches no enabled client.
	ErrInvalidKey = errors.New("invalid API key")
)

// Client is an authenticated caller.
type Client struct {
	ID string
}

// Resolver expands secret references in configured key values.
// *secrets.Manager implements it.
type Resolver interface {
	Resolve(ctx context.Context, s string) (string, error)
}

// FailureRecorder counts rejected requests by reason.
type FailureRecorder interface {
	RecordAuthFailure(reason string)
}

type contextKey struct{}

// ClientFromContext returns the client set by the middleware.
func ClientFromContext(ctx context.Context) (*Client, bool) {
	c, ok := ctx.Value(contextKey{}).(*Client)
	return c, ok
}

// ClientID returns the authenticated client ID, or "" for anonymous
// requests. It fits logging.StringField.
func ClientID(ctx context.Context) string {
	if c, ok := ClientFromContext(ctx); ok {
		return c.ID
	}
	return ""
}
