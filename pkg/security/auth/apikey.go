package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/config"
)

// entry is one configured key. value may be a secret reference.
type entry struct {
	value    string
	clientID string
}

// KeyStore validates presented API keys against the configured set.
// Disabled keys are dropped at construction.
type KeyStore struct {
	entries  []entry
	resolver Resolver
}

// NewKeyStore creates a store from configuration. resolver may be nil when
// no key uses a secret reference.
func NewKeyStore(keys []config.APIKeyConfig, resolver Resolver) *KeyStore {
	enabled := lo.Filter(keys, func(k config.APIKeyConfig, _ int) bool {
		return k.IsEnabled() && k.Key != ""
	})
	return &KeyStore{
		entries: lo.Map(enabled, func(k config.APIKeyConfig, i int) entry {
			return entry{value: k.Key, clientID: lo.CoalesceOrEmpty(k.ClientID, fmt.Sprintf("key-%d", i+1))}
		}),
		resolver: resolver,
	}
}

// Len returns the number of enabled keys.
func (s *KeyStore) Len() int {
	return len(s.entries)
}

// Authenticate returns the client owning key. Every configured key is
// compared in constant time.
func (s *KeyStore) Authenticate(ctx context.Context, key string) (*Client, error) {
	if key == "" {
		return nil, ErrMissingKey
	}

	var match *Client
	for _, e := range s.entries {
		value := e.value
		if s.resolver != nil {
			resolved, err := s.resolver.Resolve(ctx, value)
			if err != nil {
				slog.WarnContext(ctx, "skipping API key with unresolvable secret",
					"client_id", e.clientID,
					"error", err,
				)
				continue
			}
			value = resolved
		}
		if subtle.ConstantTimeCompare([]byte(value), []byte(key)) == 1 && match == nil {
			match = &Client{ID: e.clientID}
		}
	}

	if match == nil {
		return nil, ErrInvalidKey
	}
	return match, nil
}
