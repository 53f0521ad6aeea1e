package secrets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/config"
)

// refPattern matches ${secret:name} references in configuration values.
var refPattern = regexp.MustCompile(`\$\{secret:([^}]+)\}`)

// IsReference reports whether s contains a ${secret:name} reference.
func IsReference(s string) bool {
	return refPattern.MatchString(s)
}

// Manager resolves secrets through an ordered list of providers, caching
// resolved values for a TTL. The first provider holding a secret wins.
type Manager struct {
	providers []Provider
	cache     *cache.Cache
	closers   []io.Closer
}

// NewManager creates a manager over providers. A ttl <= 0 disables caching.
func NewManager(providers []Provider, ttl time.Duration) *Manager {
	m := &Manager{providers: providers}
	if ttl > 0 {
		m.cache = cache.New(ttl, 2*ttl)
	}
	return m
}

// NewFromConfig builds the env provider and, when a directory is
// configured, the file provider ahead of it. With watching enabled a change
// to any secret file flushes the cache.
func NewFromConfig(cfg config.SecretsConfig) (*Manager, error) {
	m := NewManager(nil, cfg.CacheTTL)

	if cfg.FileDir != "" {
		var opts []FileOption
		if cfg.WatchEnabled() {
			opts = append(opts, WithChangeHandler(func(name string) {
				slog.Info("secret file changed, flushing secret cache", "file", name)
				m.Flush()
			}))
		}
		fp, err := NewFileProvider(cfg.FileDir, opts...)
		if err != nil {
			return nil, err
		}
		m.providers = append(m.providers, fp)
		m.closers = append(m.closers, fp)
	}

	m.providers = append(m.providers, NewEnvProvider(cfg.EnvPrefix))
	return m, nil
}

// GetSecret returns the named secret from the cache or the first provider
// that holds it.
func (m *Manager) GetSecret(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("secret name is empty")
	}

	if m.cache != nil {
		if v, ok := m.cache.Get(name); ok {
			return v.(string), nil
		}
	}

	var errs []error
	for _, p := range m.providers {
		value, err := p.GetSecret(ctx, name)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				slog.WarnContext(ctx, "secret provider failed",
					"provider", p.Name(),
					"secret", name,
					"error", err,
				)
			}
			errs = append(errs, err)
			continue
		}

		if m.cache != nil {
			m.cache.SetDefault(name, value)
		}
		slog.DebugContext(ctx, "secret resolved", "provider", p.Name(), "secret", name)
		return value, nil
	}

	if len(errs) == 0 {
		return "", fmt.Errorf("%w: %s (no providers configured)", ErrNotFound, name)
	}
	return "", fmt.Errorf("failed to resolve secret %q: %w", name, errors.Join(errs...))
}

// Resolve replaces every ${secret:name} reference in s. Any reference that
// cannot be resolved fails the whole value.
func (m *Manager) Resolve(ctx context.Context, s string) (string, error) {
	var errs []error
	out := refPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := refPattern.FindStringSubmatch(match)[1]
		value, err := m.GetSecret(ctx, name)
		if err != nil {
			errs = append(errs, err)
			return match
		}
		return value
	})
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return out, nil
}

// ResolveConfig resolves secret references in the upstream API key in
// place. Inbound authentication keys are left as references; the auth
// middleware resolves them per request through the cache so rotated
// secret files take effect without a restart.
func (m *Manager) ResolveConfig(ctx context.Context, cfg *config.Config) error {
	if !IsReference(cfg.Upstream.APIKey) {
		return nil
	}
	key, err := m.Resolve(ctx, cfg.Upstream.APIKey)
	if err != nil {
		return fmt.Errorf("upstream.api_key: %w", err)
	}
	cfg.Upstream.APIKey = key
	return nil
}

// Flush drops every cached secret.
func (m *Manager) Flush() {
	if m.cache != nil {
		m.cache.Flush()
	}
}

// Close stops file watchers.
func (m *Manager) Close() error {
	var errs []error
	for _, c := range m.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
