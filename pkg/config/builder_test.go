package config

import "time"

const (
	testAPIKey           = "test-upstream-key"
	testSurplusRecipient = "0x7D2A5B8E3c6F1a9C4b0E2d8F5a3B6c9D1e4F7a2B"
)

// ConfigBuilder builds valid configurations for tests.
type ConfigBuilder struct {
	cfg *Config
}

// NewTestConfig returns a builder seeded with a minimal valid configuration.
func NewTestConfig() *ConfigBuilder {
	cfg := &Config{
		Upstream: UpstreamConfig{
			APIKey:           testAPIKey,
			SurplusRecipient: testSurplusRecipient,
		},
	}
	ApplyDefaults(cfg)
	return &ConfigBuilder{cfg: cfg}
}

func (b *ConfigBuilder) WithListenAddress(addr string) *ConfigBuilder {
	b.cfg.Proxy.ListenAddress = addr
	return b
}

func (b *ConfigBuilder) WithUpstream(baseURL string, timeout time.Duration) *ConfigBuilder {
	b.cfg.Upstream.BaseURL = baseURL
	b.cfg.Upstream.Timeout = timeout
	return b
}

func (b *ConfigBuilder) WithTLS(certFile, keyFile string) *ConfigBuilder {
	b.cfg.Security.TLS.Enabled = true
	b.cfg.Security.TLS.CertFile = certFile
	b.cfg.Security.TLS.KeyFile = keyFile
	return b
}

func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}
