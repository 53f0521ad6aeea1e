package tls

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/config"
)

// ParseVersion converts "1.2" or "1.3" to a tls version constant. Empty
// means TLS 1.2.
func ParseVersion(v string) (uint16, error) {
	switch v {
	case "1.2", "":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS version %q (valid: 1.2, 1.3)", v)
	}
}

// NewServerConfig builds the inbound server's tls.Config. It returns nil
// when TLS is disabled. With watch_certificates on, the certificate is
// reloaded on file changes until ctx is done.
func NewServerConfig(ctx context.Context, cfg config.TLSConfig) (*tls.Config, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.CertFile == "" || cfg.KeyFile == "" {
		return nil, fmt.Errorf("cert_file and key_file are required when TLS is enabled")
	}

	minVersion, err := ParseVersion(cfg.MinVersion)
	if err != nil {
		return nil, err
	}

	reloader := NewCertificateReloader(cfg.CertFile, cfg.KeyFile)
	if cfg.WatchEnabled() {
		err = reloader.Watch(ctx)
	} else {
		err = reloader.Load()
	}
	if err != nil {
		return nil, err
	}

	// #nosec G402 - MinVersion is at least TLS 1.2
	return &tls.Config{
		MinVersion:     minVersion,
		GetCertificate: reloader.GetCertificate,
	}, nil
}
