package tls

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// CertificateReloader serves the current certificate to the TLS stack and
// reloads it when the certificate or key file changes on disk, so renewals
// take effect without a restart. A failed reload keeps the previous pair.
type CertificateReloader struct {
	certFile string
	keyFile  string

	mu   sync.RWMutex
	cert *tls.Certificate

	// reloaded receives a value after every reload attempt; tests wait on it.
	reloaded chan error
}

// NewCertificateReloader creates a reloader for the given PEM files.
func NewCertificateReloader(certFile, keyFile string) *CertificateReloader {
	return &CertificateReloader{
		certFile: certFile,
		keyFile:  keyFile,
	}
}

// Load reads the certificate pair once.
func (r *CertificateReloader) Load() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load certificate: %w", err)
	}
	leaf, err := ValidateCertificate(&cert)
	if err != nil {
		return fmt.Errorf("certificate validation failed: %w", err)
	}

	r.mu.Lock()
	r.cert = &cert
	r.mu.Unlock()

	left, soon := ExpiresSoon(leaf, time.Now())
	if soon {
		slog.Warn("certificate expiring soon",
			"subject", leaf.Subject.CommonName,
			"expires_in", left.Round(time.Hour),
			"expires_at", leaf.NotAfter.Format(time.RFC3339),
		)
	} else {
		slog.Info("certificate loaded",
			"subject", leaf.Subject.CommonName,
			"issuer", leaf.Issuer.CommonName,
			"expires_at", leaf.NotAfter.Format(time.RFC3339),
		)
	}
	return nil
}

// Watch loads the pair and reloads it on file changes until ctx is done.
// The parent directories are watched, since certificate managers usually
// replace files by rename rather than writing them in place.
func (r *CertificateReloader) Watch(ctx context.Context) error {
	if err := r.Load(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create certificate watcher: %w", err)
	}

	dirs := map[string]bool{
		filepath.Dir(r.certFile): true,
		filepath.Dir(r.keyFile):  true,
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	go r.watchLoop(ctx, watcher)
	return nil
}

func (r *CertificateReloader) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	certBase := filepath.Base(r.certFile)
	keyBase := filepath.Base(r.keyFile)
	const changed = fsnotify.Write | fsnotify.Create | fsnotify.Rename

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(event.Name)
			if event.Op&changed == 0 || (name != certBase && name != keyBase) {
				continue
			}

			err := r.Load()
			if err != nil {
				// The key may not have been replaced yet; the next event retries.
				slog.Error("failed to reload certificate",
					"error", err,
					"cert_file", r.certFile,
					"key_file", r.keyFile,
				)
			} else {
				slog.Info("certificate reloaded", "cert_file", r.certFile)
			}
			if r.reloaded != nil {
				r.reloaded <- err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("certificate watcher error", "error", err)

		case <-ctx.Done():
			return
		}
	}
}

// Certificate returns the current certificate.
func (r *CertificateReloader) Certificate() *tls.Certificate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert
}

// GetCertificate fits tls.Config.GetCertificate.
func (r *CertificateReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cert := r.Certificate()
	if cert == nil {
		return nil, fmt.Errorf("no certificate loaded")
	}
	return cert, nil
}
