// Package tls configures TLS for the inbound server.
//
// Certificates are served through CertificateReloader, which watches the
// certificate and key files with fsnotify and swaps in renewed pairs
// without a restart:
//
//	tlsConfig, err := tls.NewServerConfig(ctx, cfg.Security.TLS)
//	if err != nil {
//		return err
//	}
//	srv.TLSConfig = tlsConfig // nil when TLS is disabled
//
// TLS 1.0 and 1.1 are not supported.
package tls
