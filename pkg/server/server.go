package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/config"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy/handlers"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/security/auth"
	securitytls "github.com/Rollinad/rollin-staking-dapp-sub001/pkg/security/tls"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/telemetry"
)

// Gateway is the request pipeline the server exposes. *gateway.Gateway
// implements it.
type Gateway interface {
	handlers.GatewayService
	HealthCheck(ctx context.Context) error
}

// Dependencies are the components the server wires into its routes.
type Dependencies struct {
	Gateway   Gateway
	Telemetry *telemetry.Telemetry

	// Secrets resolves secret references in inbound API keys. Optional.
	Secrets auth.Resolver
}

// Server is the gateway's HTTP server.
type Server struct {
	config     *config.Config
	deps       Dependencies
	handler    http.Handler
	httpServer *http.Server

	mu        sync.RWMutex
	isRunning bool
	addr      net.Addr
}

// New creates a server and builds its routes. It does not listen.
func New(cfg *config.Config, deps Dependencies) (*Server, error) {
	if deps.Gateway == nil {
		return nil, errors.New("server: gateway is required")
	}
	if deps.Telemetry == nil {
		return nil, errors.New("server: telemetry is required")
	}

	s := &Server{config: cfg, deps: deps}
	s.registerChecks()
	s.handler = s.setupRoutes()
	return s, nil
}

// registerChecks adds the readiness checks: configuration validity and
// passive upstream health.
func (s *Server) registerChecks() {
	checker := s.deps.Telemetry.Health
	checker.RegisterCheck("config", func(ctx context.Context) error {
		return config.Validate(s.config)
	})
	checker.RegisterCheck(telemetry.UpstreamCheck, s.deps.Gateway.HealthCheck)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Proxy.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Proxy.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done. TLS is applied when enabled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		_ = ln.Close()
		return errors.New("server is already running")
	}
	s.isRunning = true
	s.addr = ln.Addr()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
	}()

	proxyCfg := s.config.Proxy
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadTimeout:       proxyCfg.ReadTimeout,
		ReadHeaderTimeout: proxyCfg.ReadTimeout,
		WriteTimeout:      proxyCfg.WriteTimeout,
		IdleTimeout:       proxyCfg.IdleTimeout,
		MaxHeaderBytes:    proxyCfg.MaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	tlsConfig, err := securitytls.NewServerConfig(ctx, s.config.Security.TLS)
	if err != nil {
		_ = ln.Close()
		return fmt.Errorf("failed to configure TLS: %w", err)
	}
	s.httpServer.TLSConfig = tlsConfig

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting gateway server",
			"address", ln.Addr().String(),
			"base_path", proxyCfg.BasePath,
			"tls_enabled", tlsConfig != nil,
			"auth_enabled", s.config.Security.Authentication.Enabled,
		)

		var err error
		if tlsConfig != nil {
			err = s.httpServer.ServeTLS(ln, "", "")
		} else {
			err = s.httpServer.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down gateway server", "timeout", proxyCfg.ShutdownTimeout.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), proxyCfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during server shutdown", "error", err)
		return fmt.Errorf("server shutdown error: %w", err)
	}
	if err := <-errCh; err != nil {
		return err
	}

	slog.Info("gateway server stopped")
	return nil
}

// IsRunning reports whether Serve is active.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the listening address while running.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}
