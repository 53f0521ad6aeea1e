package server

import (
	"net/http"
	"strings"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy/handlers"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy/middleware"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/security/auth"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/telemetry/health"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/telemetry/tracing"
)

// Gateway route suffixes, relative to proxy.base_path.
const (
	SubmitPath    = "/gasless/submit"
	AnalyticsPath = "/trade-analytics/gasless"
)

// setupRoutes mounts the gateway, probe and metrics routes and wraps them
// in the middleware chain, outermost first:
//
//	recovery, request ID, tracing, logging, CORS, timeout
//
// The gateway routes additionally get the body limit and, when enabled,
// API key authentication.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	tel := s.deps.Telemetry
	proxyCfg := s.config.Proxy

	gw := handlers.NewGatewayHandler(s.deps.Gateway, proxyCfg.MaxBodyBytes)
	prefix := strings.TrimSuffix(proxyCfg.BasePath, "/")
	base := prefix
	if base == "" {
		// "/" would match every path.
		base = "/{$}"
	}

	var gatewayMW []func(http.Handler) http.Handler
	if authCfg := s.config.Security.Authentication; authCfg.Enabled {
		store := auth.NewKeyStore(authCfg.Keys, s.deps.Secrets)
		gatewayMW = append(gatewayMW, auth.NewMiddleware(store, authCfg.Header, tel.Metrics).Handle)
	}
	gatewayMW = append(gatewayMW, middleware.BodyLimitMiddleware(proxyCfg.MaxBodyBytes))

	mux.Handle(base, middleware.Chain(http.HandlerFunc(gw.Swap), gatewayMW...))
	mux.Handle(prefix+SubmitPath, middleware.Chain(http.HandlerFunc(gw.Submit), gatewayMW...))
	mux.Handle(prefix+AnalyticsPath, middleware.Chain(http.HandlerFunc(gw.Analytics), gatewayMW...))

	health.Register(mux, s.config.Telemetry.Health, tel.Health, tel.Version)
	if s.config.Telemetry.MetricsEnabled() {
		mux.Handle(s.config.Telemetry.Metrics.Path, tel.Metrics.Handler())
	}

	return middleware.Chain(mux,
		middleware.RecoveryMiddleware,
		middleware.RequestIDMiddleware,
		tracing.HTTPMiddleware(tel.Tracer),
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware(s.corsConfig()),
		middleware.TimeoutMiddleware(proxyCfg.RequestTimeout),
	)
}

func (s *Server) corsConfig() *middleware.CORSConfig {
	c := s.config.Proxy.CORS
	return &middleware.CORSConfig{
		Enabled:          c.Enabled,
		AllowedOrigins:   c.AllowedOrigins,
		AllowedMethods:   c.AllowedMethods,
		AllowedHeaders:   c.AllowedHeaders,
		ExposedHeaders:   c.ExposedHeaders,
		MaxAge:           c.MaxAge,
		AllowCredentials: c.AllowCredentials,
	}
}
