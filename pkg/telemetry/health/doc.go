// Package health provides liveness, readiness and version endpoints.
//
// Liveness (/health by default) answers 200 whenever the process can serve
// HTTP. Readiness (/ready) runs every registered check concurrently, each
// under its own timeout, and answers 503 if any of them fails. The gateway
// registers two checks:
//
//   - config: the process-wide configuration is loaded
//   - upstream: the swap API has not failed three times in a row
//
// The upstream check is passive. It reads health derived from live traffic
// and never sends a request of its own.
//
// Usage:
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout,
//		health.WithResultHook(func(name string, err error) {
//			if name == "upstream" {
//				collector.UpdateUpstreamHealth(err == nil)
//			}
//		}),
//	)
//	checker.RegisterCheck("upstream", gw.HealthCheck)
//	health.Register(mux, cfg.Telemetry.Health, checker, health.NewVersionInfo(version, commit, date))
package health
