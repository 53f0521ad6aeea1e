// Package metrics exports Prometheus metrics for the gateway.
//
// A single Collector owns a registry and two metric groups:
//
//   - request metrics: inbound requests by operation and status, latency,
//     validation and authentication rejections
//   - upstream metrics: attempts against the swap API by call and status
//     class, latency, failures by error kind and a passive health gauge
//
// The Collector satisfies gateway.Recorder and upstream.Observer, so it is
// handed to those packages as an option:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	client, _ := upstream.NewClient(upCfg, upstream.WithObserver(collector))
//	gw, _ := gateway.New(gwCfg, client, gateway.WithRecorder(collector))
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// Label values come from small fixed sets (operation names, call names,
// status classes, error kinds), so no cardinality limiting is applied.
package metrics
