// Package telemetry bundles the gateway's observability: structured
// logging, Prometheus metrics, OpenTelemetry tracing and health probes.
//
// Setup builds all four from the telemetry section of the configuration:
//
//	tel, err := telemetry.Setup(&cfg.Telemetry, telemetry.BuildInfo{Version: version}, telemetry.Options{})
//	if err != nil {
//		return err
//	}
//	defer tel.Shutdown(context.Background())
//
// The subpackages can also be used on their own.
package telemetry
