// Package tracing sets up OpenTelemetry tracing for the gateway.
//
// New installs a tracer provider exporting over OTLP/gRPC, plus the W3C
// trace-context propagator, as the otel globals. The gateway and upstream
// packages take their tracers from otel.Tracer, so one call wires every
// span in the process:
//
//	POST /gateway                 (server span, HTTPMiddleware)
//	└── gateway.request           (gateway.Gateway)
//	    └── upstream.quote        (upstream.Client, traceparent injected)
//
// With telemetry.tracing.enabled false the provider is a noop, but inbound
// traceparent headers are still propagated to the upstream API.
//
// Sampling is parent-based on top of one of "always", "never" or "ratio".
package tracing
