package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/config"
)

func newRecordingTracer(t *testing.T) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()

	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	exporter := tracetest.NewInMemoryExporter()
	tr, err := New(&config.TracingConfig{
		Enabled: true,
		Sampler: SamplerAlways,
	}, WithExporter(exporter), WithServiceVersion("test"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })
	return tr, exporter
}

func flush(t *testing.T, tr *Tracer) {
	t.Helper()
	if err := tr.provider.ForceFlush(context.Background()); err != nil {
		t.Fatalf("ForceFlush() error = %v", err)
	}
}

func TestNew_NilConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestNew_Disabled(t *testing.T) {
	tr, err := New(&config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if tr.Enabled() {
		t.Error("Enabled() = true for disabled config")
	}

	_, span := tr.Start(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Error("disabled tracer should produce invalid span contexts")
	}
	span.End()

	if err := tr.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNew_InvalidSampler(t *testing.T) {
	_, err := New(&config.TracingConfig{Enabled: true, Sampler: "sometimes"})
	if err == nil {
		t.Fatal("expected error for unknown sampler")
	}
}

func TestTracer_ExportsSpans(t *testing.T) {
	tr, exporter := newRecordingTracer(t)

	ctx, parent := tr.Start(context.Background(), "gateway.request")
	if TraceID(ctx) == "" {
		t.Error("TraceID() empty inside a recording span")
	}
	_, child := otel.Tracer("upstream").Start(ctx, "upstream.quote")
	child.End()
	parent.End()
	flush(t, tr)

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("exported %d spans, want 2", len(spans))
	}
	if spans[0].Parent.SpanID() != spans[1].SpanContext.SpanID() {
		t.Error("global tracer span should be a child of the gateway span")
	}

	var name string
	for _, kv := range spans[1].Resource.Attributes() {
		if kv.Key == "service.name" {
			name = kv.Value.AsString()
		}
	}
	if name != config.DefaultTracingServiceName {
		t.Errorf("service.name = %q, want %q", name, config.DefaultTracingServiceName)
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		ratio    float64
		wantErr  bool
		sampled  bool
	}{
		{"always", SamplerAlways, 0, false, true},
		{"never", SamplerNever, 0, false, false},
		{"ratio one", SamplerRatio, 1.0, false, true},
		{"ratio zero", SamplerRatio, 0.0, false, false},
		{"empty means ratio", "", 1.0, false, true},
		{"ratio too high", SamplerRatio, 1.5, true, false},
		{"ratio negative", SamplerRatio, -0.1, true, false},
		{"unknown", "bogus", 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createSampler() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}

			res := s.ShouldSample(sdktrace.SamplingParameters{
				ParentContext: context.Background(),
				TraceID:       trace.TraceID{0x01},
				Name:          "root",
			})
			if got := res.Decision == sdktrace.RecordAndSample; got != tt.sampled {
				t.Errorf("sampled = %v, want %v", got, tt.sampled)
			}
		})
	}
}

func TestHTTPMiddleware(t *testing.T) {
	tr, exporter := newRecordingTracer(t)

	const traceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	var innerTrace string
	h := HTTPMiddleware(tr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		innerTrace = TraceID(r.Context())
		w.WriteHeader(http.StatusBadGateway)
	}))

	req := httptest.NewRequest(http.MethodPost, "/gateway", nil)
	req.Header.Set("traceparent", traceparent)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	flush(t, tr)

	if innerTrace != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("handler trace ID = %q, want inbound trace", innerTrace)
	}
	if got := rec.Header().Get(TraceIDHeader); got != innerTrace {
		t.Errorf("%s = %q, want %q", TraceIDHeader, got, innerTrace)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	span := spans[0]
	if span.Name != "POST /gateway" {
		t.Errorf("span name = %q", span.Name)
	}
	if span.SpanKind != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", span.SpanKind)
	}
	if span.Status.Code != codes.Error {
		t.Errorf("status = %v, want error for 502", span.Status.Code)
	}
}
