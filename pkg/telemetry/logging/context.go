package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// ContextField extracts log attributes from a context.
type ContextField func(ctx context.Context) []slog.Attr

// StringField logs the value returned by get under key, when non-empty.
//
//	logging.StringField("request_id", middleware.GetRequestID)
func StringField(key string, get func(context.Context) string) ContextField {
	return func(ctx context.Context) []slog.Attr {
		if v := get(ctx); v != "" {
			return []slog.Attr{slog.String(key, v)}
		}
		return nil
	}
}

// TraceFields adds trace_id and span_id when the context carries a sampled
// or remote span.
func TraceFields(ctx context.Context) []slog.Attr {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []slog.Attr{
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	}
}
