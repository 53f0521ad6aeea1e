package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/upstream"
)

const tracerName = "github.com/Rollinad/rollin-staking-dapp-sub001/pkg/gateway"

// Invoker performs upstream calls. *upstream.Client implements it.
type Invoker interface {
	Invoke(ctx context.Context, call *upstream.Call, headers http.Header) (*upstream.Result, error)
}

// Recorder receives per-request metrics.
type Recorder interface {
	RecordGatewayRequest(operation string, statusCode int, duration time.Duration)
	RecordValidationFailure(operation string)
}

// Config holds the gateway's startup settings.
type Config struct {
	Headers          HeaderConfig
	SurplusRecipient string
	AllowLegacyPrice bool
}

// Gateway runs the validate, map, invoke and relay pipeline. It holds only
// immutable state and is safe for concurrent use.
type Gateway struct {
	headers   *UpstreamHeaders
	validator *Validator
	mapper    *Mapper
	invoker   Invoker
	recorder  Recorder
	tracer    trace.Tracer
	requestID func(context.Context) string
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithRecorder reports request metrics to r.
func WithRecorder(r Recorder) Option {
	return func(g *Gateway) {
		g.recorder = r
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(g *Gateway) {
		g.tracer = t
	}
}

// WithRequestIDFunc forwards the inbound request ID to the upstream as
// X-Request-ID.
func WithRequestIDFunc(fn func(context.Context) string) Option {
	return func(g *Gateway) {
		g.requestID = fn
	}
}

// New creates a Gateway. Configuration problems are returned as
// *ConfigurationError so startup fails instead of the first request.
func New(cfg Config, invoker Invoker, opts ...Option) (*Gateway, error) {
	if invoker == nil {
		return nil, &ConfigurationError{Field: "upstream", Message: "no upstream invoker"}
	}
	headers, err := NewUpstreamHeaders(cfg.Headers)
	if err != nil {
		return nil, err
	}
	mapper, err := NewMapper(cfg.SurplusRecipient)
	if err != nil {
		return nil, err
	}

	g := &Gateway{
		headers:   headers,
		validator: NewValidator(cfg.AllowLegacyPrice),
		mapper:    mapper,
		invoker:   invoker,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// HandleSwap serves a POST /gateway body.
func (g *Gateway) HandleSwap(ctx context.Context, body []byte) *Response {
	return g.serve(ctx, func() (*Request, error) {
		req, err := DecodeSwapRequest(body)
		if err != nil {
			return nil, err
		}
		return g.validator.Swap(req)
	})
}

// HandleSubmit serves a POST /gateway/gasless/submit body.
func (g *Gateway) HandleSubmit(ctx context.Context, body []byte) *Response {
	return g.serve(ctx, func() (*Request, error) {
		req, err := DecodeSubmitRequest(body)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				ve.Operation = OperationSubmit
			}
			return nil, err
		}
		return g.validator.Submit(req)
	})
}

// HandleAnalytics serves a GET /gateway/trade-analytics/gasless query.
func (g *Gateway) HandleAnalytics(ctx context.Context, query url.Values) *Response {
	return g.serve(ctx, func() (*Request, error) {
		return g.validator.Analytics(AnalyticsQueryFromValues(query))
	})
}

// serve is the failure boundary: every error and panic raised while
// building or running a request becomes a JSON response.
func (g *Gateway) serve(ctx context.Context, build func() (*Request, error)) (resp *Response) {
	start := time.Now()
	op := OperationUnknown

	ctx, span := g.tracer.Start(ctx, "gateway.request", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic while handling gateway request",
				"operation", op.String(),
				"panic", r,
			)
			resp = Failure(op, fmt.Errorf("panic: %v", r))
		}
		span.SetAttributes(
			attribute.String("gateway.operation", op.String()),
			attribute.Int("http.response.status_code", resp.StatusCode),
		)
		if resp.StatusCode >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		}
		if g.recorder != nil {
			g.recorder.RecordGatewayRequest(op.String(), resp.StatusCode, time.Since(start))
		}
	}()

	req, err := build()
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			op = ve.Operation
			if g.recorder != nil {
				g.recorder.RecordValidationFailure(op.String())
			}
			slog.InfoContext(ctx, "rejected invalid gateway request",
				"operation", op.String(),
				"fields", ve.Fields(),
			)
		}
		return Failure(op, err)
	}
	op = req.Operation

	return g.execute(ctx, req)
}

func (g *Gateway) execute(ctx context.Context, req *Request) *Response {
	op := req.Operation
	if op == OperationPriceLegacy {
		slog.WarnContext(ctx, "deprecated legacy price call without chainId",
			"sell_token", req.Swap.SellToken,
			"buy_token", req.Swap.BuyToken,
		)
	}

	call, err := g.mapper.Map(req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to map gateway request", "operation", op.String(), "error", err)
		return Failure(op, err)
	}

	headers := g.headers.Header()
	if g.requestID != nil {
		if id := g.requestID(ctx); id != "" {
			headers.Set("X-Request-ID", id)
		}
	}

	res, err := g.invoker.Invoke(ctx, call, headers)
	if err != nil {
		resp := Failure(op, err)
		level := slog.LevelWarn
		if resp.StatusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "upstream call failed",
			"operation", op.String(),
			"status", resp.StatusCode,
			"error_kind", upstream.ErrorKind(err),
			"error", err,
		)
		return resp
	}

	slog.DebugContext(ctx, "upstream call succeeded",
		"operation", op.String(),
		"upstream_status", res.StatusCode,
		"attempts", res.Attempts,
	)
	return Success(res)
}

// HealthCheck reports whether the upstream is usable, when the invoker can
// tell.
func (g *Gateway) HealthCheck(ctx context.Context) error {
	if hc, ok := g.invoker.(interface{ HealthCheck(context.Context) error }); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
