package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName              = "github.com/Rollinad/rollin-staking-dapp-sub001/pkg/upstream"
	defaultMaxResponseBytes = 10 << 20
)

// Waits between transport-level retries grow exponentially within these bounds.
const (
	RetryInitialInterval = 100 * time.Millisecond
	RetryMaxInterval     = 2 * time.Second
)

// RetryBudget is the longest an idempotent call can take when every attempt
// runs to timeout and every wait lands on its randomized ceiling.
func RetryBudget(timeout time.Duration, attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	budget := time.Duration(attempts) * timeout
	interval := float64(RetryInitialInterval)
	for i := 1; i < attempts; i++ {
		wait := min(interval, float64(RetryMaxInterval))
		budget += time.Duration(wait * (1 + backoff.DefaultRandomizationFactor))
		interval *= backoff.DefaultMultiplier
	}
	return budget
}

// Client calls the swap-aggregation API. It is safe for concurrent use and
// holds no per-request state beyond passive health counters.
type Client struct {
	config   Config
	baseURL  *url.URL
	client   *http.Client
	health   *healthTracker
	tracer   trace.Tracer
	observer Observer
}

// Option customizes a Client.
type Option func(*Client)

// WithObserver reports every attempt to o.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// WithHTTPClient replaces the pooled HTTP client, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a Client with connection pooling.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid upstream base URL %q: scheme and host are required", cfg.BaseURL)
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = defaultMaxResponseBytes
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	c := &Client{
		config:  cfg,
		baseURL: base,
		// Deadlines come from the per-call context, not the client.
		client: &http.Client{Transport: transport},
		health: newHealthTracker(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Invoke performs call with the given headers and returns the upstream
// response. See the package documentation for the error taxonomy.
func (c *Client) Invoke(ctx context.Context, call *Call, headers http.Header) (*Result, error) {
	ctx, span := c.tracer.Start(ctx, "upstream."+call.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", call.Method),
			attribute.String("url.path", call.Path),
			attribute.String("server.address", c.baseURL.Host),
		),
	)
	defer span.End()

	attempts := 1
	if call.Idempotent() {
		attempts = c.config.MaxAttempts
	}

	tries := 0
	operation := func() (*Result, error) {
		tries++
		res, err := c.do(ctx, call, headers)
		if err == nil {
			return res, nil
		}
		var te *TransportError
		if errors.As(err, &te) {
			return nil, err
		}
		// Status, parse and timeout errors are final.
		return nil, backoff.Permanent(err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = RetryInitialInterval
	b.MaxInterval = RetryMaxInterval

	res, err := backoff.Retry(ctx, operation,
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithBackOff(b),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.WarnContext(ctx, "upstream call failed, will retry",
				"call", call.Name,
				"attempt", tries,
				"max_attempts", attempts,
				"next_in", next,
				"error", err,
			)
		}),
	)
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
		if !isClassified(err) {
			// Retry gave up on the context before another attempt ran.
			err = &TimeoutError{Call: call.Name, Timeout: c.config.Timeout, Cause: err}
		}

		span.SetAttributes(attribute.Int("upstream.attempts", tries))
		var se *StatusError
		if errors.As(err, &se) {
			span.SetAttributes(attribute.Int("http.response.status_code", se.StatusCode))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrorKind(err))
		return nil, err
	}

	res.Attempts = tries
	span.SetAttributes(
		attribute.Int("upstream.attempts", tries),
		attribute.Int("http.response.status_code", res.StatusCode),
	)
	span.SetStatus(codes.Ok, "")
	return res, nil
}

func isClassified(err error) bool {
	var se *StatusError
	return errors.As(err, &se) || IsTransport(err)
}

// do performs a single HTTP attempt.
func (c *Client) do(ctx context.Context, call *Call, headers http.Header) (res *Result, err error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	status := 0
	defer func() {
		c.health.record(call.Name, err)
		if c.observer != nil {
			c.observer.ObserveUpstreamCall(call.Name, status, time.Since(start), ErrorKind(err))
		}
	}()

	target := c.buildURL(call)

	var body io.Reader
	if call.Body != nil {
		body = bytes.NewReader(call.Body)
	}
	req, err := http.NewRequestWithContext(ctx, call.Method, target, body)
	if err != nil {
		return nil, &TransportError{Call: call.Name, Cause: fmt.Errorf("failed to create request: %w", err)}
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("Content-Type") == "" && call.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	slog.DebugContext(ctx, "sending request to upstream",
		"call", call.Name,
		"method", call.Method,
		"path", call.Path,
	)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &TimeoutError{Call: call.Name, Timeout: c.config.Timeout, Cause: ctxErr}
		}
		return nil, &TransportError{Call: call.Name, Cause: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	payload, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &TimeoutError{Call: call.Name, Timeout: c.config.Timeout, Cause: ctxErr}
		}
		return nil, &TransportError{Call: call.Name, Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Call: call.Name, StatusCode: resp.StatusCode, Body: payload}
	}

	if !json.Valid(payload) {
		return nil, &ParseError{Call: call.Name, StatusCode: resp.StatusCode, RawResponse: string(payload)}
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Body:       json.RawMessage(payload),
	}, nil
}

func (c *Client) buildURL(call *Call) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(call.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	if len(call.Query) > 0 {
		u.RawQuery = call.Query.Encode()
	}
	return u.String()
}

// Close releases pooled connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	slog.Debug("upstream client closed", "base_url", c.baseURL.Redacted())
	return nil
}
