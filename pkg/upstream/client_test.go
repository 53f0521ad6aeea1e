package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
	kinds []string
}

func (o *recordingObserver) ObserveUpstreamCall(call string, statusCode int, duration time.Duration, errKind string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, call)
	o.kinds = append(o.kinds, errKind)
}

func newTestClient(t *testing.T, baseURL string, cfg Config, opts ...Option) *Client {
	t.Helper()
	cfg.BaseURL = baseURL
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	c, err := NewClient(cfg, opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClient_Invoke_Success(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("0x-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"price": "1234"}`))
	}))
	defer server.Close()

	obs := &recordingObserver{}
	c := newTestClient(t, server.URL, Config{}, WithObserver(obs))

	headers := http.Header{}
	headers.Set("0x-api-key", "secret")
	res, err := c.Invoke(context.Background(), &Call{
		Name:   "price",
		Method: http.MethodGet,
		Path:   "swap/permit2/price",
		Query:  url.Values{"sellToken": {"0xA"}},
	}, headers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/swap/permit2/price" {
		t.Errorf("expected path /swap/permit2/price, got %q", gotPath)
	}
	if gotQuery != "sellToken=0xA" {
		t.Errorf("unexpected query %q", gotQuery)
	}
	if gotKey != "secret" {
		t.Errorf("expected api key header to be forwarded, got %q", gotKey)
	}
	if string(res.Body) != `{"price": "1234"}` {
		t.Errorf("expected body verbatim, got %s", res.Body)
	}
	if res.StatusCode != http.StatusOK || res.Attempts != 1 {
		t.Errorf("unexpected result status=%d attempts=%d", res.StatusCode, res.Attempts)
	}
	if len(obs.calls) != 1 || obs.calls[0] != "price" || obs.kinds[0] != "" {
		t.Errorf("unexpected observations %v %v", obs.calls, obs.kinds)
	}
}

func TestClient_Invoke_BaseURLWithPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/v1/", Config{})
	if _, err := c.Invoke(context.Background(), &Call{Name: "analytics", Method: http.MethodGet, Path: "trade-analytics/gasless"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v1/trade-analytics/gasless" {
		t.Errorf("unexpected path %q", gotPath)
	}
}

func TestClient_Invoke_PostBody(t *testing.T) {
	var gotBody, gotType, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotType = r.Header.Get("Content-Type")
		gotMethod = r.Method
		_, _ = w.Write([]byte(`{"tradeHash":"0x01"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, Config{})
	body := []byte(`{"trade":{"type":"settler_metatransaction"},"chainId":8453}`)
	if _, err := c.Invoke(context.Background(), &Call{Name: "submit", Method: http.MethodPost, Path: "gasless/submit", Body: body}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("expected POST, got %s", gotMethod)
	}
	if gotBody != string(body) {
		t.Errorf("expected body passed through, got %s", gotBody)
	}
	if gotType != "application/json" {
		t.Errorf("expected JSON content type, got %q", gotType)
	}
}

func TestClient_Invoke_StatusError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason string
	}{
		{"reason field", http.StatusBadRequest, `{"reason": "insufficient liquidity"}`, "insufficient liquidity"},
		{"object reason", http.StatusBadRequest, `{"reason": {"code": 7}}`, `{"code": 7}`},
		{"no reason field", http.StatusUnprocessableEntity, `{"name":"INPUT_INVALID","message":"bad"}`, `{"name":"INPUT_INVALID","message":"bad"}`},
		{"plain text", http.StatusBadGateway, "upstream down\n", "upstream down"},
		{"empty body", http.StatusServiceUnavailable, "", "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := newTestClient(t, server.URL, Config{})
			_, err := c.Invoke(context.Background(), &Call{Name: "quote", Method: http.MethodGet, Path: "swap/permit2/quote"}, nil)

			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("expected StatusError, got %T: %v", err, err)
			}
			if se.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, se.StatusCode)
			}
			if se.Reason() != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, se.Reason())
			}
			if IsTransport(err) {
				t.Error("status errors must not be classified as transport errors")
			}
		})
	}
}

func TestClient_Invoke_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, Config{MaxAttempts: 3})
	_, err := c.Invoke(context.Background(), &Call{Name: "price", Method: http.MethodGet, Path: "swap/permit2/price"}, nil)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	if pe.RawResponse != "<html>ok</html>" {
		t.Errorf("unexpected raw response %q", pe.RawResponse)
	}
	if !IsTransport(err) || ErrorKind(err) != KindParse {
		t.Errorf("expected parse error to be a transport-class error, kind=%q", ErrorKind(err))
	}
}

func TestClient_Invoke_SingleAttemptByDefault(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"reason":"boom"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, Config{MaxAttempts: 3})
	_, err := c.Invoke(context.Background(), &Call{Name: "price", Method: http.MethodGet, Path: "swap/permit2/price"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	// Status errors are never re-attempted, even with attempts configured.
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("expected exactly 1 upstream call, got %d", got)
	}
}

func TestClient_Invoke_RetriesTransportErrorsForGET(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			// Drop the connection without a response.
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Error("response writer does not support hijacking")
				return
			}
			conn, _, _ := hj.Hijack()
			_ = conn.Close()
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, Config{MaxAttempts: 2})
	res, err := c.Invoke(context.Background(), &Call{Name: "price", Method: http.MethodGet, Path: "swap/permit2/price"}, nil)
	if err != nil {
		t.Fatalf("expected success on second attempt, got %v", err)
	}
	if res.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", res.Attempts)
	}
}

func TestClient_Invoke_NoRetryForPOST(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Error("response writer does not support hijacking")
			return
		}
		conn, _, _ := hj.Hijack()
		_ = conn.Close()
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, Config{MaxAttempts: 3})
	_, err := c.Invoke(context.Background(), &Call{Name: "submit", Method: http.MethodPost, Path: "gasless/submit", Body: []byte(`{}`)}, nil)

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("expected exactly 1 call for POST, got %d", got)
	}
}

func TestClient_Invoke_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := newTestClient(t, server.URL, Config{Timeout: 50 * time.Millisecond})
	_, err := c.Invoke(context.Background(), &Call{Name: "quote", Method: http.MethodGet, Path: "swap/permit2/quote"}, nil)

	var to *TimeoutError
	if !errors.As(err, &to) {
		t.Fatalf("expected TimeoutError, got %T: %v", err, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded cause, got %v", to.Cause)
	}
}

func TestClient_Invoke_CallerCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.Invoke(ctx, &Call{Name: "quote", Method: http.MethodGet, Path: "swap/permit2/quote"}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation to propagate, got %v", err)
	}
	if !c.IsHealthy() {
		t.Error("caller cancellation must not affect upstream health")
	}
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "api.0x.org", "://bad"} {
		if _, err := NewClient(Config{BaseURL: raw}); err == nil {
			t.Errorf("expected error for base URL %q", raw)
		}
	}
}

func TestRetryBudget(t *testing.T) {
	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{attempts: 0, want: time.Second},
		{attempts: 1, want: time.Second},
		{attempts: 2, want: 2*time.Second + 150*time.Millisecond},
		{attempts: 3, want: 3*time.Second + 150*time.Millisecond + 225*time.Millisecond},
	}
	for _, tt := range tests {
		if got := RetryBudget(time.Second, tt.attempts); got != tt.want {
			t.Errorf("RetryBudget(1s, %d) = %s, want %s", tt.attempts, got, tt.want)
		}
	}
}
