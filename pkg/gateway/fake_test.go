package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/upstream"
)

const (
	testAPIKey    = "test-api-key"
	testRecipient = "0x7D2A5B8E3c6F1a9C4b0E2d8F5a3B6c9D1e4F7a2B"
	testSellToken = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"
	testBuyToken  = "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238"
	testTaker     = "0xabc0000000000000000000000000000000000abc"
)

// fakeInvoker records calls and answers with a canned result or error.
type fakeInvoker struct {
	mu      sync.Mutex
	calls   []*upstream.Call
	headers []http.Header
	result  *upstream.Result
	err     error
	panic   any
}

func newFakeInvoker(body string) *fakeInvoker {
	return &fakeInvoker{
		result: &upstream.Result{StatusCode: http.StatusOK, Body: json.RawMessage(body), Attempts: 1},
	}
}

func (f *fakeInvoker) Invoke(_ context.Context, call *upstream.Call, headers http.Header) (*upstream.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	f.headers = append(f.headers, headers)
	if f.panic != nil {
		panic(f.panic)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeInvoker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeInvoker) last() (*upstream.Call, http.Header) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil, nil
	}
	return f.calls[len(f.calls)-1], f.headers[len(f.headers)-1]
}

type recordedRequest struct {
	operation string
	status    int
}

type fakeRecorder struct {
	mu          sync.Mutex
	requests    []recordedRequest
	validations []string
}

func (r *fakeRecorder) RecordGatewayRequest(operation string, statusCode int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, recordedRequest{operation: operation, status: statusCode})
}

func (r *fakeRecorder) RecordValidationFailure(operation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validations = append(r.validations, operation)
}

func testConfig() Config {
	return Config{
		Headers: HeaderConfig{
			APIKey:           testAPIKey,
			APIKeyHeader:     "0x-api-key",
			APIVersion:       "v2",
			APIVersionHeader: "0x-version",
		},
		SurplusRecipient: testRecipient,
		AllowLegacyPrice: true,
	}
}

func newTestGateway(t testing.TB, inv Invoker, opts ...Option) *Gateway {
	t.Helper()
	g, err := New(testConfig(), inv, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func swapBody(typ, chainID string) []byte {
	m := map[string]any{
		"type":         typ,
		"sellToken":    testSellToken,
		"buyToken":     testBuyToken,
		"sellAmount":   "1000000000000000000",
		"takerAddress": testTaker,
	}
	if chainID != "" {
		m["chainId"] = chainID
	}
	b, _ := json.Marshal(m)
	return b
}

func decodeError(t testing.TB, body []byte) ErrorBody {
	t.Helper()
	var eb ErrorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		t.Fatalf("error body is not JSON: %v (%s)", err, body)
	}
	return eb
}
