package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/config"
)

func boolPtr(b bool) *bool { return &b }

func newTestCollector(t *testing.T, enabled bool) *Collector {
	t.Helper()
	return NewCollector(&config.MetricsConfig{
		Enabled:   boolPtr(enabled),
		Namespace: "swapgate",
		Subsystem: "gateway",
	}, prometheus.NewRegistry())
}

func TestCollector_RecordGatewayRequest(t *testing.T) {
	c := newTestCollector(t, true)

	c.RecordGatewayRequest("quote", 200, 150*time.Millisecond)
	c.RecordGatewayRequest("quote", 200, 50*time.Millisecond)
	c.RecordGatewayRequest("quote", 400, 10*time.Millisecond)

	ok := testutil.ToFloat64(c.requestMetrics.requestsTotal.WithLabelValues("quote", "200"))
	if ok != 2 {
		t.Errorf("requests_total{quote,200} = %v, want 2", ok)
	}
	bad := testutil.ToFloat64(c.requestMetrics.requestsTotal.WithLabelValues("quote", "400"))
	if bad != 1 {
		t.Errorf("requests_total{quote,400} = %v, want 1", bad)
	}

	if n := testutil.CollectAndCount(c.requestMetrics.requestDuration); n != 1 {
		t.Errorf("request_duration_seconds series = %d, want 1", n)
	}
}

func TestCollector_RecordValidationFailure(t *testing.T) {
	c := newTestCollector(t, true)

	c.RecordValidationFailure("price")
	c.RecordValidationFailure("price")
	c.RecordValidationFailure("submit")

	if got := testutil.ToFloat64(c.requestMetrics.validationFailures.WithLabelValues("price")); got != 2 {
		t.Errorf("validation_failures_total{price} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.requestMetrics.validationFailures.WithLabelValues("submit")); got != 1 {
		t.Errorf("validation_failures_total{submit} = %v, want 1", got)
	}
}

func TestCollector_ObserveUpstreamCall(t *testing.T) {
	c := newTestCollector(t, true)

	c.ObserveUpstreamCall("quote", 200, 20*time.Millisecond, "")
	c.ObserveUpstreamCall("quote", 503, 20*time.Millisecond, "status")
	c.ObserveUpstreamCall("quote", 0, time.Second, "timeout")

	tests := []struct {
		class string
		want  float64
	}{
		{"2xx", 1},
		{"5xx", 1},
		{"none", 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(c.upstreamMetrics.requests.WithLabelValues("quote", tt.class))
		if got != tt.want {
			t.Errorf("upstream_requests_total{quote,%s} = %v, want %v", tt.class, got, tt.want)
		}
	}

	if got := testutil.ToFloat64(c.upstreamMetrics.errors.WithLabelValues("quote", "timeout")); got != 1 {
		t.Errorf("upstream_errors_total{quote,timeout} = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(c.upstreamMetrics.errors); n != 2 {
		t.Errorf("upstream_errors_total series = %d, want 2 (success must not count)", n)
	}
}

func TestCollector_UpdateUpstreamHealth(t *testing.T) {
	c := newTestCollector(t, true)

	if got := testutil.ToFloat64(c.upstreamMetrics.health); got != 1 {
		t.Fatalf("initial upstream_health = %v, want 1", got)
	}
	c.UpdateUpstreamHealth(false)
	if got := testutil.ToFloat64(c.upstreamMetrics.health); got != 0 {
		t.Errorf("upstream_health = %v, want 0", got)
	}
	c.UpdateUpstreamHealth(true)
	if got := testutil.ToFloat64(c.upstreamMetrics.health); got != 1 {
		t.Errorf("upstream_health = %v, want 1", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	c := newTestCollector(t, false)

	c.RecordGatewayRequest("price", 200, time.Millisecond)
	c.RecordValidationFailure("price")
	c.RecordAuthFailure("missing_key")
	c.ObserveUpstreamCall("price", 500, time.Millisecond, "status")

	if n := testutil.CollectAndCount(c.requestMetrics.requestsTotal); n != 0 {
		t.Errorf("disabled collector recorded %d request series", n)
	}
	if n := testutil.CollectAndCount(c.upstreamMetrics.errors); n != 0 {
		t.Errorf("disabled collector recorded %d error series", n)
	}
}

func TestCollector_DefaultsApplied(t *testing.T) {
	c := NewCollector(&config.MetricsConfig{}, nil)
	if c.Registry() == nil {
		t.Fatal("expected a registry to be created")
	}

	c.RecordGatewayRequest("analytics", 500, time.Millisecond)

	expected := `
# HELP swapgate_gateway_requests_total Total number of gateway requests by operation and response status
# TYPE swapgate_gateway_requests_total counter
swapgate_gateway_requests_total{operation="analytics",status="500"} 1
`
	if err := testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "swapgate_gateway_requests_total"); err != nil {
		t.Error(err)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := newTestCollector(t, true)
	c.RegisterRuntimeCollectors()
	c.RecordAuthFailure("invalid_key")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`swapgate_gateway_auth_failures_total{reason="invalid_key"} 1`,
		"swapgate_gateway_upstream_health 1",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{
		0:   "none",
		200: "2xx",
		204: "2xx",
		404: "4xx",
		502: "5xx",
		999: "none",
	}
	for code, want := range tests {
		if got := statusClass(code); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", code, got, want)
		}
	}
}
