package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/gateway"
)

type fakeGateway struct {
	calls    []string
	lastBody string
	lastQ    url.Values
	resp     *gateway.Response
}

func (f *fakeGateway) respond() *gateway.Response {
	if f.resp != nil {
		return f.resp
	}
	return &gateway.Response{StatusCode: http.StatusOK, Body: []byte(`{"price": "1234"}`)}
}

func (f *fakeGateway) HandleSwap(_ context.Context, body []byte) *gateway.Response {
	f.calls = append(f.calls, "swap")
	f.lastBody = string(body)
	return f.respond()
}

func (f *fakeGateway) HandleSubmit(_ context.Context, body []byte) *gateway.Response {
	f.calls = append(f.calls, "submit")
	f.lastBody = string(body)
	return f.respond()
}

func (f *fakeGateway) HandleAnalytics(_ context.Context, q url.Values) *gateway.Response {
	f.calls = append(f.calls, "analytics")
	f.lastQ = q
	return f.respond()
}

func TestGatewayHandler_MethodNotAllowed(t *testing.T) {
	tests := []struct {
		name   string
		method string
		route  func(*GatewayHandler) http.HandlerFunc
	}{
		{name: "GET on swap", method: http.MethodGet, route: func(h *GatewayHandler) http.HandlerFunc { return h.Swap }},
		{name: "PUT on swap", method: http.MethodPut, route: func(h *GatewayHandler) http.HandlerFunc { return h.Swap }},
		{name: "GET on submit", method: http.MethodGet, route: func(h *GatewayHandler) http.HandlerFunc { return h.Submit }},
		{name: "POST on analytics", method: http.MethodPost, route: func(h *GatewayHandler) http.HandlerFunc { return h.Analytics }},
		{name: "DELETE on analytics", method: http.MethodDelete, route: func(h *GatewayHandler) http.HandlerFunc { return h.Analytics }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{}
			h := NewGatewayHandler(gw, 0)

			w := httptest.NewRecorder()
			tt.route(h)(w, httptest.NewRequest(tt.method, "/gateway", strings.NewReader(`{}`)))

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want 405", w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if body["error"] != "Method not allowed" {
				t.Errorf("error = %q", body["error"])
			}
			if len(gw.calls) != 0 {
				t.Errorf("gateway called: %v", gw.calls)
			}
		})
	}
}

func TestGatewayHandler_Relays(t *testing.T) {
	gw := &fakeGateway{}
	h := NewGatewayHandler(gw, 0)

	w := httptest.NewRecorder()
	h.Swap(w, httptest.NewRequest(http.MethodPost, "/gateway", strings.NewReader(`{"type":"price"}`)))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if w.Body.String() != `{"price": "1234"}` {
		t.Errorf("body = %q, want the gateway body unchanged", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if gw.lastBody != `{"type":"price"}` {
		t.Errorf("gateway got %q", gw.lastBody)
	}
}

func TestGatewayHandler_ErrorStatus(t *testing.T) {
	gw := &fakeGateway{resp: &gateway.Response{StatusCode: 422, Body: []byte(`{"error":"Failed to submit gasless trade","reason":"bad sig"}`)}}
	h := NewGatewayHandler(gw, 0)

	w := httptest.NewRecorder()
	h.Submit(w, httptest.NewRequest(http.MethodPost, "/gateway/gasless/submit", strings.NewReader(`{}`)))

	if w.Code != 422 {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestGatewayHandler_AnalyticsQuery(t *testing.T) {
	gw := &fakeGateway{}
	h := NewGatewayHandler(gw, 0)

	w := httptest.NewRecorder()
	h.Analytics(w, httptest.NewRequest(http.MethodGet, "/gateway/trade-analytics/gasless?cursor=abc&startTimestamp=1", nil))

	if gw.lastQ.Get("cursor") != "abc" || gw.lastQ.Get("startTimestamp") != "1" {
		t.Errorf("query = %v", gw.lastQ)
	}
}

func TestGatewayHandler_BodyTooLarge(t *testing.T) {
	gw := &fakeGateway{}
	h := NewGatewayHandler(gw, 16)

	w := httptest.NewRecorder()
	h.Swap(w, httptest.NewRequest(http.MethodPost, "/gateway", strings.NewReader(strings.Repeat("x", 17))))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
	if len(gw.calls) != 0 {
		t.Errorf("gateway called: %v", gw.calls)
	}
}
