package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy/middleware"
)

// GatewayHandler serves the three gateway routes. OPTIONS never reaches it;
// CORS middleware answers preflights first.
type GatewayHandler struct {
	gateway      GatewayService
	maxBodyBytes int64
}

// NewGatewayHandler creates a handler that reads at most maxBodyBytes of
// each request body.
func NewGatewayHandler(gw GatewayService, maxBodyBytes int64) *GatewayHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = proxy.DefaultMaxRequestBodySize
	}
	return &GatewayHandler{gateway: gw, maxBodyBytes: maxBodyBytes}
}

// Swap handles POST /gateway: price and quote requests.
func (h *GatewayHandler) Swap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, r, http.MethodPost)
		return
	}
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	proxy.WriteGatewayResponse(w, r, h.gateway.HandleSwap(r.Context(), body))
}

// Submit handles POST /gateway/gasless/submit.
func (h *GatewayHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, r, http.MethodPost)
		return
	}
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	proxy.WriteGatewayResponse(w, r, h.gateway.HandleSubmit(r.Context(), body))
}

// Analytics handles GET /gateway/trade-analytics/gasless.
func (h *GatewayHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, r, http.MethodGet)
		return
	}
	proxy.WriteGatewayResponse(w, r, h.gateway.HandleAnalytics(r.Context(), r.URL.Query()))
}

func (h *GatewayHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := proxy.ReadBody(r, h.maxBodyBytes)
	if err != nil {
		slog.WarnContext(r.Context(), "failed to read request body",
			"request_id", middleware.GetRequestID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		_ = proxy.WriteError(w, err)
		return nil, false
	}
	return body, true
}

func (h *GatewayHandler) methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	slog.DebugContext(r.Context(), "method not allowed",
		"request_id", middleware.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
	_ = proxy.WriteMethodNotAllowed(w, allowed, http.MethodOptions)
}
