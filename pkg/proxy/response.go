package proxy

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/gateway"
	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/proxy/types"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer.
// It sets the appropriate content-type header and handles marshaling errors.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// WriteRawJSON writes body, which must already be JSON, without re-encoding
// it. Upstream bodies are relayed this way so they stay byte for byte.
func WriteRawJSON(w http.ResponseWriter, statusCode int, body []byte) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// WriteGatewayResponse writes a gateway result.
func WriteGatewayResponse(w http.ResponseWriter, r *http.Request, resp *gateway.Response) {
	if err := WriteRawJSON(w, resp.StatusCode, resp.Body); err != nil {
		slog.DebugContext(r.Context(), "client went away before response was written", "error", err)
	}
}

// WriteErrorResponse writes an error body with the given status.
func WriteErrorResponse(w http.ResponseWriter, statusCode int, errResp *types.ErrorResponse) error {
	return WriteJSONResponse(w, statusCode, errResp)
}

// WriteError writes err using HandleError's mapping.
func WriteError(w http.ResponseWriter, err error) error {
	status, errResp := HandleError(err)
	return WriteErrorResponse(w, status, errResp)
}

// WriteMethodNotAllowed writes 405 {"error":"Method not allowed"} and the
// Allow header.
func WriteMethodNotAllowed(w http.ResponseWriter, allowed ...string) error {
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	return WriteErrorResponse(w, http.StatusMethodNotAllowed, types.NewMethodNotAllowedError())
}
