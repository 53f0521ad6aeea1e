package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/upstream"
)

func TestFailure(t *testing.T) {
	statusErr := func(code int, body string) error {
		return &upstream.StatusError{Call: "x", StatusCode: code, Body: []byte(body)}
	}

	tests := []struct {
		name       string
		op         Operation
		err        error
		wantStatus int
		wantError  string
		wantReason string
	}{
		{
			name:       "validation",
			op:         OperationQuote,
			err:        &ValidationError{Errors: []FieldError{{Field: "sellToken", Message: msgRequired}}},
			wantStatus: http.StatusBadRequest,
			wantError:  msgInvalidRequest,
			wantReason: "missing required fields: sellToken",
		},
		{
			name:       "price upstream 400",
			op:         OperationPrice,
			err:        statusErr(400, `{"reason":"insufficient liquidity"}`),
			wantStatus: http.StatusBadRequest,
			wantError:  "Failed to fetch price",
			wantReason: "insufficient liquidity",
		},
		{
			name:       "quote upstream 503 still 400",
			op:         OperationQuote,
			err:        statusErr(503, "Service Unavailable"),
			wantStatus: http.StatusBadRequest,
			wantError:  "Failed to fetch quote",
			wantReason: "Service Unavailable",
		},
		{
			name:       "submit passes status through",
			op:         OperationSubmit,
			err:        statusErr(422, `{"reason":"INPUT_INVALID"}`),
			wantStatus: 422,
			wantError:  "Failed to submit gasless trade",
			wantReason: "INPUT_INVALID",
		},
		{
			name:       "submit odd status",
			op:         OperationSubmit,
			err:        statusErr(302, ""),
			wantStatus: http.StatusBadGateway,
			wantError:  "Failed to submit gasless trade",
			wantReason: "Found",
		},
		{
			name:       "analytics upstream 401",
			op:         OperationAnalytics,
			err:        statusErr(401, `{"reason":"invalid api key"}`),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to fetch trade analytics",
			wantReason: "invalid api key",
		},
		{
			name:       "transport",
			op:         OperationQuote,
			err:        &upstream.TransportError{Call: "quote", Cause: errors.New("dial tcp 10.0.0.1:443: connection refused")},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to fetch quote",
			wantReason: reasonUnreachable,
		},
		{
			name:       "timeout",
			op:         OperationPrice,
			err:        &upstream.TimeoutError{Call: "price", Cause: context.DeadlineExceeded},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to fetch price",
			wantReason: reasonTimeout,
		},
		{
			name:       "cancelled",
			op:         OperationPrice,
			err:        &upstream.TimeoutError{Call: "price", Cause: context.Canceled},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to fetch price",
			wantReason: reasonCancelled,
		},
		{
			name:       "parse",
			op:         OperationAnalytics,
			err:        &upstream.ParseError{Call: "analytics", StatusCode: 200, RawResponse: "<html>"},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to fetch trade analytics",
			wantReason: reasonBadResponse,
		},
		{
			name:       "configuration",
			op:         OperationQuote,
			err:        &ConfigurationError{Field: "upstream.api_key", Message: "missing"},
			wantStatus: http.StatusInternalServerError,
			wantError:  msgMisconfigured,
		},
		{
			name:       "wrapped unknown",
			op:         OperationSubmit,
			err:        fmt.Errorf("boom: %w", errors.New("secret internals")),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to submit gasless trade",
			wantReason: reasonInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Failure(tt.op, tt.err)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			eb := decodeError(t, resp.Body)
			if eb.Error != tt.wantError {
				t.Errorf("error = %q, want %q", eb.Error, tt.wantError)
			}
			if eb.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", eb.Reason, tt.wantReason)
			}
			if strings.Contains(string(resp.Body), "10.0.0.1") || strings.Contains(string(resp.Body), "secret internals") {
				t.Errorf("body leaks internals: %s", resp.Body)
			}
		})
	}
}

func TestSuccess_Verbatim(t *testing.T) {
	body := []byte(`{"price": "1234",  "gas":null}`)
	resp := Success(&upstream.Result{StatusCode: http.StatusCreated, Body: body})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != string(body) {
		t.Errorf("Body = %s, want %s", resp.Body, body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	resp := MethodNotAllowed()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"error":"Method not allowed"}` {
		t.Errorf("Body = %s", resp.Body)
	}
}
