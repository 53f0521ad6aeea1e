package gateway

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/spf13/cast"
)

// NumericString holds a value that callers may send either as a JSON string
// or as a JSON number, such as chainId. Numbers keep their exact digits.
type NumericString string

// UnmarshalJSON implements json.Unmarshaler. Values that are neither strings
// nor numbers are kept as their raw JSON text so validation can report them.
func (n *NumericString) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if num, ok := v.(json.Number); ok {
		*n = NumericString(num.String())
		return nil
	}
	if v == nil {
		*n = ""
		return nil
	}
	switch v.(type) {
	case map[string]any, []any:
		*n = NumericString(string(b))
		return nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		*n = NumericString(string(b))
		return nil
	}
	*n = NumericString(strings.TrimSpace(s))
	return nil
}

// String returns the value as text.
func (n NumericString) String() string {
	return string(n)
}

// SwapRequest is the inbound body of POST /gateway.
type SwapRequest struct {
	Type         string        `json:"type"`
	SellToken    string        `json:"sellToken"`
	BuyToken     string        `json:"buyToken"`
	SellAmount   NumericString `json:"sellAmount"`
	TakerAddress string        `json:"takerAddress"`
	ChainID      NumericString `json:"chainId,omitempty"`
}

// SubmitRequest is the inbound body of POST /gateway/gasless/submit.
//
// Trade and Approval are opaque signed objects produced by the upstream's
// quote and signed by the taker's wallet. The gateway checks that they are
// JSON objects and otherwise passes them through untouched.
type SubmitRequest struct {
	Trade    json.RawMessage `json:"trade"`
	ChainID  NumericString   `json:"chainId"`
	Approval json.RawMessage `json:"approval,omitempty"`

	raw []byte
}

// Payload returns the upstream request body: the inbound JSON byte for byte
// when the request was decoded from a body, otherwise the encoded struct.
func (r *SubmitRequest) Payload() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	return json.Marshal(r)
}

// AnalyticsQuery is the inbound query of GET /gateway/trade-analytics/gasless.
type AnalyticsQuery struct {
	Cursor         string
	StartTimestamp string
	EndTimestamp   string
}

// AnalyticsQueryFromValues reads the supported analytics parameters from q.
func AnalyticsQueryFromValues(q url.Values) *AnalyticsQuery {
	return &AnalyticsQuery{
		Cursor:         q.Get("cursor"),
		StartTimestamp: q.Get("startTimestamp"),
		EndTimestamp:   q.Get("endTimestamp"),
	}
}

// Request is a validated, operation-tagged request. Exactly one of Swap,
// Submit or Analytics is set, matching Operation.
type Request struct {
	Operation Operation
	Swap      *SwapRequest
	Submit    *SubmitRequest
	Analytics *AnalyticsQuery
}

// DecodeSwapRequest parses a POST /gateway body.
func DecodeSwapRequest(body []byte) (*SwapRequest, error) {
	var req SwapRequest
	if err := decodeBody(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// DecodeSubmitRequest parses a POST /gateway/gasless/submit body and keeps
// the original bytes for pass-through.
func DecodeSubmitRequest(body []byte) (*SubmitRequest, error) {
	var req SubmitRequest
	if err := decodeBody(body, &req); err != nil {
		return nil, err
	}
	req.raw = bytes.TrimSpace(body)
	return &req, nil
}

func decodeBody(body []byte, v any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &ValidationError{Errors: []FieldError{{Field: "body", Message: "request body is required"}}}
	}
	if trimmed[0] != '{' {
		return &ValidationError{Errors: []FieldError{{Field: "body", Message: "request body must be a JSON object"}}}
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "body", Message: "invalid JSON: " + err.Error()}}}
	}
	return nil
}
