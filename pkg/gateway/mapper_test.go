package gateway

import (
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"testing"
)

func TestMapper_Map_SwapFields(t *testing.T) {
	m, err := NewMapper(testRecipient)
	if err != nil {
		t.Fatalf("NewMapper() error = %v", err)
	}

	tests := []struct {
		name     string
		op       Operation
		wantPath string
		want     url.Values
	}{
		{
			name:     "legacy price",
			op:       OperationPriceLegacy,
			wantPath: PathPrice,
			want: url.Values{
				"sellToken":    {testSellToken},
				"buyToken":     {testBuyToken},
				"sellAmount":   {"1000000000000000000"},
				"takerAddress": {testTaker},
			},
		},
		{
			name:     "chain-aware price",
			op:       OperationPrice,
			wantPath: PathPrice,
			want: url.Values{
				"chainId":               {"10143"},
				"sellToken":             {testSellToken},
				"buyToken":              {testBuyToken},
				"sellAmount":            {"1000000000000000000"},
				"takerAddress":          {testTaker},
				"tradeSurplusRecipient": {testRecipient},
			},
		},
		{
			name:     "quote renames taker",
			op:       OperationQuote,
			wantPath: PathQuote,
			want: url.Values{
				"chainId":               {"10143"},
				"sellToken":             {testSellToken},
				"buyToken":              {testBuyToken},
				"sellAmount":            {"1000000000000000000"},
				"taker":                 {testTaker},
				"tradeSurplusRecipient": {testRecipient},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := m.Map(&Request{Operation: tt.op, Swap: validSwap("quote")})
			if err != nil {
				t.Fatalf("Map() error = %v", err)
			}
			if call.Method != http.MethodGet {
				t.Errorf("Method = %s, want GET", call.Method)
			}
			if call.Path != tt.wantPath {
				t.Errorf("Path = %s, want %s", call.Path, tt.wantPath)
			}
			if call.Body != nil {
				t.Errorf("Body = %s, want nil", call.Body)
			}
			if !reflect.DeepEqual(call.Query, tt.want) {
				t.Errorf("Query = %v, want %v", call.Query, tt.want)
			}
			if call.Name != tt.op.String() {
				t.Errorf("Name = %s, want %s", call.Name, tt.op)
			}
		})
	}
}

func TestMapper_Map_Submit(t *testing.T) {
	m, _ := NewMapper(testRecipient)
	body := `{"trade":{"type":"settler_metatransaction","eip712":{"primaryType":"SlippageAndActions"}},"chainId":8453}`

	sub, err := DecodeSubmitRequest([]byte("\n" + body + "\n"))
	if err != nil {
		t.Fatalf("DecodeSubmitRequest() error = %v", err)
	}
	call, err := m.Map(&Request{Operation: OperationSubmit, Submit: sub})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if call.Method != http.MethodPost || call.Path != PathSubmit {
		t.Errorf("call = %s %s, want POST %s", call.Method, call.Path, PathSubmit)
	}
	if string(call.Body) != body {
		t.Errorf("Body = %s, want %s", call.Body, body)
	}
	if len(call.Query) != 0 {
		t.Errorf("Query = %v, want empty", call.Query)
	}
}

func TestMapper_Map_Analytics(t *testing.T) {
	m, _ := NewMapper(testRecipient)

	tests := []struct {
		name string
		in   url.Values
		want url.Values
	}{
		{name: "no params", in: url.Values{}, want: url.Values{}},
		{
			name: "cursor only",
			in:   url.Values{"cursor": {"abc"}},
			want: url.Values{"cursor": {"abc"}},
		},
		{
			name: "all params, unknown dropped",
			in: url.Values{
				"cursor":         {"abc"},
				"startTimestamp": {"1700000000"},
				"endTimestamp":   {"1700086400"},
				"taker":          {testTaker},
			},
			want: url.Values{
				"cursor":         {"abc"},
				"startTimestamp": {"1700000000"},
				"endTimestamp":   {"1700086400"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := m.Map(&Request{Operation: OperationAnalytics, Analytics: AnalyticsQueryFromValues(tt.in)})
			if err != nil {
				t.Fatalf("Map() error = %v", err)
			}
			if call.Method != http.MethodGet || call.Path != PathAnalytics {
				t.Errorf("call = %s %s", call.Method, call.Path)
			}
			if !reflect.DeepEqual(call.Query, tt.want) {
				t.Errorf("Query = %v, want %v", call.Query, tt.want)
			}
		})
	}
}

func TestMapper_Map_MismatchedPayload(t *testing.T) {
	m, _ := NewMapper(testRecipient)
	if _, err := m.Map(&Request{Operation: OperationQuote}); err == nil {
		t.Error("Map() accepted a quote without a swap payload")
	}
	if _, err := m.Map(&Request{Operation: OperationUnknown}); err == nil {
		t.Error("Map() accepted an unknown operation")
	}
}

func TestNewMapper_InvalidRecipient(t *testing.T) {
	for _, addr := range []string{"", "0x123", "not-an-address"} {
		_, err := NewMapper(addr)
		var ce *ConfigurationError
		if !errors.As(err, &ce) {
			t.Errorf("NewMapper(%q) error = %v, want *ConfigurationError", addr, err)
		}
	}
}
