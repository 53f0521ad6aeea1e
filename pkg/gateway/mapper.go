package gateway

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/upstream"
)

// Upstream paths, relative to the configured base URL.
const (
	PathPrice     = "swap/permit2/price"
	PathQuote     = "swap/permit2/quote"
	PathSubmit    = "gasless/submit"
	PathAnalytics = "trade-analytics/gasless"
)

// route describes how one operation is expressed upstream.
type route struct {
	method string
	path   string
	query  func(m *Mapper, req *Request) url.Values
	body   func(req *Request) ([]byte, error)
}

// routes is the single place where the upstream's per-endpoint naming lives:
// price sends takerAddress while quote sends taker, and only the
// chain-aware calls carry chainId and tradeSurplusRecipient.
var routes = map[Operation]route{
	OperationPriceLegacy: {
		method: http.MethodGet,
		path:   PathPrice,
		query: func(_ *Mapper, req *Request) url.Values {
			s := req.Swap
			q := url.Values{}
			q.Set("sellToken", s.SellToken)
			q.Set("buyToken", s.BuyToken)
			q.Set("sellAmount", s.SellAmount.String())
			q.Set("takerAddress", s.TakerAddress)
			return q
		},
	},
	OperationPrice: {
		method: http.MethodGet,
		path:   PathPrice,
		query: func(m *Mapper, req *Request) url.Values {
			s := req.Swap
			q := url.Values{}
			q.Set("chainId", s.ChainID.String())
			q.Set("sellToken", s.SellToken)
			q.Set("buyToken", s.BuyToken)
			q.Set("sellAmount", s.SellAmount.String())
			q.Set("takerAddress", s.TakerAddress)
			q.Set("tradeSurplusRecipient", m.surplusRecipient)
			return q
		},
	},
	OperationQuote: {
		method: http.MethodGet,
		path:   PathQuote,
		query: func(m *Mapper, req *Request) url.Values {
			s := req.Swap
			q := url.Values{}
			q.Set("chainId", s.ChainID.String())
			q.Set("sellToken", s.SellToken)
			q.Set("buyToken", s.BuyToken)
			q.Set("sellAmount", s.SellAmount.String())
			q.Set("taker", s.TakerAddress)
			q.Set("tradeSurplusRecipient", m.surplusRecipient)
			return q
		},
	},
	OperationSubmit: {
		method: http.MethodPost,
		path:   PathSubmit,
		body: func(req *Request) ([]byte, error) {
			return req.Submit.Payload()
		},
	},
	OperationAnalytics: {
		method: http.MethodGet,
		path:   PathAnalytics,
		query: func(_ *Mapper, req *Request) url.Values {
			a := req.Analytics
			q := url.Values{}
			for key, val := range map[string]string{
				"cursor":         a.Cursor,
				"startTimestamp": a.StartTimestamp,
				"endTimestamp":   a.EndTimestamp,
			} {
				if val != "" {
					q.Set(key, val)
				}
			}
			return q
		},
	},
}

// Mapper translates validated requests into upstream calls.
type Mapper struct {
	surplusRecipient string
}

// NewMapper creates a Mapper that injects surplusRecipient into chain-aware
// price and quote calls.
func NewMapper(surplusRecipient string) (*Mapper, error) {
	if !common.IsHexAddress(surplusRecipient) {
		return nil, &ConfigurationError{
			Field:   "upstream.surplus_recipient",
			Message: fmt.Sprintf("invalid address %q", surplusRecipient),
		}
	}
	return &Mapper{surplusRecipient: surplusRecipient}, nil
}

// Map returns the upstream call for req.
func (m *Mapper) Map(req *Request) (*upstream.Call, error) {
	r, ok := routes[req.Operation]
	if !ok {
		return nil, fmt.Errorf("no upstream route for operation %s", req.Operation)
	}
	if err := req.check(); err != nil {
		return nil, err
	}

	call := &upstream.Call{
		Name:   req.Operation.String(),
		Method: r.method,
		Path:   r.path,
	}
	if r.query != nil {
		call.Query = r.query(m, req)
	}
	if r.body != nil {
		body, err := r.body(req)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s body: %w", req.Operation, err)
		}
		call.Body = body
	}
	return call, nil
}

// check guards against a Request whose payload does not match its operation.
func (r *Request) check() error {
	var ok bool
	switch r.Operation {
	case OperationPrice, OperationPriceLegacy, OperationQuote:
		ok = r.Swap != nil
	case OperationSubmit:
		ok = r.Submit != nil
	case OperationAnalytics:
		ok = r.Analytics != nil
	}
	if !ok {
		return fmt.Errorf("request payload does not match operation %s", r.Operation)
	}
	return nil
}
