package gateway

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// FieldError describes one missing or invalid request field.
type FieldError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const msgRequired = "is required"

// ValidationError lists every problem found in an inbound request. It is
// always the caller's fault and is reported before any upstream call.
type ValidationError struct {
	Operation Operation
	Errors    []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid request: " + e.Detail()
}

// Detail summarizes the field errors, missing fields first.
func (e *ValidationError) Detail() string {
	missing := lo.FilterMap(e.Errors, func(fe FieldError, _ int) (string, bool) {
		return fe.Field, fe.Message == msgRequired
	})
	invalid := lo.FilterMap(e.Errors, func(fe FieldError, _ int) (string, bool) {
		return fe.Error(), fe.Message != msgRequired
	})

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, strings.Join(invalid, "; "))
	}
	return strings.Join(parts, "; ")
}

// Fields returns the names of the offending fields in report order.
func (e *ValidationError) Fields() []string {
	return lo.Map(e.Errors, func(fe FieldError, _ int) string { return fe.Field })
}

// Validator turns decoded inbound payloads into validated Requests. It has
// no side effects.
type Validator struct {
	allowLegacyPrice bool
}

// NewValidator creates a Validator. allowLegacyPrice lets "price" requests
// without a chainId use the legacy price call.
func NewValidator(allowLegacyPrice bool) *Validator {
	return &Validator{allowLegacyPrice: allowLegacyPrice}
}

// fieldErrors collects errors in the order fields are checked.
type fieldErrors []FieldError

func (f *fieldErrors) add(field, message string) {
	*f = append(*f, FieldError{Field: field, Message: message})
}

func (f *fieldErrors) address(field, value string) {
	switch {
	case strings.TrimSpace(value) == "":
		f.add(field, msgRequired)
	case !common.IsHexAddress(value):
		f.add(field, "must be a 20-byte hex address")
	}
}

// Swap validates a price or quote request and selects its operation.
func (v *Validator) Swap(req *SwapRequest) (*Request, error) {
	if req == nil {
		return nil, &ValidationError{Errors: []FieldError{{Field: "body", Message: msgRequired}}}
	}

	var errs fieldErrors
	op := OperationUnknown
	chainRequired := false

	switch strings.TrimSpace(req.Type) {
	case TypePrice:
		if req.ChainID != "" || !v.allowLegacyPrice {
			op, chainRequired = OperationPrice, true
		} else {
			op = OperationPriceLegacy
		}
	case TypePriceLegacy:
		op = OperationPriceLegacy
	case TypeQuote:
		op, chainRequired = OperationQuote, true
	case "":
		errs.add("type", msgRequired)
	default:
		errs.add("type", fmt.Sprintf("must be %q or %q", TypePrice, TypeQuote))
	}

	errs.address("sellToken", req.SellToken)
	errs.address("buyToken", req.BuyToken)

	amount := strings.TrimSpace(req.SellAmount.String())
	if amount == "" {
		errs.add("sellAmount", msgRequired)
	} else if canonical, ok := baseUnits(amount); !ok {
		errs.add("sellAmount", "must be a positive integer amount in base units no larger than 2^256-1")
	} else {
		amount = canonical
	}

	errs.address("takerAddress", req.TakerAddress)

	chainID := strings.TrimSpace(req.ChainID.String())
	if chainRequired {
		if chainID == "" {
			errs.add("chainId", msgRequired)
		} else if !validChainID(chainID) {
			errs.add("chainId", "must be a positive integer")
		}
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Operation: op, Errors: errs}
	}

	validated := *req
	validated.SellAmount = NumericString(amount)
	validated.ChainID = NumericString(chainID)
	if op == OperationPriceLegacy {
		validated.ChainID = ""
	}
	return &Request{Operation: op, Swap: &validated}, nil
}

// Submit validates a gasless submit request.
func (v *Validator) Submit(req *SubmitRequest) (*Request, error) {
	if req == nil {
		return nil, &ValidationError{Operation: OperationSubmit, Errors: []FieldError{{Field: "body", Message: msgRequired}}}
	}

	var errs fieldErrors
	switch {
	case isAbsent(req.Trade):
		errs.add("trade", msgRequired)
	case !isObject(req.Trade):
		errs.add("trade", "must be a JSON object")
	}

	chainID := strings.TrimSpace(req.ChainID.String())
	if chainID == "" {
		errs.add("chainId", msgRequired)
	} else if !validChainID(chainID) {
		errs.add("chainId", "must be a positive integer")
	}

	if !isAbsent(req.Approval) && !isObject(req.Approval) {
		errs.add("approval", "must be a JSON object")
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Operation: OperationSubmit, Errors: errs}
	}
	return &Request{Operation: OperationSubmit, Submit: req}, nil
}

// Analytics accepts any analytics query; every parameter is optional and
// passed through unchanged.
func (v *Validator) Analytics(q *AnalyticsQuery) (*Request, error) {
	if q == nil {
		q = &AnalyticsQuery{}
	}
	return &Request{Operation: OperationAnalytics, Analytics: q}, nil
}

const (
	// maxAmountLength bounds the raw sellAmount text.
	maxAmountLength = 128
	// maxAmountExponent is the digit count of the uint256 maximum.
	maxAmountExponent = 78
)

// baseUnits parses a token amount in base units and returns its canonical
// decimal form. Amounts must fit in a uint256; the exponent is bounded
// before the value is expanded.
func baseUnits(s string) (string, bool) {
	if len(s) > maxAmountLength {
		return "", false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", false
	}
	if exp := d.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent {
		return "", false
	}
	if !d.IsInteger() || !d.IsPositive() {
		return "", false
	}
	n := d.BigInt()
	if n.Cmp(math.MaxBig256) > 0 {
		return "", false
	}
	return n.String(), true
}

func validChainID(s string) bool {
	id, err := strconv.ParseUint(s, 10, 64)
	return err == nil && id > 0
}

func isAbsent(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
