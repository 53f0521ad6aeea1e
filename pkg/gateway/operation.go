package gateway

import "net/http"

// Operation identifies one of the upstream calls the gateway can make.
type Operation int

const (
	OperationUnknown Operation = iota
	OperationPrice
	OperationPriceLegacy
	OperationQuote
	OperationSubmit
	OperationAnalytics
)

// Inbound values of the "type" field on POST /gateway.
const (
	TypePrice       = "price"
	TypePriceLegacy = "price_legacy"
	TypeQuote       = "quote"
)

// String returns the operation's label as used in logs and metrics.
func (o Operation) String() string {
	switch o {
	case OperationPrice:
		return "price"
	case OperationPriceLegacy:
		return "price_legacy"
	case OperationQuote:
		return "quote"
	case OperationSubmit:
		return "submit"
	case OperationAnalytics:
		return "analytics"
	default:
		return "unknown"
	}
}

// failureMessage is the caller-facing "error" text for a failed operation.
func (o Operation) failureMessage() string {
	switch o {
	case OperationPrice, OperationPriceLegacy:
		return "Failed to fetch price"
	case OperationQuote:
		return "Failed to fetch quote"
	case OperationSubmit:
		return "Failed to submit gasless trade"
	case OperationAnalytics:
		return "Failed to fetch trade analytics"
	default:
		return "Request failed"
	}
}

// upstreamFailureStatus maps an upstream error status to the status returned
// to the caller. Price and quote report every upstream failure as 400,
// analytics as 500, and submit passes the upstream status through.
func (o Operation) upstreamFailureStatus(upstreamStatus int) int {
	switch o {
	case OperationPrice, OperationPriceLegacy, OperationQuote:
		return http.StatusBadRequest
	case OperationSubmit:
		if upstreamStatus >= 400 && upstreamStatus <= 599 {
			return upstreamStatus
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
