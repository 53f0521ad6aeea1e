package handlers

import (
	"context"
	"net/url"

	"github.com/Rollinad/rollin-staking-dapp-sub001/pkg/gateway"
)

// GatewayService is the part of *gateway.Gateway the handlers use.
type GatewayService interface {
	HandleSwap(ctx context.Context, body []byte) *gateway.Response
	HandleSubmit(ctx context.Context, body []byte) *gateway.Response
	HandleAnalytics(ctx context.Context, query url.Values) *gateway.Response
}
