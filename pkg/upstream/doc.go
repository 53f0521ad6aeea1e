// Package upstream invokes the swap-aggregation API.
//
// A Client performs one outbound HTTP call per Invoke. The call is bound to
// the caller's context, so an inbound disconnect cancels it, and to the
// configured per-call timeout. Responses are classified as:
//
//   - 2xx with a JSON body: returned as a Result, body untouched
//   - 2xx with anything else: *ParseError
//   - any other status: *StatusError carrying the upstream reason
//   - network failure: *TransportError, or *TimeoutError on deadline/cancel
//
// MaxAttempts above one re-attempts GET calls that failed at the transport
// level. POST calls are never re-attempted.
//
// Basic usage:
//
//	client, err := upstream.NewClient(upstream.Config{
//	    BaseURL: "https://api.0x.org",
//	    Timeout: 30 * time.Second,
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	res, err := client.Invoke(ctx, &upstream.Call{
//	    Name:   "price",
//	    Method: http.MethodGet,
//	    Path:   "swap/permit2/price",
//	    Query:  query,
//	}, headers)
package upstream
