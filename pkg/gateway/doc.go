// Package gateway translates inbound swap requests into upstream calls and
// relays the results.
//
// Every request goes through the same pipeline:
//
//	decode -> Validator -> Mapper -> Invoker -> relay
//
// Validation always completes before the Invoker is touched, so a rejected
// request never costs an upstream call. The Mapper is the only place that
// knows the upstream's per-endpoint field names (price sends takerAddress,
// quote sends taker) and injects the configured surplus recipient.
//
// # Operations
//
//	Operation        Method  Upstream path
//	PriceLegacy      GET     swap/permit2/price
//	Price            GET     swap/permit2/price
//	Quote            GET     swap/permit2/quote
//	Submit           POST    gasless/submit
//	Analytics        GET     trade-analytics/gasless
//
// # Responses
//
// A successful upstream call is relayed as 200 with the upstream body byte
// for byte. Failures become {"error": ..., "reason": ...}:
//
//   - *ValidationError: 400, reason lists the offending fields
//   - upstream status error: 400 for price and quote, the upstream status
//     for submit, 500 for analytics; reason is the upstream's
//   - transport, timeout or parse errors: 500 with a generic reason
//
// # Usage
//
//	gw, err := gateway.New(gateway.Config{
//	    Headers: gateway.HeaderConfig{
//	        APIKey:           key,
//	        APIKeyHeader:     "0x-api-key",
//	        APIVersion:       "v2",
//	        APIVersionHeader: "0x-version",
//	    },
//	    SurplusRecipient: recipient,
//	    AllowLegacyPrice: true,
//	}, upstreamClient)
//	if err != nil {
//	    return err // *ConfigurationError
//	}
//
//	resp := gw.HandleSwap(ctx, body)
//	w.WriteHeader(resp.StatusCode)
//	w.Write(resp.Body)
package gateway
