// Package handlers provides the HTTP handlers for the gateway routes.
//
//	POST /gateway                          price and quote
//	POST /gateway/gasless/submit           gasless trade submission
//	GET  /gateway/trade-analytics/gasless  gasless trade analytics
//
// Each handler checks the method, reads the body under the configured size
// limit and hands the payload to the gateway. Any other method is answered
// with 405 and {"error":"Method not allowed"} without touching the gateway.
// The gateway's response is written as is.
package handlers
