// Package server assembles the gateway's HTTP server.
//
// Routes, relative to proxy.base_path (default "/gateway"):
//
//	POST {base}                           price and quote
//	POST {base}/gasless/submit            gasless trade submission
//	GET  {base}/trade-analytics/gasless   gasless trade analytics
//	GET  /health, /ready, /version        probes
//	GET  /metrics                         Prometheus
//
// Every response, errors included, carries the CORS headers, and OPTIONS on
// any route is answered with 200 and an empty body.
//
// Start blocks until its context is cancelled and then drains in-flight
// requests for up to proxy.shutdown_timeout.
package server
