// Package proxy holds the HTTP plumbing shared by handlers and middleware:
// body reading with size limits, JSON response writers and the errors the
// HTTP layer answers on its own.
//
// The gateway's own responses are written with WriteGatewayResponse, which
// relays the body without re-encoding it. Errors raised here use the same
// {"error", "reason"} shape as gateway failures, so callers see one error
// format regardless of which layer answered.
//
// Subpackages:
//
//   - handlers: route handlers for the gateway endpoints
//   - middleware: request ID, logging, CORS, recovery, timeout, body limits
//   - types: the error body
package proxy
