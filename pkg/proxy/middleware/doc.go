// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
// The server assembles the chain with Chain, outermost first:
//
//	handler = Chain(mux,
//	    RecoveryMiddleware,
//	    RequestIDMiddleware,
//	    tracing.HTTPMiddleware(tracer),
//	    LoggingMiddleware,
//	    CORSMiddleware(cors),
//	    TimeoutMiddleware(timeout),
//	)
//
// The gateway routes are additionally wrapped in API key authentication
// (optional, see security/auth) and BodyLimitMiddleware. CORS sits outside
// both, so browser preflights are answered without credentials and error
// responses still carry the CORS headers.
//
// # Request ID
//
// RequestIDMiddleware accepts a client's X-Request-ID when it is short and
// printable, and otherwise generates a UUID v4:
//
//	X-Request-ID: 550e8400-e29b-41d4-a716-446655440000
//
// The ID is echoed on the response, logged, and forwarded to the upstream.
//
// # CORS
//
// CORSMiddleware writes the allow-origin, allow-methods and allow-headers
// headers on every response, and answers OPTIONS on any path with 200 and an
// empty body:
//
//	Access-Control-Allow-Origin: *
//	Access-Control-Allow-Methods: GET, POST, OPTIONS
//	Access-Control-Allow-Headers: Content-Type, Authorization, X-Request-ID, 0x-api-key, X-Api-Key
//
// Replace the wildcard with an allow-list in production:
//
//	proxy:
//	  cors:
//	    allowed_origins: ["https://app.example.com"]
//
// # Errors
//
// Recovery (500), Timeout (504) and BodyLimit (413) answer with the same
// body as the gateway:
//
//	{"error": "Request timed out", "reason": "request exceeded 40s"}
package middleware
