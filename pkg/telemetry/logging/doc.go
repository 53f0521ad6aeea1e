// Package logging configures log/slog for the gateway.
//
// Code throughout the module logs through the slog package functions
// (slog.InfoContext and friends). Setup installs a default logger whose
// handler chain:
//
//   - adds request_id, trace_id and span_id from the call's context
//   - masks credentials: attributes with sensitive keys, bearer tokens,
//     api-key query strings and the literal upstream API key
//   - writes JSON (default) or text
//
// Usage:
//
//	_, err := logging.Setup(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	    Secrets:       []string{apiKey},
//	    Fields: []logging.ContextField{
//	        logging.StringField("request_id", middleware.GetRequestID),
//	    },
//	})
//
//	slog.InfoContext(ctx, "upstream call failed", "api_key", key) // api_key=abcd***
package logging
