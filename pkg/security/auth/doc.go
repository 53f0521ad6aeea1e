// Package auth implements optional API key authentication for the gateway
// routes.
//
// Callers send their key in the configured header (X-Api-Key by default).
// Keys come from security.authentication.keys and may be secret
// references, which are resolved on each request through the secrets
// cache:
//
//	store := auth.NewKeyStore(cfg.Security.Authentication.Keys, secretManager)
//	mw := auth.NewMiddleware(store, cfg.Security.Authentication.Header, collector)
//	handler = mw.Handle(handler)
//
// Rejected requests get 401 with {"error":"Unauthorized","reason":"..."}.
// Health and metrics endpoints are never wrapped.
package auth
