// Package auth implements the credential gate for hass-mcp-gateway.
//
// # Overview
//
// The gateway has no credential store of its own. Every inbound request must
// carry the caller's Home Assistant long-lived access token:
//
//	Authorization: Bearer <token>
//
// The gate validates that token against the upstream instance's /api/ root
// endpoint before any tool logic runs, then attaches the validated token to
// the request context for downstream upstream calls. There is no session
// concept, so validation happens on every request.
//
// # Interceptors
//
// Request processing is an explicit ordered list of interceptors, each able
// to short-circuit with a terminal response:
//
//	handler := auth.Chain(mux,
//	    auth.Recoverer(logger),
//	    auth.RequestLogger(logger),
//	    auth.Gate(client, logger),
//	)
//
// # Gate Decisions
//
//   - 401 Unauthorized: missing/malformed header, or Home Assistant rejected
//     the token
//   - 503 Service Unavailable: Home Assistant could not be reached to
//     validate the token (deliberately distinct from 401)
//   - liveness endpoints (paths ending in /health) bypass the gate entirely
//
// Token values are never logged in full; audit lines carry only a bounded
// prefix via TokenPrefix.
package auth
