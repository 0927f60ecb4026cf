// Package upstream implements the HTTP client for the Home Assistant REST API.
//
// # Overview
//
// One Client is created at process start and shared by every request handler.
// It performs single GET/POST round trips with a bounded timeout and folds
// all failure modes into one typed error:
//
//   - Home Assistant returned a non-2xx status: Error carries that status and
//     the response body text.
//   - Home Assistant was unreachable (DNS, connection refused, timeout):
//     Error carries a fixed 503 status, distinguishable via Unreachable().
//
// Successful responses are JSON-decoded; endpoints that respond with plain
// text (such as /api/template) pass their body through unchanged.
//
// # Authentication
//
// Every call forwards the caller's bearer token verbatim:
//
//	Authorization: Bearer <token>
//
// ValidateToken performs the lightweight GET /api/ check used by the
// credential gate before any tool logic runs.
//
// # Usage
//
//	client := upstream.New(cfg.HomeAssistant.BaseURL, cfg.HomeAssistant.Timeout, logger)
//	states, err := client.Get(ctx, "/api/states", token)
package upstream
