// Package tools implements the gateway's tool surface: the static catalog,
// the executor that translates tool calls into Home Assistant REST calls,
// and the error enrichment engine.
//
// # Overview
//
// Each tool maps to exactly one upstream REST call with tool-specific
// argument shaping:
//
//   - list_states            GET  /api/states
//   - list_states_filtered   GET  /api/states (client-side filter)
//   - get_state              GET  /api/states/{entity_id}
//   - get_history            GET  /api/history/period/{start_time}
//   - render_template        POST /api/template
//   - list_services          GET  /api/services
//   - call_service           POST /api/services/{domain}/{service}
//   - get_config             GET  /api/config
//   - get_logbook            GET  /api/logbook/{start_time}
//   - fire_event             POST /api/events/{event_type}
//
// # Argument Validation
//
// Tool arguments arrive as an untyped map from the JSON-RPC layer. Each tool
// has a typed argument struct with a parser that validates required fields
// before dispatch, so a bad invocation fails fast without an upstream call.
//
// # The play_media Shape Check
//
// One service call carries genuine domain knowledge: Sonos devices need
// Spotify content nested in a 'media' object with a mandatory 'enqueue'
// parameter, and a flat payload fails server-side with an opaque 500. The
// executor recognizes the known-bad shapes and short-circuits with a
// corrective payload instead of calling upstream.
//
// # Error Enrichment
//
// When an upstream call fails, Enrich inspects the status code, the error
// text, and the original invocation to build a Suggestion: a structured,
// actionable explanation with an optional corrected example payload.
// Template-render failures get their own regex-based classifier
// (EnrichTemplate). Enrichment results are returned to clients as successful
// tool results carrying the error description as data, because an automated
// client needs structured text it can act on rather than a bare failure.
package tools
