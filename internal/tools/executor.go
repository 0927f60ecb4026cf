// ABOUTME: Maps tool invocations to Home Assistant REST calls.
// ABOUTME: Validates arguments locally and applies the play_media shape check before dispatch.

package tools

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/2389/hass-mcp-gateway/internal/upstream"
)

// Caller is the upstream surface the executor needs. Implemented by
// *upstream.Client.
type Caller interface {
	Get(ctx context.Context, path, token string) (any, error)
	Post(ctx context.Context, path, token string, body any) (any, error)
}

// Executor translates a tool name plus raw argument map into exactly one
// upstream call (or, for the play_media shape check, zero). It holds no
// per-request state and is safe for concurrent use.
type Executor struct {
	upstream Caller
	logger   *slog.Logger
}

// NewExecutor creates an Executor backed by the given upstream caller.
func NewExecutor(caller Caller, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{upstream: caller, logger: logger}
}

// Execute runs one tool invocation. The returned value is either the decoded
// upstream result or a locally constructed Suggestion payload (play_media
// shape corrections, template-render explanations). Argument failures return
// an *ArgumentError without touching upstream; upstream failures return the
// *upstream.Error unchanged for the dispatcher to enrich.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]any, token string) (any, error) {
	if args == nil {
		args = map[string]any{}
	}

	switch name {
	case "list_states":
		return e.upstream.Get(ctx, "/api/states", token)

	case "list_states_filtered":
		return e.listStatesFiltered(ctx, parseListStatesFiltered(args), token)

	case "get_state":
		parsed, err := parseGetState(args)
		if err != nil {
			return nil, err
		}
		return e.upstream.Get(ctx, "/api/states/"+url.PathEscape(parsed.EntityID), token)

	case "get_history":
		parsed, err := parseGetHistory(args)
		if err != nil {
			return nil, err
		}
		path := "/api/history/period"
		if parsed.StartTime != "" {
			path += "/" + url.PathEscape(parsed.StartTime)
		}
		path += "?filter_entity_id=" + url.QueryEscape(parsed.EntityID)
		return e.upstream.Get(ctx, path, token)

	case "render_template":
		parsed, err := parseRenderTemplate(args)
		if err != nil {
			return nil, err
		}
		return e.renderTemplate(ctx, parsed, token)

	case "list_services":
		return e.upstream.Get(ctx, "/api/services", token)

	case "call_service":
		parsed, err := parseCallService(args)
		if err != nil {
			return nil, err
		}
		// Known upstream quirk: Sonos + Spotify play_media calls need a
		// nested media object. Catch the bad shapes locally instead of
		// letting Home Assistant fail with an opaque 500.
		if correction := checkPlayMediaShape(parsed); correction != nil {
			e.logger.Info("play_media shape corrected locally",
				"domain", parsed.Domain,
				"service", parsed.Service,
			)
			return *correction, nil
		}
		path := "/api/services/" + url.PathEscape(parsed.Domain) + "/" + url.PathEscape(parsed.Service)
		return e.upstream.Post(ctx, path, token, parsed.Data)

	case "get_config":
		return e.upstream.Get(ctx, "/api/config", token)

	case "get_logbook":
		return e.getLogbook(ctx, parseGetLogbook(args), token)

	case "fire_event":
		parsed, err := parseFireEvent(args)
		if err != nil {
			return nil, err
		}
		return e.upstream.Post(ctx, "/api/events/"+url.PathEscape(parsed.EventType), token, parsed.EventData)

	default:
		return nil, argErrorf("unknown tool: %s", name)
	}
}

// listStatesFiltered fetches the full state list and filters it client-side.
// The domain filter matches the literal entity_id prefix "{domain}.", so a
// malformed id without a separator never matches any domain.
func (e *Executor) listStatesFiltered(ctx context.Context, args listStatesFilteredArgs, token string) (any, error) {
	result, err := e.upstream.Get(ctx, "/api/states", token)
	if err != nil {
		return nil, err
	}

	states, ok := result.([]any)
	if !ok {
		return result, nil
	}

	filtered := make([]any, 0, len(states))
	for _, raw := range states {
		entity, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if args.Domain != "" {
			entityID, _ := entity["entity_id"].(string)
			if !strings.HasPrefix(entityID, args.Domain+".") {
				continue
			}
		}
		if args.State != "" {
			state, _ := entity["state"].(string)
			if state != args.State {
				continue
			}
		}
		filtered = append(filtered, entity)
	}
	return filtered, nil
}

// renderTemplate posts the template and converts render failures into
// structured, non-fatal explanations instead of propagating them.
func (e *Executor) renderTemplate(ctx context.Context, args renderTemplateArgs, token string) (any, error) {
	result, err := e.upstream.Post(ctx, "/api/template", token, map[string]any{"template": args.Template})
	if err == nil {
		return result, nil
	}

	var upErr *upstream.Error
	if errors.As(err, &upErr) && !upErr.Unreachable() {
		e.logger.Warn("template render failed",
			"status", upErr.StatusCode,
		)
		return EnrichTemplate(upErr.Message, args.Template), nil
	}
	return nil, err
}

func (e *Executor) getLogbook(ctx context.Context, args getLogbookArgs, token string) (any, error) {
	path := "/api/logbook"
	if args.StartTime != "" {
		path += "/" + url.PathEscape(args.StartTime)
	}

	query := url.Values{}
	if args.EntityID != "" {
		query.Set("entity", args.EntityID)
	}
	if args.EndTime != "" {
		query.Set("end_time", args.EndTime)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return e.upstream.Get(ctx, path, token)
}
