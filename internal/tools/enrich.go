// ABOUTME: Error enrichment engine converting upstream failures into actionable guidance.
// ABOUTME: Applies status-code rules, keyword matching, and regex classification of template errors.

package tools

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// Suggestion is the structured explanation returned to the client in place
// of a raw upstream failure. It is derived fresh per error and carries an
// optional corrected example payload.
type Suggestion struct {
	Error          string `json:"error"`
	Message        string `json:"message"`
	Suggestion     string `json:"suggestion"`
	CorrectRequest any    `json:"correct_request_example,omitempty"`
}

// Enrich builds a Suggestion from an upstream failure plus the originating
// tool invocation. Rules are checked in order; the first match wins.
func Enrich(statusCode int, message, toolName string, args map[string]any) Suggestion {
	if args == nil {
		args = map[string]any{}
	}

	switch statusCode {
	case http.StatusNotFound:
		return enrichNotFound(message, toolName)
	case http.StatusBadRequest:
		return enrichBadRequest(message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return Suggestion{
			Error:   "auth_failed",
			Message: message,
			Suggestion: "The Home Assistant token was rejected for this operation. Verify the long-lived " +
				"access token is valid and that its user has permission for the requested entity or service.",
		}
	case http.StatusInternalServerError:
		return enrichServerError(message, toolName, args)
	default:
		return Suggestion{
			Error:      "upstream_error",
			Message:    message,
			Suggestion: fmt.Sprintf("Home Assistant returned status %d. Check the request parameters and the Home Assistant logs.", statusCode),
		}
	}
}

func enrichNotFound(message, toolName string) Suggestion {
	switch toolName {
	case "get_state":
		return Suggestion{
			Error:   "not_found",
			Message: message,
			Suggestion: "The entity was not found. Check the entity_id spelling (format: domain.name, " +
				"e.g. light.living_room) or use list_states to discover available entities.",
		}
	case "call_service":
		return Suggestion{
			Error:   "not_found",
			Message: message,
			Suggestion: "The service was not found. Check the domain and service names, " +
				"or use list_services to discover available services.",
		}
	default:
		return Suggestion{
			Error:      "not_found",
			Message:    message,
			Suggestion: "The requested resource was not found on this Home Assistant instance.",
		}
	}
}

func enrichBadRequest(message string) Suggestion {
	if strings.Contains(strings.ToLower(message), "entity") {
		return Suggestion{
			Error:   "invalid_request",
			Message: message,
			Suggestion: "Check the entity_id format: it must be domain.name, e.g. sensor.temperature " +
				"or light.living_room.",
		}
	}
	return Suggestion{
		Error:      "invalid_request",
		Message:    message,
		Suggestion: "Home Assistant rejected the request. Check that all parameters have the expected types and values.",
	}
}

func enrichServerError(message, toolName string, args map[string]any) Suggestion {
	domain := stringArg(args, "domain")
	service := stringArg(args, "service")

	if toolName == "call_service" && domain == "media_player" && service == "play_media" {
		data, _ := args["data"].(map[string]any)
		entityID := playMediaEntityID(data)
		contentID, _ := data["media_content_id"].(string)
		if contentID == "" {
			if media, ok := data["media"].(map[string]any); ok {
				contentID, _ = media["media_content_id"].(string)
			}
		}

		if strings.Contains(entityID, sonosMarker) && strings.HasPrefix(contentID, spotifyScheme) {
			return Suggestion{
				Error:   "service_error",
				Message: message,
				Suggestion: "Sonos rejected the Spotify content. Make sure the request nests the content in a " +
					"'media' object with media_content_type 'music' and an 'enqueue' mode (" +
					strings.Join(enqueueModes, ", ") + "), and that the Spotify account is linked in Sonos.",
				CorrectRequest: correctPlayMediaRequest(entityID, contentID),
			}
		}
		return Suggestion{
			Error:   "service_error",
			Message: message,
			Suggestion: "The media playback failed. Verify the target player supports the content type and that " +
				"media_content_id is a URI the player's integration understands.",
		}
	}

	if domain != "" && service != "" {
		return Suggestion{
			Error:      "service_error",
			Message:    message,
			Suggestion: fmt.Sprintf("The %s.%s service call failed inside Home Assistant. Check the Home Assistant logs for the underlying integration error.", domain, service),
		}
	}
	return Suggestion{
		Error:      "service_error",
		Message:    message,
		Suggestion: "Home Assistant reported an internal error. Check the Home Assistant logs for details.",
	}
}

// Template-render failures use a separate text-pattern classifier: the
// template endpoint reports errors as free text, so the patterns below
// extract the offending filter or input value.
var (
	unknownFilterRe = regexp.MustCompile(`[Nn]o filter named '([^']+)'`)
	floatInputRe    = regexp.MustCompile(`float got invalid input '([^']*)'.*no default was specified`)
)

// EnrichTemplate classifies a template-render failure message. Both
// classifiers are independent; the first non-nil suggestion wins, with a
// generic fallback when neither matches.
func EnrichTemplate(message, template string) Suggestion {
	if s := classifyUnknownFilter(message, template); s != nil {
		return *s
	}
	if s := classifyFloatInput(message); s != nil {
		return *s
	}
	return Suggestion{
		Error:      "template_error",
		Message:    message,
		Suggestion: "The template failed to render. See the Home Assistant templating documentation for supported syntax and filters.",
	}
}

func classifyUnknownFilter(message, template string) *Suggestion {
	m := unknownFilterRe.FindStringSubmatch(message)
	if m == nil {
		return nil
	}
	filterName := m[1]

	// Jinja2 has no 'avg' filter; Home Assistant ships 'average' instead.
	if filterName == "avg" {
		corrected := strings.ReplaceAll(template, "| avg", "| average")
		corrected = strings.ReplaceAll(corrected, "|avg", "|average")
		return &Suggestion{
			Error:   "template_error",
			Message: message,
			Suggestion: "There is no 'avg' filter in Home Assistant templates. Use the 'average' filter instead, " +
				"e.g. {{ [1, 2, 3] | average }}.",
			CorrectRequest: map[string]any{"template": corrected},
		}
	}

	return &Suggestion{
		Error:      "template_error",
		Message:    message,
		Suggestion: fmt.Sprintf("The filter '%s' is not available in Home Assistant templates. See the templating documentation for the supported filter list.", filterName),
	}
}

func classifyFloatInput(message string) *Suggestion {
	m := floatInputRe.FindStringSubmatch(message)
	if m == nil {
		return nil
	}
	badInput := m[1]

	return &Suggestion{
		Error:   "template_error",
		Message: message,
		Suggestion: fmt.Sprintf("The value '%s' could not be converted to a number and no default was given. "+
			"Either supply a default, e.g. float(0), filter out non-numeric states with "+
			"selectattr/rejectattr, or use the 'average' filter with a default value.", badInput),
	}
}
