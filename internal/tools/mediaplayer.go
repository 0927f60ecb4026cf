// ABOUTME: Request-shape validation for media_player.play_media on Sonos devices.
// ABOUTME: Catches flat Spotify payloads locally instead of letting upstream fail with a 500.

package tools

import (
	"strings"
)

// Sonos integrations reject Spotify content unless the request nests the
// content under a "media" object with an explicit "enqueue" mode. A flat
// payload is accepted by the API surface but fails server-side, so the bad
// shapes are intercepted before the upstream call.
const (
	sonosMarker   = "sonos"
	spotifyScheme = "spotify:"
)

// enqueueModes are the accepted values for the mandatory enqueue parameter.
var enqueueModes = []string{"replace", "add", "next", "play"}

// checkPlayMediaShape inspects a call_service invocation and returns a
// corrective Suggestion when the payload has one of the known-bad shapes.
// A nil return means the call should be forwarded upstream unmodified.
func checkPlayMediaShape(args callServiceArgs) *Suggestion {
	if args.Domain != "media_player" || args.Service != "play_media" {
		return nil
	}

	entityID := playMediaEntityID(args.Data)
	if !strings.Contains(entityID, sonosMarker) {
		return nil
	}

	// Shape 1: flat media_content_id naming Spotify content.
	if contentID, ok := args.Data["media_content_id"].(string); ok && strings.HasPrefix(contentID, spotifyScheme) {
		return &Suggestion{
			Error:   "invalid_request_shape",
			Message: "Sonos devices require Spotify content to be wrapped in a nested 'media' object",
			Suggestion: "Move media_content_id and media_content_type into a 'media' object and include the " +
				"required 'enqueue' parameter (one of: " + strings.Join(enqueueModes, ", ") + ").",
			CorrectRequest: correctPlayMediaRequest(entityID, contentID),
		}
	}

	// Shape 2: nested media object with Spotify content but no enqueue mode.
	if media, ok := args.Data["media"].(map[string]any); ok {
		contentID, _ := media["media_content_id"].(string)
		if !strings.HasPrefix(contentID, spotifyScheme) {
			return nil
		}
		if _, hasEnqueue := media["enqueue"]; hasEnqueue {
			return nil
		}
		return &Suggestion{
			Error:   "missing_parameter",
			Message: "Sonos play_media with Spotify content requires the 'enqueue' parameter",
			Suggestion: "Add 'enqueue' to the media object (one of: " + strings.Join(enqueueModes, ", ") +
				"). Use 'replace' to clear the queue and play immediately.",
			CorrectRequest: correctPlayMediaRequest(entityID, contentID),
		}
	}

	return nil
}

// playMediaEntityID extracts the target entity id from service call data,
// tolerating both a plain string and a list of ids.
func playMediaEntityID(data map[string]any) string {
	switch v := data["entity_id"].(type) {
	case string:
		return v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.Contains(s, sonosMarker) {
				return s
			}
		}
		if len(v) > 0 {
			s, _ := v[0].(string)
			return s
		}
	}
	return ""
}

// correctPlayMediaRequest builds the example payload returned with shape
// corrections.
func correctPlayMediaRequest(entityID, contentID string) map[string]any {
	if entityID == "" {
		entityID = "media_player.sonos_speaker"
	}
	if contentID == "" {
		contentID = "spotify:playlist:example"
	}
	return map[string]any{
		"domain":  "media_player",
		"service": "play_media",
		"data": map[string]any{
			"entity_id": entityID,
			"media": map[string]any{
				"media_content_id":   contentID,
				"media_content_type": "music",
				"enqueue":            "replace",
			},
		},
	}
}
