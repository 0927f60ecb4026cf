// ABOUTME: Tests for the Sonos/Spotify play_media request-shape validation.
// ABOUTME: Verifies short-circuit corrections are produced with zero upstream calls.

package tools

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayMedia_FlatSpotifyShapeShortCircuits(t *testing.T) {
	caller := &fakeCaller{}
	exec := NewExecutor(caller, slog.Default())

	result, err := exec.Execute(context.Background(), "call_service", map[string]any{
		"domain":  "media_player",
		"service": "play_media",
		"data": map[string]any{
			"entity_id":          "media_player.sonos_living_room",
			"media_content_id":   "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
			"media_content_type": "music",
		},
	}, "tok")
	require.NoError(t, err)
	assert.Equal(t, 0, caller.calls, "bad shape must not reach upstream")

	suggestion, ok := result.(Suggestion)
	require.True(t, ok, "expected Suggestion, got %T", result)
	assert.Equal(t, "invalid_request_shape", suggestion.Error)
	assert.Contains(t, suggestion.Suggestion, "enqueue")

	example, ok := suggestion.CorrectRequest.(map[string]any)
	require.True(t, ok)
	data := example["data"].(map[string]any)
	media := data["media"].(map[string]any)
	assert.Equal(t, "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M", media["media_content_id"])
	assert.Equal(t, "replace", media["enqueue"])
}

func TestPlayMedia_NestedShapeMissingEnqueue(t *testing.T) {
	caller := &fakeCaller{}
	exec := NewExecutor(caller, slog.Default())

	result, err := exec.Execute(context.Background(), "call_service", map[string]any{
		"domain":  "media_player",
		"service": "play_media",
		"data": map[string]any{
			"entity_id": "media_player.sonos_kitchen",
			"media": map[string]any{
				"media_content_id":   "spotify:track:4cOdK2wGLETKBW3PvgPWqT",
				"media_content_type": "music",
			},
		},
	}, "tok")
	require.NoError(t, err)
	assert.Equal(t, 0, caller.calls)

	suggestion, ok := result.(Suggestion)
	require.True(t, ok)
	assert.Equal(t, "missing_parameter", suggestion.Error)
	assert.Contains(t, suggestion.Suggestion, "enqueue")
}

func TestPlayMedia_WellFormedNestedShapeForwards(t *testing.T) {
	caller := &fakeCaller{result: []any{}}
	exec := NewExecutor(caller, slog.Default())

	_, err := exec.Execute(context.Background(), "call_service", map[string]any{
		"domain":  "media_player",
		"service": "play_media",
		"data": map[string]any{
			"entity_id": "media_player.sonos_kitchen",
			"media": map[string]any{
				"media_content_id":   "spotify:track:4cOdK2wGLETKBW3PvgPWqT",
				"media_content_type": "music",
				"enqueue":            "add",
			},
		},
	}, "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, caller.calls)
	assert.Equal(t, "/api/services/media_player/play_media", caller.path)
}

func TestPlayMedia_NonSonosTargetForwards(t *testing.T) {
	caller := &fakeCaller{result: []any{}}
	exec := NewExecutor(caller, slog.Default())

	_, err := exec.Execute(context.Background(), "call_service", map[string]any{
		"domain":  "media_player",
		"service": "play_media",
		"data": map[string]any{
			"entity_id":        "media_player.chromecast_tv",
			"media_content_id": "spotify:track:4cOdK2wGLETKBW3PvgPWqT",
		},
	}, "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, caller.calls)
}

func TestPlayMedia_NonSpotifyContentForwards(t *testing.T) {
	caller := &fakeCaller{result: []any{}}
	exec := NewExecutor(caller, slog.Default())

	_, err := exec.Execute(context.Background(), "call_service", map[string]any{
		"domain":  "media_player",
		"service": "play_media",
		"data": map[string]any{
			"entity_id":        "media_player.sonos_kitchen",
			"media_content_id": "http://example.com/stream.mp3",
		},
	}, "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, caller.calls)
}

func TestPlayMedia_EntityIDList(t *testing.T) {
	caller := &fakeCaller{}
	exec := NewExecutor(caller, slog.Default())

	result, err := exec.Execute(context.Background(), "call_service", map[string]any{
		"domain":  "media_player",
		"service": "play_media",
		"data": map[string]any{
			"entity_id":        []any{"media_player.tv", "media_player.sonos_den"},
			"media_content_id": "spotify:album:1ATL5GLyefJaxhQzSPVrLX",
		},
	}, "tok")
	require.NoError(t, err)
	assert.Equal(t, 0, caller.calls, "a Sonos target anywhere in the list triggers the check")

	suggestion := result.(Suggestion)
	assert.Equal(t, "invalid_request_shape", suggestion.Error)
}

func TestPlayMedia_OtherServicesUntouched(t *testing.T) {
	caller := &fakeCaller{result: []any{}}
	exec := NewExecutor(caller, slog.Default())

	_, err := exec.Execute(context.Background(), "call_service", map[string]any{
		"domain":  "media_player",
		"service": "volume_set",
		"data": map[string]any{
			"entity_id":    "media_player.sonos_kitchen",
			"volume_level": 0.4,
		},
	}, "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, caller.calls)
}
