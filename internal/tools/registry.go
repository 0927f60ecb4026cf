// ABOUTME: Static catalog of the tools the gateway exposes over MCP.
// ABOUTME: Pure data consulted by the dispatcher for tools/list responses.

package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Catalog returns the fixed set of tool descriptors. The catalog never
// changes at runtime; the executor's argument handling is kept consistent
// with these schemas by construction.
//
// The inputSchema entries are documentation for clients. The executor
// performs its own presence checks independently (see args.go).
func Catalog() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "list_states",
			Description: "Get all entity states from Home Assistant",
			InputSchema: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]any{},
				Required:   []string{},
			},
		},
		{
			Name:        "list_states_filtered",
			Description: "Get entity states filtered by domain and/or current state",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"domain": map[string]any{
						"type":        "string",
						"description": "Entity domain to filter by (e.g., light, sensor)",
					},
					"state": map[string]any{
						"type":        "string",
						"description": "Exact state value to filter by (e.g., on, off)",
					},
				},
				Required: []string{},
			},
		},
		{
			Name:        "get_state",
			Description: "Get state of a specific entity from Home Assistant",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"entity_id": map[string]any{
						"type":        "string",
						"description": "Entity ID (e.g., light.living_room)",
					},
				},
				Required: []string{"entity_id"},
			},
		},
		{
			Name:        "get_history",
			Description: "Get state history for an entity over a time period",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"entity_id": map[string]any{
						"type":        "string",
						"description": "Entity ID to fetch history for",
					},
					"start_time": map[string]any{
						"type":        "string",
						"description": "ISO 8601 start timestamp (defaults to one day ago)",
					},
				},
				Required: []string{"entity_id"},
			},
		},
		{
			Name:        "render_template",
			Description: "Render a Home Assistant Jinja2 template",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"template": map[string]any{
						"type":        "string",
						"description": "Template string (e.g., {{ states('sensor.temperature') }})",
					},
				},
				Required: []string{"template"},
			},
		},
		{
			Name:        "list_services",
			Description: "Get all available services from Home Assistant",
			InputSchema: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]any{},
				Required:   []string{},
			},
		},
		{
			Name:        "call_service",
			Description: "Call a Home Assistant service",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"domain": map[string]any{
						"type":        "string",
						"description": "Service domain (e.g., light, switch)",
					},
					"service": map[string]any{
						"type":        "string",
						"description": "Service name (e.g., turn_on)",
					},
					"data": map[string]any{
						"type":        "object",
						"description": "Service call data, including entity_id",
					},
				},
				Required: []string{"domain", "service"},
			},
		},
		{
			Name:        "get_config",
			Description: "Get the Home Assistant configuration",
			InputSchema: mcp.ToolInputSchema{
				Type:       "object",
				Properties: map[string]any{},
				Required:   []string{},
			},
		},
		{
			Name:        "get_logbook",
			Description: "Get logbook entries, optionally scoped to an entity and time range",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"entity_id": map[string]any{
						"type":        "string",
						"description": "Entity ID to scope logbook entries to",
					},
					"start_time": map[string]any{
						"type":        "string",
						"description": "ISO 8601 start timestamp",
					},
					"end_time": map[string]any{
						"type":        "string",
						"description": "ISO 8601 end timestamp",
					},
				},
				Required: []string{},
			},
		},
		{
			Name:        "fire_event",
			Description: "Fire a custom event on the Home Assistant event bus",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"event_type": map[string]any{
						"type":        "string",
						"description": "Event type to fire (e.g., my_custom_event)",
					},
					"event_data": map[string]any{
						"type":        "object",
						"description": "Event payload (defaults to empty object)",
					},
				},
				Required: []string{"event_type"},
			},
		},
	}
}
