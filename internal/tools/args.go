// ABOUTME: Typed per-tool argument structs and parsers for tool invocations.
// ABOUTME: Each parser validates required fields before any upstream call is made.

package tools

import (
	"fmt"
)

// ArgumentError reports a missing or malformed tool argument, or an unknown
// tool name. It is raised locally, before any upstream call.
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string {
	return e.Message
}

func argErrorf(format string, args ...any) *ArgumentError {
	return &ArgumentError{Message: fmt.Sprintf(format, args...)}
}

// stringArg reads an optional string argument, tolerating absence.
func stringArg(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// requireString reads a mandatory string argument.
func requireString(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", argErrorf("%s is required", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", argErrorf("%s must be a non-empty string", key)
	}
	return s, nil
}

// mapArg reads an optional object argument, defaulting to an empty map.
func mapArg(raw map[string]any, key string) (map[string]any, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, argErrorf("%s must be an object", key)
	}
	return m, nil
}

// Tagged argument variants, one per tool. The dispatcher hands the executor a
// raw argument map; these parsers turn it into a typed value or fail fast
// with an ArgumentError so no upstream call happens for a bad invocation.

type listStatesFilteredArgs struct {
	Domain string
	State  string
}

func parseListStatesFiltered(raw map[string]any) listStatesFilteredArgs {
	return listStatesFilteredArgs{
		Domain: stringArg(raw, "domain"),
		State:  stringArg(raw, "state"),
	}
}

type getStateArgs struct {
	EntityID string
}

func parseGetState(raw map[string]any) (getStateArgs, error) {
	entityID, err := requireString(raw, "entity_id")
	if err != nil {
		return getStateArgs{}, err
	}
	return getStateArgs{EntityID: entityID}, nil
}

type getHistoryArgs struct {
	EntityID  string
	StartTime string
}

func parseGetHistory(raw map[string]any) (getHistoryArgs, error) {
	entityID, err := requireString(raw, "entity_id")
	if err != nil {
		return getHistoryArgs{}, err
	}
	return getHistoryArgs{
		EntityID:  entityID,
		StartTime: stringArg(raw, "start_time"),
	}, nil
}

type renderTemplateArgs struct {
	Template string
}

func parseRenderTemplate(raw map[string]any) (renderTemplateArgs, error) {
	tpl, err := requireString(raw, "template")
	if err != nil {
		return renderTemplateArgs{}, err
	}
	return renderTemplateArgs{Template: tpl}, nil
}

type callServiceArgs struct {
	Domain  string
	Service string
	Data    map[string]any
}

func parseCallService(raw map[string]any) (callServiceArgs, error) {
	domain, err := requireString(raw, "domain")
	if err != nil {
		return callServiceArgs{}, err
	}
	service, err := requireString(raw, "service")
	if err != nil {
		return callServiceArgs{}, err
	}
	data, err := mapArg(raw, "data")
	if err != nil {
		return callServiceArgs{}, err
	}
	return callServiceArgs{Domain: domain, Service: service, Data: data}, nil
}

type getLogbookArgs struct {
	StartTime string
	EntityID  string
	EndTime   string
}

func parseGetLogbook(raw map[string]any) getLogbookArgs {
	return getLogbookArgs{
		StartTime: stringArg(raw, "start_time"),
		EntityID:  stringArg(raw, "entity_id"),
		EndTime:   stringArg(raw, "end_time"),
	}
}

type fireEventArgs struct {
	EventType string
	EventData map[string]any
}

func parseFireEvent(raw map[string]any) (fireEventArgs, error) {
	eventType, err := requireString(raw, "event_type")
	if err != nil {
		return fireEventArgs{}, err
	}
	data, err := mapArg(raw, "event_data")
	if err != nil {
		return fireEventArgs{}, err
	}
	return fireEventArgs{EventType: eventType, EventData: data}, nil
}
