// ABOUTME: MCP-compatible JSON-RPC server exposing Home Assistant tools to LLM clients.
// ABOUTME: Routes initialize, tools/list, tools/call and wraps results in MCP envelopes.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389/hass-mcp-gateway/internal/auth"
	"github.com/2389/hass-mcp-gateway/internal/tools"
	"github.com/2389/hass-mcp-gateway/internal/upstream"
)

// protocolVersion is the MCP protocol revision advertised in initialize
// responses.
const protocolVersion = "2024-11-05"

// MaxRequestBodySize is the maximum allowed size for request bodies (1MB).
const MaxRequestBodySize = 1 << 20

// JSON-RPC 2.0 types

// JSONRPCRequest represents a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC 2.0 error object.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Standard JSON-RPC error codes
const (
	JSONRPCParseError     = -32700
	JSONRPCMethodNotFound = -32601
	JSONRPCInternalError  = -32603
)

// ToolExecutor runs one tool invocation. Implemented by *tools.Executor.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, args map[string]any, token string) (any, error)
}

// CallToolParams are the params for tools/call.
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// CallToolResult is the result for tools/call.
type CallToolResult struct {
	Content []Content `json:"content"`
}

// Content represents content in a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Config holds configuration for the MCP server.
type Config struct {
	Executor    ToolExecutor
	Logger      *slog.Logger
	ServiceName string
	Version     string
}

// Server implements the MCP JSON-RPC endpoints plus the liveness and
// server-push channels. Each request is a fully independent transaction; the
// server keeps no state across requests.
type Server struct {
	executor    ToolExecutor
	logger      *slog.Logger
	serviceName string
	version     string

	// keepAliveInterval is how often the SSE channel emits its comment
	// marker. Overridden in tests.
	keepAliveInterval time.Duration
}

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Executor == nil {
		return nil, errors.New("executor is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "hass-mcp-gateway"
	}
	version := cfg.Version
	if version == "" {
		version = "1.0.0"
	}

	return &Server{
		executor:          cfg.Executor,
		logger:            logger,
		serviceName:       serviceName,
		version:           version,
		keepAliveInterval: 30 * time.Second,
	}, nil
}

// Handler returns the root handler. Every POST path reaches the JSON-RPC
// dispatcher; the liveness and SSE paths answer GET.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/health"):
			s.handleHealth(w, r)
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/sse"):
			s.handleSSE(w, r)
		case r.Method == http.MethodPost:
			s.handleMessages(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	})
}

// handleHealth answers the liveness check. The credential gate skips this
// path, so it must never touch upstream.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": s.serviceName,
	})
}

// handleMessages processes JSON-RPC messages sent via HTTP POST.
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		s.sendJSONRPCError(w, http.StatusBadRequest, nil, JSONRPCParseError, "failed to read request body")
		return
	}
	if int64(len(body)) > MaxRequestBodySize {
		s.sendJSONRPCError(w, http.StatusBadRequest, nil, JSONRPCParseError, "request body too large")
		return
	}

	var req JSONRPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.sendJSONRPCError(w, http.StatusBadRequest, nil, JSONRPCParseError, "invalid JSON")
		return
	}

	s.logger.Info("mcp request", "method", req.Method, "id", string(req.ID))

	switch req.Method {
	case "initialize":
		s.handleInitialize(w, req)
	case "notifications/initialized":
		// A notification expects no JSON-RPC envelope: empty 200 body.
		s.logger.Debug("client initialized")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{}"))
	case "tools/list":
		s.handleToolsList(w, req)
	case "tools/call":
		s.handleToolsCall(w, r, req)
	default:
		s.sendJSONRPCError(w, http.StatusBadRequest, req.ID, JSONRPCMethodNotFound, "Method not found: "+req.Method)
	}
}

// handleInitialize emits the fixed protocol descriptor for the MCP handshake.
func (s *Server) handleInitialize(w http.ResponseWriter, req JSONRPCRequest) {
	result := map[string]any{
		"protocolVersion": protocolVersion,
		"serverInfo": map[string]any{
			"name":    s.serviceName,
			"version": s.version,
		},
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
	}
	s.sendJSONRPCResult(w, req.ID, result)
}

// handleToolsList returns the static tool catalog.
func (s *Server) handleToolsList(w http.ResponseWriter, req JSONRPCRequest) {
	s.sendJSONRPCResult(w, req.ID, map[string]any{"tools": tools.Catalog()})
}

// handleToolsCall invokes the executor and wraps the outcome. Upstream
// failures are rerouted through the enrichment engine and surfaced as
// successful results carrying structured guidance; everything else (missing
// arguments, unknown tools, unreachable upstream) becomes a JSON-RPC -32603
// error.
func (s *Server) handleToolsCall(w http.ResponseWriter, r *http.Request, req JSONRPCRequest) {
	var params CallToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendJSONRPCError(w, http.StatusBadRequest, req.ID, JSONRPCInternalError, "invalid params")
			return
		}
	}
	if params.Name == "" {
		s.sendJSONRPCError(w, http.StatusBadRequest, req.ID, JSONRPCInternalError, "tool name is required")
		return
	}

	token := auth.TokenFromContext(r.Context())

	// Request ID for log correlation
	requestID := uuid.New().String()

	s.logger.Info("tools/call",
		"tool_name", params.Name,
		"request_id", requestID,
	)

	result, err := s.executor.Execute(r.Context(), params.Name, params.Arguments, token)
	if err != nil {
		var upErr *upstream.Error
		if errors.As(err, &upErr) && !upErr.Unreachable() {
			// Reachable upstream failures become structured guidance,
			// returned as a successful result the client can act on.
			suggestion := tools.Enrich(upErr.StatusCode, upErr.Message, params.Name, params.Arguments)
			s.logger.Warn("tool call enriched upstream failure",
				"tool_name", params.Name,
				"request_id", requestID,
				"status", upErr.StatusCode,
			)
			s.sendToolResult(w, req.ID, suggestion)
			return
		}

		s.logger.Warn("tool call failed",
			"tool_name", params.Name,
			"request_id", requestID,
			"error", err,
		)
		s.sendJSONRPCError(w, http.StatusBadRequest, req.ID, JSONRPCInternalError, err.Error())
		return
	}

	s.logger.Debug("tools/call complete",
		"tool_name", params.Name,
		"request_id", requestID,
	)
	s.sendToolResult(w, req.ID, result)
}

// sendToolResult wraps a tool result value in the MCP text-content envelope.
func (s *Server) sendToolResult(w http.ResponseWriter, id json.RawMessage, result any) {
	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		s.sendJSONRPCError(w, http.StatusBadRequest, id, JSONRPCInternalError, "failed to serialize tool result")
		return
	}
	s.sendJSONRPCResult(w, id, CallToolResult{
		Content: []Content{{Type: "text", Text: string(text)}},
	})
}

// sendJSONRPCResult sends a successful JSON-RPC response.
func (s *Server) sendJSONRPCResult(w http.ResponseWriter, id json.RawMessage, result any) {
	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("failed to encode JSON-RPC response", "error", err)
	}
}

// sendJSONRPCError sends a JSON-RPC error response with the given HTTP status.
func (s *Server) sendJSONRPCError(w http.ResponseWriter, httpStatus int, id json.RawMessage, code int, message string) {
	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("failed to encode JSON-RPC error response", "error", err)
	}
}
