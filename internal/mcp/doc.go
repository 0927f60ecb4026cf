// Package mcp implements the Model Context Protocol server for Home Assistant
// tool access.
//
// # Overview
//
// MCP (Model Context Protocol) is a standard for AI tool integration. This
// package provides the JSON-RPC 2.0 dispatcher that lets an LLM client
// discover and invoke the gateway's Home Assistant tools.
//
// # Protocol
//
// Every POST path reaches the same dispatcher. Key endpoints:
//
//   - POST /messages - JSON-RPC requests (initialize, tools/list, tools/call)
//   - GET  /sse      - SSE channel announcing the message endpoint, then keep-alives
//   - GET  /health   - liveness check, bypasses authentication
//
// # Methods
//
//   - initialize: fixed protocol-version / server-info / capabilities descriptor
//   - notifications/initialized: notification; answered with an empty 200 body,
//     never a JSON-RPC envelope
//   - tools/list: the static tool catalog
//   - tools/call: one tool invocation
//
// Unknown methods answer with JSON-RPC error -32601 and HTTP 400. Local
// failures during a tool call (missing arguments, unknown tool) answer with
// -32603.
//
// # Error Enrichment
//
// Upstream failures inside tools/call never surface as JSON-RPC errors.
// They are rerouted through the enrichment engine and returned as successful
// results whose text content carries a structured Suggestion, because the
// consuming client is an automated agent that needs data it can introspect
// rather than HTTP semantics.
//
// # Usage
//
//	server, err := mcp.NewServer(mcp.Config{
//	    Executor: executor,
//	    Logger:   logger,
//	    Version:  version,
//	})
//	handler := auth.Chain(server.Handler(),
//	    auth.Recoverer(logger),
//	    auth.RequestLogger(logger),
//	    auth.Gate(client, logger),
//	)
package mcp
