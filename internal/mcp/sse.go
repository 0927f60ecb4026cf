// ABOUTME: Server-push channel for MCP clients using Server-Sent Events.
// ABOUTME: Announces the message endpoint, then emits keep-alive comments until disconnect.

package mcp

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// handleSSE establishes the text-event-stream channel. The first event names
// the message endpoint for this client; afterwards the stream only carries
// keep-alive comments on a fixed interval. The channel runs until the client
// disconnects.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sessionID := uuid.New().String()
	s.logger.Info("sse channel opened", "session_id", sessionID, "remote", r.RemoteAddr)

	fmt.Fprintf(w, "event: endpoint\ndata: /messages?session_id=%s\n\n", sessionID)
	flusher.Flush()

	ticker := time.NewTicker(s.keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("sse channel closed", "session_id", sessionID)
			return
		case <-ticker.C:
			io.WriteString(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}
