package mcp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Papin-Network/MCP-Papin-Network-Server/internal/common"
)

// maxMessageSize caps posted JSON-RPC message bodies.
const maxMessageSize = 4 << 20 // 4MB

// defaultKeepAlive is the interval between SSE keep-alive comments.
const defaultKeepAlive = 15 * time.Second

// SSEHandler serves the legacy subscribe endpoint. Each GET opens a
// long-lived event stream: an endpoint event carrying the session-scoped
// message URL is emitted first, then responses to posted messages are
// forwarded as message events until the client disconnects.
type SSEHandler struct {
	sessions    *SessionRegistry
	logger      *common.Logger
	messagePath string
	keepAlive   time.Duration
}

// NewSSEHandler creates the subscribe handler. messagePath is the companion
// message-post endpoint advertised to clients.
func NewSSEHandler(sessions *SessionRegistry, logger *common.Logger, messagePath string) *SSEHandler {
	return &SSEHandler{
		sessions:    sessions,
		logger:      logger,
		messagePath: messagePath,
		keepAlive:   defaultKeepAlive,
	}
}

func (h *SSEHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	session := NewSSESession(uuid.New().String())

	// Register before the endpoint event goes out: once the client knows the
	// session id, posted messages must find the entry.
	h.sessions.Register(session)
	defer func() {
		h.sessions.Unregister(session.ID)
		h.logger.Debug().Str("session_id", session.ID).Msg("SSE session closed")
	}()

	fmt.Fprintf(w, "event: endpoint\ndata: %s?sessionId=%s\n\n", h.messagePath, session.ID)
	flusher.Flush()

	h.logger.Debug().Str("session_id", session.ID).Str("remote", r.RemoteAddr).Msg("SSE session opened")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	done := r.Context().Done()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			io.WriteString(w, ": keep-alive\n\n")
			flusher.Flush()
		case data := <-session.Events():
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// MessageHandler serves the companion message-post endpoint for the legacy
// path. Posted JSON-RPC messages are dispatched to the shared MCP server and
// the response is delivered over the matching SSE stream.
type MessageHandler struct {
	mcpServer *mcpserver.MCPServer
	sessions  *SessionRegistry
	logger    *common.Logger
}

// NewMessageHandler creates the message-post handler.
func NewMessageHandler(mcpServer *mcpserver.MCPServer, sessions *SessionRegistry, logger *common.Logger) *MessageHandler {
	return &MessageHandler{
		mcpServer: mcpServer,
		sessions:  sessions,
		logger:    logger,
	}
}

func (h *MessageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeJSONError(w, http.StatusBadRequest, "sessionId query parameter is required")
		return
	}

	session, ok := h.sessions.Lookup(sessionID)
	if !ok {
		h.logger.Warn().Str("session_id", sessionID).Msg("message posted to unknown session")
		writeJSONError(w, http.StatusBadRequest, "unknown sessionId")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageSize))
	if err != nil || len(body) == 0 {
		writeJSONError(w, http.StatusBadRequest, "empty or unreadable message body")
		return
	}

	response := h.mcpServer.HandleMessage(r.Context(), json.RawMessage(body))
	if response != nil {
		data, err := json.Marshal(response)
		if err != nil {
			h.logger.Error().Str("session_id", sessionID).Str("error", err.Error()).Msg("failed to marshal response")
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
		if !session.Send(data) {
			h.logger.Warn().Str("session_id", sessionID).Msg("session event buffer full, dropping response")
		}
	}

	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte("Accepted"))
}

// writeJSONError writes a JSON error body with the given status.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
