package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Streaming MCP endpoint (JSON-RPC over HTTP)
	mux.Handle("/mcp", s.app.MCPHandler)

	// Legacy SSE transport: subscribe plus companion message post
	mux.Handle("/sse", s.app.SSEHandler)
	mux.Handle("/messages", s.app.MessageHandler)

	mux.HandleFunc("/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/version", s.app.VersionHandler.ServeHTTP)

	// JSON 404 for everything else
	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
