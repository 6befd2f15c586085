package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Papin-Network/MCP-Papin-Network-Server/internal/common"
	"github.com/Papin-Network/MCP-Papin-Network-Server/internal/config"
	"github.com/Papin-Network/MCP-Papin-Network-Server/internal/kanka"
)

// Handler is the HTTP handler for the streaming MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it; each inbound
// request gets a fresh stateless exchange.
type Handler struct {
	mcpServer  *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
	tools      []ToolDef
}

// NewHandler creates the MCP handler with the fixed Kanka tool set registered.
func NewHandler(cfg *config.Config, logger *common.Logger) *Handler {
	mcpSrv := mcpserver.NewMCPServer(
		"papin-mcp",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	client := kanka.NewClient(cfg, logger)
	registry := NewRegistry(client, cfg, logger)
	toolCount := registry.RegisterAll(mcpSrv)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", toolCount).
		Str("kanka_url", cfg.Kanka.BaseURL).
		Msg("MCP handler initialized")

	return &Handler{
		mcpServer:  mcpSrv,
		streamable: streamable,
		logger:     logger,
		tools:      Tools(),
	}
}

// MCPServer returns the underlying MCP server. The legacy SSE transport
// dispatches posted messages to it directly.
func (h *Handler) MCPServer() *mcpserver.MCPServer {
	return h.mcpServer
}

// Tools returns a copy of the registered tool definitions.
func (h *Handler) Tools() []ToolDef {
	result := make([]ToolDef, len(h.tools))
	copy(result, h.tools)
	return result
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
