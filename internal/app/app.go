// Package app wires application components together.
package app

import (
	"github.com/Papin-Network/MCP-Papin-Network-Server/internal/common"
	"github.com/Papin-Network/MCP-Papin-Network-Server/internal/config"
	"github.com/Papin-Network/MCP-Papin-Network-Server/internal/handlers"
	"github.com/Papin-Network/MCP-Papin-Network-Server/internal/mcp"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Sessions *mcp.SessionRegistry

	// HTTP handlers
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	MCPHandler     *mcp.Handler
	SSEHandler     *mcp.SSEHandler
	MessageHandler *mcp.MessageHandler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	a.initHandlers()

	if cfg.Kanka.CampaignID == "" {
		logger.Info().Msg("no default campaign configured, tools require an explicit campaign_id")
	}

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)

	a.MCPHandler = mcp.NewHandler(a.Config, a.Logger)

	a.Sessions = mcp.NewSessionRegistry()
	a.SSEHandler = mcp.NewSSEHandler(a.Sessions, a.Logger, "/messages")
	a.MessageHandler = mcp.NewMessageHandler(a.MCPHandler.MCPServer(), a.Sessions, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
