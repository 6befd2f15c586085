package handlers

import (
	"net/http"

	"github.com/Papin-Network/MCP-Papin-Network-Server/internal/common"
	"github.com/Papin-Network/MCP-Papin-Network-Server/internal/config"
)

// VersionHandler reports build version information.
type VersionHandler struct {
	logger *common.Logger
}

// NewVersionHandler creates a new version handler.
func NewVersionHandler(logger *common.Logger) *VersionHandler {
	return &VersionHandler{logger: logger}
}

// ServeHTTP handles GET /version.
func (h *VersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": config.GetVersion(),
		"build":   config.Build,
		"commit":  config.GitCommit,
	})
}
