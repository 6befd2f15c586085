package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Papin-Network/MCP-Papin-Network-Server/internal/common"
	"github.com/Papin-Network/MCP-Papin-Network-Server/internal/config"
	"github.com/Papin-Network/MCP-Papin-Network-Server/internal/kanka"
)

// Page sizes used by the list and search tools. First page only; further
// pages go through raw_get.
const (
	listPageSize   = 100
	searchPageSize = 50
)

// Registry binds the fixed tool definitions to their handlers.
type Registry struct {
	client          *kanka.Client
	defaultCampaign string
	logger          *common.Logger
}

// NewRegistry creates a tool registry backed by the given Kanka client.
func NewRegistry(client *kanka.Client, cfg *config.Config, logger *common.Logger) *Registry {
	return &Registry{
		client:          client,
		defaultCampaign: cfg.Kanka.CampaignID,
		logger:          logger,
	}
}

// RegisterAll registers every tool on the MCP server and returns the count.
func (r *Registry) RegisterAll(s *server.MCPServer) int {
	handlers := map[string]toolFunc{
		"list_campaigns": r.listCampaigns,
		"list_entities":  r.listEntities,
		"get_entity":     r.getEntity,
		"search_by_name": r.searchByName,
		"raw_get":        r.rawGet,
	}

	defs := Tools()
	for _, def := range defs {
		fn, ok := handlers[def.Name]
		if !ok {
			// A definition without a handler is a programming error.
			panic(fmt.Sprintf("no handler for tool %s", def.Name))
		}
		s.AddTool(BuildTool(def), r.wrap(def, fn))
	}
	return len(defs)
}

// toolFunc is a tool implementation invoked after argument validation.
type toolFunc func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error)

// wrap builds a ToolHandlerFunc that validates arguments against the tool's
// parameter descriptors before dispatching. Validation failures never reach
// the upstream API.
func (r *Registry) wrap(def ToolDef, fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		if err := validateArgs(def, args); err != nil {
			r.logger.Debug().Str("tool", def.Name).Str("error", err.Error()).Msg("tool call rejected")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return fn(ctx, args)
	}
}

func (r *Registry) listCampaigns(ctx context.Context, _ map[string]any) (*mcp.CallToolResult, error) {
	return r.fetch(ctx, "/campaigns")
}

func (r *Registry) listEntities(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	campaign, err := r.resolveCampaign(args)
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}
	entity, _ := args["entity"].(string)

	query := url.Values{}
	query.Set("page", "1")
	query.Set("perPage", fmt.Sprint(listPageSize))
	return r.fetch(ctx, entityPath(campaign, entity)+"?"+query.Encode())
}

func (r *Registry) getEntity(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	campaign, err := r.resolveCampaign(args)
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}
	entity, _ := args["entity"].(string)
	id, _ := args["id"].(float64)

	return r.fetch(ctx, fmt.Sprintf("%s/%d", entityPath(campaign, entity), int64(id)))
}

func (r *Registry) searchByName(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	campaign, err := r.resolveCampaign(args)
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}
	entity, _ := args["entity"].(string)
	name, _ := args["name"].(string)

	query := url.Values{}
	query.Set("name", name)
	query.Set("page", "1")
	query.Set("perPage", fmt.Sprint(searchPageSize))
	return r.fetch(ctx, entityPath(campaign, entity)+"?"+query.Encode())
}

func (r *Registry) rawGet(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	path, _ := args["path"].(string)
	if path[0] != '/' {
		path = "/" + path
	}
	return r.fetch(ctx, path)
}

// fetch performs the upstream GET and wraps the JSON body as a text result.
func (r *Registry) fetch(ctx context.Context, path string) (*mcp.CallToolResult, error) {
	body, err := r.client.Get(ctx, path)
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}
	return jsonResult(body)
}

// resolveCampaign resolves the campaign identifier: explicit argument first,
// then the configured default, otherwise an error.
func (r *Registry) resolveCampaign(args map[string]any) (string, error) {
	if id, ok := args["campaign_id"].(string); ok && id != "" {
		return id, nil
	}
	if r.defaultCampaign != "" {
		return r.defaultCampaign, nil
	}
	return "", fmt.Errorf("no campaign_id given and no default campaign configured")
}

// entityPath builds /campaigns/{id}/{entity}. The entity segment is already
// validated against the fixed entity type set.
func entityPath(campaign, entity string) string {
	return "/campaigns/" + url.PathEscape(campaign) + "/" + entity
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// jsonResult pretty-prints the upstream JSON as a single text content block.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(pretty)),
		},
	}, nil
}
