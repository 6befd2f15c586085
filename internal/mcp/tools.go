package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToolParam describes one parameter of a tool.
type ToolParam struct {
	Name        string
	Type        string // string, number
	Description string
	Required    bool
	Enum        []string
}

// ToolDef describes one tool exposed by the server. Definitions are fixed at
// startup and immutable once registered.
type ToolDef struct {
	Name        string
	Title       string
	Description string
	Params      []ToolParam
}

// entityTypes is the fixed set of Kanka entity type names accepted by the
// entity parameter. The names double as URL path segments.
var entityTypes = []string{
	"characters",
	"locations",
	"families",
	"organisations",
	"items",
	"notes",
	"events",
	"calendars",
	"races",
	"creatures",
	"quests",
	"journals",
	"tags",
	"abilities",
	"maps",
	"timelines",
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var campaignParam = ToolParam{
	Name:        "campaign_id",
	Type:        "string",
	Description: "Campaign identifier. Falls back to the configured default campaign when omitted.",
}

var entityParam = ToolParam{
	Name:        "entity",
	Type:        "string",
	Description: "Entity type, e.g. characters or locations.",
	Required:    true,
	Enum:        entityTypes,
}

// Tools returns the fixed tool definitions exposed by this server.
func Tools() []ToolDef {
	return []ToolDef{
		{
			Name:        "list_campaigns",
			Title:       "List campaigns",
			Description: "List all campaigns the configured token has access to.",
		},
		{
			Name:        "list_entities",
			Title:       "List entities",
			Description: "List entities of one type in a campaign (first page, 100 per page).",
			Params:      []ToolParam{campaignParam, entityParam},
		},
		{
			Name:        "get_entity",
			Title:       "Get entity",
			Description: "Fetch a single entity by its numeric id.",
			Params: []ToolParam{campaignParam, entityParam, {
				Name:        "id",
				Type:        "number",
				Description: "Numeric entity id.",
				Required:    true,
			}},
		},
		{
			Name:        "search_by_name",
			Title:       "Search entities by name",
			Description: "List entities of one type whose name contains the given text (first page, 50 per page).",
			Params: []ToolParam{campaignParam, entityParam, {
				Name:        "name",
				Type:        "string",
				Description: "Name text to filter by.",
				Required:    true,
			}},
		},
		{
			Name:        "raw_get",
			Title:       "Raw GET",
			Description: "Perform a GET against an arbitrary Kanka API path, for operations not covered by the other tools.",
			Params: []ToolParam{{
				Name:        "path",
				Type:        "string",
				Description: "Full API path including any query string, e.g. /campaigns/123/characters?page=2.",
				Required:    true,
			}},
		},
	}
}

// BuildTool converts a ToolDef into an mcp.Tool with the appropriate schema.
func BuildTool(def ToolDef) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(def.Description),
		mcp.WithTitleAnnotation(def.Title),
	}
	for _, p := range def.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(def.Name, opts...)
}

// buildParamOption maps a ToolParam to the appropriate mcp-go tool option.
func buildParamOption(p ToolParam) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}
	if len(p.Enum) > 0 {
		opts = append(opts, mcp.Enum(p.Enum...))
	}

	switch p.Type {
	case "number":
		return mcp.WithNumber(p.Name, opts...)
	default:
		return mcp.WithString(p.Name, opts...)
	}
}

// validateArgs checks the request arguments against the tool's parameter
// descriptors. It must reject a call before any upstream request is made.
func validateArgs(def ToolDef, args map[string]any) error {
	for _, p := range def.Params {
		val, ok := args[p.Name]
		if !ok || val == nil {
			if p.Required {
				return fmt.Errorf("%s parameter is required", p.Name)
			}
			continue
		}
		switch p.Type {
		case "number":
			if _, ok := val.(float64); !ok {
				return fmt.Errorf("%s parameter must be a number", p.Name)
			}
		default:
			s, ok := val.(string)
			if !ok {
				return fmt.Errorf("%s parameter must be a string", p.Name)
			}
			if p.Required && s == "" {
				return fmt.Errorf("%s parameter is required", p.Name)
			}
			if len(p.Enum) > 0 && !containsString(p.Enum, s) {
				return fmt.Errorf("%s parameter has unsupported value %q", p.Name, s)
			}
		}
	}
	return nil
}
