package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/knowledge"
	"github.com/troweldev/trowel/internal/templates"
)

// CreateChecklistTool handles the create_checklist MCP tool.
type CreateChecklistTool struct {
	lists    *knowledge.ChecklistStore
	renderer templates.Renderer
}

// NewCreateChecklistTool creates a CreateChecklistTool with the given
// checklist store and template renderer.
func NewCreateChecklistTool(lists *knowledge.ChecklistStore, renderer templates.Renderer) *CreateChecklistTool {
	return &CreateChecklistTool{lists: lists, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateChecklistTool) Definition() mcp.Tool {
	return mcp.NewTool("create_checklist",
		mcp.WithDescription(
			"Create a named checklist for a project. Items start unchecked; "+
				"toggle them later with check_checklist_item. Creating over an "+
				"existing checklist is refused.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project the checklist belongs to."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Checklist name, e.g. 'release-v2' or 'pr-review'."),
		),
		mcp.WithString("items",
			mcp.Description("Initial items, one per line. Empty lines are skipped."),
		),
	)
}

// Handle processes the create_checklist tool call.
func (t *CreateChecklistTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project", "")
	name := req.GetString("name", "")
	rawItems := req.GetString("items", "")

	if strings.TrimSpace(project) == "" {
		return mcp.NewToolResultError("'project' is required — the project this checklist belongs to"), nil
	}
	if strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("'name' is required — names the checklist"), nil
	}

	var items []string
	for _, line := range strings.Split(rawItems, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, strings.TrimPrefix(line, "- "))
		}
	}

	rendered, err := t.renderer.Render(templates.Checklist, templates.ChecklistData{
		Name:    name,
		Project: project,
		Created: nowStamp(),
		Items:   items,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering checklist: %w", err)
	}

	path, err := t.lists.Create(project, name, rendered)
	if err != nil {
		if errors.Is(err, knowledge.ErrChecklistExists) {
			return mcp.NewToolResultError(fmt.Sprintf(
				"Checklist `%s/%s` already exists. Add to it with `add_checklist_item` or pick another name.",
				project, name,
			)), nil
		}
		return nil, fmt.Errorf("creating checklist: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"☑️ Checklist `%s` created with %d item(s).\n\nFile: `%s`", name, len(items), path,
	)), nil
}
