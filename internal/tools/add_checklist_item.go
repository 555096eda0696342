package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/knowledge"
)

// AddChecklistItemTool handles the add_checklist_item MCP tool.
type AddChecklistItemTool struct {
	lists *knowledge.ChecklistStore
}

// NewAddChecklistItemTool creates an AddChecklistItemTool with the given
// checklist store.
func NewAddChecklistItemTool(lists *knowledge.ChecklistStore) *AddChecklistItemTool {
	return &AddChecklistItemTool{lists: lists}
}

// Definition returns the MCP tool definition for registration.
func (t *AddChecklistItemTool) Definition() mcp.Tool {
	return mcp.NewTool("add_checklist_item",
		mcp.WithDescription("Append one unchecked item to an existing checklist."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project the checklist belongs to."),
		),
		mcp.WithString("checklist",
			mcp.Required(),
			mcp.Description("Name of the checklist to extend."),
		),
		mcp.WithString("item",
			mcp.Required(),
			mcp.Description("Text of the new item."),
		),
	)
}

// Handle processes the add_checklist_item tool call.
func (t *AddChecklistItemTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project", "")
	name := req.GetString("checklist", "")
	item := req.GetString("item", "")

	if strings.TrimSpace(project) == "" {
		return mcp.NewToolResultError("'project' is required"), nil
	}
	if strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("'checklist' is required — the checklist to extend"), nil
	}
	if strings.TrimSpace(item) == "" {
		return mcp.NewToolResultError("'item' is required — the text of the new item"), nil
	}

	if err := t.lists.AddItem(project, name, item); err != nil {
		if errors.Is(err, knowledge.ErrChecklistNotFound) {
			return noChecklist(project, name), nil
		}
		return nil, fmt.Errorf("adding checklist item: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Added to `%s`: - [ ] %s", name, item,
	)), nil
}
