package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/knowledge"
)

// CheckChecklistItemTool handles the check_checklist_item MCP tool.
type CheckChecklistItemTool struct {
	lists *knowledge.ChecklistStore
}

// NewCheckChecklistItemTool creates a CheckChecklistItemTool with the
// given checklist store.
func NewCheckChecklistItemTool(lists *knowledge.ChecklistStore) *CheckChecklistItemTool {
	return &CheckChecklistItemTool{lists: lists}
}

// Definition returns the MCP tool definition for registration.
func (t *CheckChecklistItemTool) Definition() mcp.Tool {
	return mcp.NewTool("check_checklist_item",
		mcp.WithDescription(
			"Toggle a checklist item by position. Items are numbered from 1 in "+
				"file order, counting item lines only.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project the checklist belongs to."),
		),
		mcp.WithString("checklist",
			mcp.Required(),
			mcp.Description("Name of the checklist."),
		),
		mcp.WithNumber("item_number",
			mcp.Required(),
			mcp.Description("1-based position of the item to toggle."),
		),
		mcp.WithBoolean("done",
			mcp.Description("Target state: true to check (default), false to uncheck."),
		),
	)
}

// Handle processes the check_checklist_item tool call.
func (t *CheckChecklistItemTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project", "")
	name := req.GetString("checklist", "")
	number := req.GetInt("item_number", 0)
	done := req.GetBool("done", true)

	if strings.TrimSpace(project) == "" {
		return mcp.NewToolResultError("'project' is required"), nil
	}
	if strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("'checklist' is required"), nil
	}
	if number < 1 {
		return mcp.NewToolResultError("'item_number' is required — the 1-based position of the item"), nil
	}

	item, err := t.lists.SetItem(project, name, number, done)
	if err != nil {
		switch {
		case errors.Is(err, knowledge.ErrChecklistNotFound):
			return noChecklist(project, name), nil
		case errors.Is(err, knowledge.ErrItemOutOfRange):
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("toggling checklist item: %w", err)
	}

	mark := "✅"
	verb := "checked"
	if !done {
		mark = "⬜"
		verb = "unchecked"
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"%s Item %d %s: %s", mark, number, verb, item.Text,
	)), nil
}
