package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/knowledge"
)

// GetChecklistTool handles the get_checklist MCP tool.
type GetChecklistTool struct {
	lists *knowledge.ChecklistStore
}

// NewGetChecklistTool creates a GetChecklistTool with the given
// checklist store.
func NewGetChecklistTool(lists *knowledge.ChecklistStore) *GetChecklistTool {
	return &GetChecklistTool{lists: lists}
}

// Definition returns the MCP tool definition for registration.
func (t *GetChecklistTool) Definition() mcp.Tool {
	return mcp.NewTool("get_checklist",
		mcp.WithDescription("Show a checklist with its progress."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project the checklist belongs to."),
		),
		mcp.WithString("checklist",
			mcp.Required(),
			mcp.Description("Name of the checklist."),
		),
	)
}

// Handle processes the get_checklist tool call.
func (t *GetChecklistTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project", "")
	name := req.GetString("checklist", "")
	if strings.TrimSpace(project) == "" {
		return mcp.NewToolResultError("'project' is required"), nil
	}
	if strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("'checklist' is required"), nil
	}

	content, items, err := t.lists.Get(project, name)
	if err != nil {
		if errors.Is(err, knowledge.ErrChecklistNotFound) {
			return noChecklist(project, name), nil
		}
		return nil, fmt.Errorf("reading checklist: %w", err)
	}

	done := 0
	for _, item := range items {
		if item.Done {
			done++
		}
	}

	progress := "no items yet"
	if len(items) > 0 {
		progress = fmt.Sprintf("%d/%d done (%d%%)", done, len(items), done*100/len(items))
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"%s\n\n---\nProgress: %s", strings.TrimRight(content, "\n"), progress,
	)), nil
}
