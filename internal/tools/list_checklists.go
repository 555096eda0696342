package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/knowledge"
)

// ListChecklistsTool handles the list_checklists MCP tool.
type ListChecklistsTool struct {
	lists *knowledge.ChecklistStore
}

// NewListChecklistsTool creates a ListChecklistsTool with the given
// checklist store.
func NewListChecklistsTool(lists *knowledge.ChecklistStore) *ListChecklistsTool {
	return &ListChecklistsTool{lists: lists}
}

// Definition returns the MCP tool definition for registration.
func (t *ListChecklistsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_checklists",
		mcp.WithDescription("List the checklists of a project with done/total counts."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project whose checklists to list."),
		),
	)
}

// Handle processes the list_checklists tool call.
func (t *ListChecklistsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := primaryString(req, "project")
	if project == "" {
		return mcp.NewToolResultError("'project' is required"), nil
	}

	infos, err := t.lists.List(project)
	if err != nil {
		return nil, fmt.Errorf("listing checklists: %w", err)
	}
	if len(infos) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No checklists for project `%s` yet. Create one with `create_checklist`.", project,
		)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Checklists: %s\n\n", infos[0].Project)
	for _, info := range infos {
		marker := "⬜"
		if info.Total > 0 && info.Done == info.Total {
			marker = "✅"
		}
		fmt.Fprintf(&b, "- %s `%s` — %d/%d done\n", marker, info.Name, info.Done, info.Total)
	}

	return mcp.NewToolResultText(b.String()), nil
}
