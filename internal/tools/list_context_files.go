package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/knowledge"
)

// ListContextFilesTool handles the list_context_files MCP tool.
type ListContextFilesTool struct {
	contexts *knowledge.ContextStore
}

// NewListContextFilesTool creates a ListContextFilesTool with the given
// context store.
func NewListContextFilesTool(contexts *knowledge.ContextStore) *ListContextFilesTool {
	return &ListContextFilesTool{contexts: contexts}
}

// Definition returns the MCP tool definition for registration.
func (t *ListContextFilesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_context_files",
		mcp.WithDescription("List the context files of a project with sizes and modification times."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project whose context files to list."),
		),
	)
}

// Handle processes the list_context_files tool call.
func (t *ListContextFilesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := primaryString(req, "project")
	if project == "" {
		return mcp.NewToolResultError("'project' is required"), nil
	}

	infos, err := t.contexts.List(project)
	if err != nil {
		return nil, fmt.Errorf("listing context files: %w", err)
	}
	if len(infos) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No context files for project `%s` yet. Save one with `save_context_file`.", project,
		)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Context Files: %s\n\n", infos[0].Project)
	b.WriteString("| Name | Size | Updated |\n")
	b.WriteString("|------|------|--------|\n")
	for _, info := range infos {
		fmt.Fprintf(&b, "| `%s` | %d B | %s |\n",
			info.Name, info.Size, info.UpdatedAt.Format("2006-01-02 15:04"))
	}

	return mcp.NewToolResultText(b.String()), nil
}
