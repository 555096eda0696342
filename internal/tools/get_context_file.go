package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/knowledge"
)

// GetContextFileTool handles the get_context_file MCP tool.
type GetContextFileTool struct {
	contexts *knowledge.ContextStore
}

// NewGetContextFileTool creates a GetContextFileTool with the given
// context store.
func NewGetContextFileTool(contexts *knowledge.ContextStore) *GetContextFileTool {
	return &GetContextFileTool{contexts: contexts}
}

// Definition returns the MCP tool definition for registration.
func (t *GetContextFileTool) Definition() mcp.Tool {
	return mcp.NewTool("get_context_file",
		mcp.WithDescription("Read a per-project context file back."),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project the context belongs to."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the context file (without extension)."),
		),
	)
}

// Handle processes the get_context_file tool call.
func (t *GetContextFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project", "")
	name := req.GetString("name", "")
	if strings.TrimSpace(project) == "" {
		return mcp.NewToolResultError("'project' is required"), nil
	}
	if strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	content, err := t.contexts.Get(project, name)
	if err != nil {
		if errors.Is(err, knowledge.ErrContextNotFound) {
			return mcp.NewToolResultText(fmt.Sprintf(
				"No context file `%s` for project `%s`. See what exists with `list_context_files`.",
				name, project,
			)), nil
		}
		return nil, fmt.Errorf("reading context file: %w", err)
	}

	return mcp.NewToolResultText(content), nil
}
