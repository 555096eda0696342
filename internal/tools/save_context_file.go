package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/knowledge"
	"github.com/troweldev/trowel/internal/templates"
)

// SaveContextFileTool handles the save_context_file MCP tool.
// Context files hold per-project background (architecture sketches,
// environment quirks, onboarding notes) that outlives any branch.
type SaveContextFileTool struct {
	contexts *knowledge.ContextStore
	renderer templates.Renderer
}

// NewSaveContextFileTool creates a SaveContextFileTool with the given
// context store and template renderer.
func NewSaveContextFileTool(contexts *knowledge.ContextStore, renderer templates.Renderer) *SaveContextFileTool {
	return &SaveContextFileTool{contexts: contexts, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *SaveContextFileTool) Definition() mcp.Tool {
	return mcp.NewTool("save_context_file",
		mcp.WithDescription(
			"Save a per-project context file: stable background a future session "+
				"should read before touching the project. Saving an existing name "+
				"replaces the file.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project the context belongs to."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("File name without extension, e.g. 'architecture' or 'deploy-runbook'."),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The context body, markdown."),
		),
	)
}

// Handle processes the save_context_file tool call.
func (t *SaveContextFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project", "")
	name := req.GetString("name", "")
	content := req.GetString("content", "")

	if strings.TrimSpace(project) == "" {
		return mcp.NewToolResultError("'project' is required — the project this context belongs to"), nil
	}
	if strings.TrimSpace(name) == "" {
		return mcp.NewToolResultError("'name' is required — names the context file"), nil
	}
	if strings.TrimSpace(content) == "" {
		return mcp.NewToolResultError("'content' is required — the context body"), nil
	}

	rendered, err := t.renderer.Render(templates.ContextFile, templates.ContextFileData{
		Name:    name,
		Project: project,
		Updated: nowStamp(),
		Content: content,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering context file: %w", err)
	}

	path, err := t.contexts.Save(project, name, rendered)
	if err != nil {
		return nil, fmt.Errorf("saving context file: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"📄 Context file saved: `%s`", path,
	)), nil
}
