package digtools

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/pack"
)

// ExportKnowledgeTool handles the export_knowledge MCP tool.
type ExportKnowledgeTool struct {
	root    string
	version string
}

// NewExportKnowledgeTool creates an ExportKnowledgeTool over the storage
// root. version is recorded in the archive manifest.
func NewExportKnowledgeTool(root, version string) *ExportKnowledgeTool {
	return &ExportKnowledgeTool{root: root, version: version}
}

// Definition returns the MCP tool definition for registration.
func (t *ExportKnowledgeTool) Definition() mcp.Tool {
	return mcp.NewTool("export_knowledge",
		mcp.WithDescription(
			"Pack the store into a ZIP archive for backup or handoff. Project "+
				"scope takes one project's notes, context files, and checklists; "+
				"full scope takes everything including knowledge docs and sessions.",
		),
		mcp.WithString("scope",
			mcp.Description("What to export (default all)."),
			mcp.Enum(pack.ScopeAll, pack.ScopeProject),
		),
		mcp.WithString("project",
			mcp.Description("Project name (required for project scope)."),
		),
		mcp.WithString("output_path",
			mcp.Description("Where to write the archive. Defaults to <root>/exports/."),
		),
	)
}

// Handle processes the export_knowledge tool call.
func (t *ExportKnowledgeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope := req.GetString("scope", pack.ScopeAll)
	project := req.GetString("project", "")
	outPath := req.GetString("output_path", "")

	if scope != pack.ScopeAll && scope != pack.ScopeProject {
		return mcp.NewToolResultError(fmt.Sprintf(
			"invalid scope %q: must be %q or %q", scope, pack.ScopeAll, pack.ScopeProject,
		)), nil
	}
	if scope == pack.ScopeProject && project == "" {
		return mcp.NewToolResultError("'project' is required for a project-scoped export"), nil
	}
	if outPath == "" {
		outPath = filepath.Join(t.root, "exports",
			fmt.Sprintf("trowel_export_%s.zip", timeNow().Format("20060102_150405")))
	}

	manifest, err := pack.Export(t.root, outPath, pack.ExportOptions{
		Scope:   scope,
		Project: project,
		Version: t.version,
	})
	if err != nil {
		return nil, fmt.Errorf("exporting store: %w", err)
	}
	if manifest.Files == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Nothing to export (%s scope). The archive at `%s` holds only its manifest.", scope, outPath,
		)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"📦 Exported %d file(s) (%s scope).\n\nArchive: `%s`\nManifest ID: `%s`",
		manifest.Files, scope, outPath, manifest.ID,
	)), nil
}
