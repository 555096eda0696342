package digtools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/pack"
)

// ImportKnowledgeTool handles the import_knowledge MCP tool.
type ImportKnowledgeTool struct {
	root string
}

// NewImportKnowledgeTool creates an ImportKnowledgeTool over the storage
// root.
func NewImportKnowledgeTool(root string) *ImportKnowledgeTool {
	return &ImportKnowledgeTool{root: root}
}

// Definition returns the MCP tool definition for registration.
func (t *ImportKnowledgeTool) Definition() mcp.Tool {
	return mcp.NewTool("import_knowledge",
		mcp.WithDescription(
			"Unpack an export archive into the store. Existing files are kept "+
				"unless overwrite is set. Run reindex_documents afterwards.",
		),
		mcp.WithString("archive_path",
			mcp.Required(),
			mcp.Description("Path to a trowel export ZIP."),
		),
		mcp.WithBoolean("overwrite",
			mcp.Description("Replace files that already exist (default false)."),
		),
	)
}

// Handle processes the import_knowledge tool call.
func (t *ImportKnowledgeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	archivePath := primaryString(req, "archive_path")
	overwrite := req.GetBool("overwrite", false)

	if archivePath == "" {
		return mcp.NewToolResultError("'archive_path' is required — the export ZIP to unpack"), nil
	}

	stats, err := pack.Import(t.root, archivePath, overwrite)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return mcp.NewToolResultError(fmt.Sprintf("no archive at %q", archivePath)), nil
		case errors.Is(err, pack.ErrNotAnExport):
			return mcp.NewToolResultError(fmt.Sprintf(
				"%q is not a trowel export: %v", archivePath, err,
			)), nil
		}
		return nil, fmt.Errorf("importing archive: %w", err)
	}

	skippedNote := ""
	if stats.Skipped > 0 {
		skippedNote = " Re-run with `overwrite: true` to replace them."
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"📥 Import complete.\n\nImported: %d\nSkipped (already present): %d.%s\n\nRun `reindex_documents` to pick the new files up in search.",
		stats.Imported, stats.Skipped, skippedNote,
	)), nil
}
