package digtools

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/archaeology"
)

// DigGapsTool handles the dig_gaps MCP tool.
// Unlike the other dig tools it reads a source tree, not the store.
type DigGapsTool struct{}

// NewDigGapsTool creates a DigGapsTool.
func NewDigGapsTool() *DigGapsTool {
	return &DigGapsTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *DigGapsTool) Definition() mcp.Tool {
	return mcp.NewTool("dig_gaps",
		mcp.WithDescription(
			"Scan a source tree for documentation gaps: directories that hold "+
				"source files but have no README or markdown doc anywhere on their "+
				"path inside the scanned root.",
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Root directory to scan."),
		),
		mcp.WithString("include",
			mcp.Description("Glob limiting which files count as source, e.g. '**/*.go'."),
		),
		mcp.WithString("exclude",
			mcp.Description("Glob dropping files from the scan, e.g. '**/generated/**'."),
		),
	)
}

// Handle processes the dig_gaps tool call.
func (t *DigGapsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := primaryString(req, "path")
	include := req.GetString("include", "")
	exclude := req.GetString("exclude", "")

	if path == "" {
		return mcp.NewToolResultError("'path' is required — the source tree to scan"), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot scan %q: %v", path, err)), nil
	}
	if !info.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("'path' must be a directory, %q is a file", path)), nil
	}

	report, err := archaeology.ScanGaps(path, include, exclude)
	if err != nil {
		// Bad glob patterns are the only error left here; the walk
		// itself degrades gracefully.
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(archaeology.RenderGaps(report)), nil
}
