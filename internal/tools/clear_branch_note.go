package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/branchnote"
)

// ClearBranchNoteTool handles the clear_branch_note MCP tool.
// Like archive, but the caller chooses whether the reset file keeps its
// header. The archive copy is always made first.
type ClearBranchNoteTool struct {
	notes branchnote.Store
}

// NewClearBranchNoteTool creates a ClearBranchNoteTool with the given
// note store.
func NewClearBranchNoteTool(notes branchnote.Store) *ClearBranchNoteTool {
	return &ClearBranchNoteTool{notes: notes}
}

// Definition returns the MCP tool definition for registration.
func (t *ClearBranchNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("clear_branch_note",
		mcp.WithDescription(
			"Clear a branch note. An archive copy is written first (safety), then the "+
				"live file is truncated — to header-only by default, or fully empty with "+
				"keep_header=false.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project the branch belongs to."),
		),
		mcp.WithString("branch",
			mcp.Required(),
			mcp.Description("Git branch whose note should be cleared."),
		),
		mcp.WithBoolean("keep_header",
			mcp.Description("Keep the '# Branch Note:' header line (default true)."),
		),
	)
}

// Handle processes the clear_branch_note tool call.
func (t *ClearBranchNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := noteIdentity(req)
	if bad != nil {
		return bad, nil
	}
	keepHeader := req.GetBool("keep_header", true)

	archivePath, err := t.notes.Archive(id, keepHeader)
	if err != nil {
		if errors.Is(err, branchnote.ErrNoteNotFound) {
			return noNoteYet(id), nil
		}
		return nil, fmt.Errorf("clearing note: %w", err)
	}

	state := "header-only"
	if !keepHeader {
		state = "empty"
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"🧹 Note `%s` cleared (%s). Safety copy: `%s`",
		id, state, archivePath,
	)), nil
}
