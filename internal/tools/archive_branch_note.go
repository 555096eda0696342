package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/branchnote"
)

// ArchiveBranchNoteTool handles the archive_branch_note MCP tool.
// It copies a note to a dated archive and resets the live file to its
// header.
type ArchiveBranchNoteTool struct {
	notes branchnote.Store
}

// NewArchiveBranchNoteTool creates an ArchiveBranchNoteTool with the
// given note store.
func NewArchiveBranchNoteTool(notes branchnote.Store) *ArchiveBranchNoteTool {
	return &ArchiveBranchNoteTool{notes: notes}
}

// Definition returns the MCP tool definition for registration.
func (t *ArchiveBranchNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("archive_branch_note",
		mcp.WithDescription(
			"Archive a branch note: copy it to a dated file under the project's "+
				"archives/ directory and reset the live note to its header. Use when a "+
				"branch is merged or abandoned. Nothing is ever deleted.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project the branch belongs to."),
		),
		mcp.WithString("branch",
			mcp.Required(),
			mcp.Description("Git branch whose note should be archived."),
		),
	)
}

// Handle processes the archive_branch_note tool call.
func (t *ArchiveBranchNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := noteIdentity(req)
	if bad != nil {
		return bad, nil
	}

	archivePath, err := t.notes.Archive(id, true)
	if err != nil {
		if errors.Is(err, branchnote.ErrNoteNotFound) {
			return noNoteYet(id), nil
		}
		return nil, fmt.Errorf("archiving note: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"📦 Note `%s` archived.\n\nArchive: `%s`\nThe live note is reset to its header and ready for new entries.",
		id, archivePath,
	)), nil
}
