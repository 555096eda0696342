package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/branchnote"
)

// ReadBranchNotesTool handles the read_branch_notes MCP tool.
// It returns either the uncommitted suffix of a note or the whole file.
type ReadBranchNotesTool struct {
	notes branchnote.Store
}

// NewReadBranchNotesTool creates a ReadBranchNotesTool with the given
// note store.
func NewReadBranchNotesTool(notes branchnote.Store) *ReadBranchNotesTool {
	return &ReadBranchNotesTool{notes: notes}
}

// Definition returns the MCP tool definition for registration.
func (t *ReadBranchNotesTool) Definition() mcp.Tool {
	return mcp.NewTool("read_branch_notes",
		mcp.WithDescription(
			"Read a branch note. By default only the uncommitted entries (work since "+
				"the last commit separator) are returned; scope 'full' returns the whole note.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project the branch belongs to."),
		),
		mcp.WithString("branch",
			mcp.Required(),
			mcp.Description("Git branch to read."),
		),
		mcp.WithString("scope",
			mcp.Description("What to read: 'uncommitted' (default) or 'full'."),
			mcp.Enum("uncommitted", "full"),
		),
	)
}

// Handle processes the read_branch_notes tool call.
func (t *ReadBranchNotesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := noteIdentity(req)
	if bad != nil {
		return bad, nil
	}
	scope := req.GetString("scope", "uncommitted")
	if scope != "uncommitted" && scope != "full" {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scope %q (valid: uncommitted, full)", scope)), nil
	}

	text, err := t.notes.Read(id)
	if err != nil {
		if errors.Is(err, branchnote.ErrNoteNotFound) {
			return noNoteYet(id), nil
		}
		return nil, fmt.Errorf("reading note: %w", err)
	}

	sections := branchnote.ParseSections(text)
	if len(sections) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Branch note `%s` exists but has no entries yet.", id,
		)), nil
	}

	if scope == "full" {
		return mcp.NewToolResultText(text), nil
	}

	uncommitted := branchnote.UncommittedSuffix(sections)
	if len(uncommitted) == 0 {
		last, _ := branchnote.LastCommit(sections)
		info := last.CommitInfo()
		return mcp.NewToolResultText(fmt.Sprintf(
			"No uncommitted work on `%s` — everything is sealed under commit `%s` (%q).",
			id, info.ShortHash, info.Message,
		)), nil
	}

	body := branchnote.RenderSections(uncommitted)
	return mcp.NewToolResultText(fmt.Sprintf(
		"# Uncommitted work on `%s`\n\n%d entr%s since the last commit:\n\n%s",
		id, len(uncommitted), pluralYIes(len(uncommitted)), body,
	)), nil
}

// pluralYIes returns "y" for one, "ies" otherwise.
func pluralYIes(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
