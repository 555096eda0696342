package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/branchnote"
)

// AddCommitSeparatorTool handles the add_commit_separator MCP tool.
// It seals the uncommitted entries of a note under a commit marker.
type AddCommitSeparatorTool struct {
	notes branchnote.Store
}

// NewAddCommitSeparatorTool creates an AddCommitSeparatorTool with the
// given note store.
func NewAddCommitSeparatorTool(notes branchnote.Store) *AddCommitSeparatorTool {
	return &AddCommitSeparatorTool{notes: notes}
}

// Definition returns the MCP tool definition for registration.
func (t *AddCommitSeparatorTool) Definition() mcp.Tool {
	return mcp.NewTool("add_commit_separator",
		mcp.WithDescription(
			"Record a commit in the branch note. Everything above the separator "+
				"becomes committed history; new entries start the next uncommitted era. "+
				"Call this right after 'git commit'. Fails informatively if no note exists yet.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project the branch belongs to."),
		),
		mcp.WithString("branch",
			mcp.Required(),
			mcp.Description("Git branch the commit landed on."),
		),
		mcp.WithString("commit_hash",
			mcp.Required(),
			mcp.Description("Full commit hash. The first 8 characters are shown in the separator header."),
		),
		mcp.WithString("commit_message",
			mcp.Required(),
			mcp.Description("The commit message, first line is enough."),
		),
	)
}

// Handle processes the add_commit_separator tool call.
func (t *AddCommitSeparatorTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := noteIdentity(req)
	if bad != nil {
		return bad, nil
	}
	hash := req.GetString("commit_hash", "")
	message := req.GetString("commit_message", "")
	if strings.TrimSpace(hash) == "" {
		return mcp.NewToolResultError("'commit_hash' is required — the hash of the commit to record"), nil
	}
	if strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("'commit_message' is required — the message of the commit to record"), nil
	}

	ts, err := t.notes.AppendCommitSeparator(id, hash, message)
	if err != nil {
		if errors.Is(err, branchnote.ErrNoteNotFound) {
			return noNoteYet(id), nil
		}
		return nil, fmt.Errorf("appending commit separator: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"🔖 Commit `%s` recorded on `%s` at %s.\n\nEntries above the separator are now sealed; the next entry starts a fresh uncommitted era.",
		branchnote.ShortHash(hash), id, ts,
	)), nil
}
