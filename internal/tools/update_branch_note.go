package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/branchnote"
)

// UpdateBranchNoteTool handles the update_branch_note MCP tool.
// It appends one timestamped entry to a branch note, creating the note
// file on first use.
type UpdateBranchNoteTool struct {
	notes branchnote.Store
}

// NewUpdateBranchNoteTool creates an UpdateBranchNoteTool with the given
// note store.
func NewUpdateBranchNoteTool(notes branchnote.Store) *UpdateBranchNoteTool {
	return &UpdateBranchNoteTool{notes: notes}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateBranchNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("update_branch_note",
		mcp.WithDescription(
			"Append a timestamped entry to the branch note for (project, branch). "+
				"The note file is created on first use. Use this as a running work log: "+
				"one entry per meaningful step, in your own words.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project the branch belongs to (e.g. the repo name)."),
		),
		mcp.WithString("branch",
			mcp.Required(),
			mcp.Description("Git branch being worked on (e.g. 'feature/login-retry')."),
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("What was just done, decided, or discovered. Free text; markdown welcome."),
		),
	)
}

// Handle processes the update_branch_note tool call.
func (t *UpdateBranchNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := noteIdentity(req)
	if bad != nil {
		return bad, nil
	}
	message := req.GetString("message", "")
	if strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("'message' is required — describe the work in a sentence or two"), nil
	}

	ts, err := t.notes.AppendEntry(id, message)
	if err != nil {
		return nil, fmt.Errorf("appending entry: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"✏️ Entry added to `%s` at %s.\n\nNote file: `%s`",
		id, ts, t.notes.Path(id),
	)), nil
}
