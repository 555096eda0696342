package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/branchnote"
)

// GenerateCommitMessageTool handles the generate_commit_message MCP tool.
// It drafts a commit message from the uncommitted entries of a note.
type GenerateCommitMessageTool struct {
	notes branchnote.Store
}

// NewGenerateCommitMessageTool creates a GenerateCommitMessageTool with
// the given note store.
func NewGenerateCommitMessageTool(notes branchnote.Store) *GenerateCommitMessageTool {
	return &GenerateCommitMessageTool{notes: notes}
}

// subjectLimit caps the draft subject line, git convention.
const subjectLimit = 72

// Definition returns the MCP tool definition for registration.
func (t *GenerateCommitMessageTool) Definition() mcp.Tool {
	return mcp.NewTool("generate_commit_message",
		mcp.WithDescription(
			"Draft a commit message from the uncommitted entries of a branch note. "+
				"Style 'concise' uses the most recent entry as the subject; 'detailed' "+
				"adds one bullet per uncommitted entry. The draft is a starting point, not a decision.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project the branch belongs to."),
		),
		mcp.WithString("branch",
			mcp.Required(),
			mcp.Description("Git branch about to be committed."),
		),
		mcp.WithString("style",
			mcp.Description("Message shape: 'concise' (default, subject only) or 'detailed' (subject + body bullets)."),
			mcp.Enum("concise", "detailed"),
		),
	)
}

// Handle processes the generate_commit_message tool call.
func (t *GenerateCommitMessageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := noteIdentity(req)
	if bad != nil {
		return bad, nil
	}
	style := req.GetString("style", "concise")
	if style != "concise" && style != "detailed" {
		return mcp.NewToolResultError(fmt.Sprintf("invalid style %q (valid: concise, detailed)", style)), nil
	}

	text, err := t.notes.Read(id)
	if err != nil {
		if errors.Is(err, branchnote.ErrNoteNotFound) {
			return noNoteYet(id), nil
		}
		return nil, fmt.Errorf("reading note: %w", err)
	}

	entries := branchnote.Entries(branchnote.UncommittedSuffix(branchnote.ParseSections(text)))
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Nothing uncommitted on `%s` — add entries with `update_branch_note` first.", id,
		)), nil
	}

	newest := entries[len(entries)-1]
	subject := subjectLine(newest.Message())

	var b strings.Builder
	fmt.Fprintf(&b, "# Draft from %d uncommitted entr%s on %s. Edit before committing.\n\n", len(entries), pluralYIes(len(entries)), id)
	b.WriteString(subject)
	b.WriteString("\n")

	if style == "detailed" && len(entries) > 1 {
		b.WriteString("\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "- %s\n", subjectLine(e.Message()))
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

// subjectLine reduces an entry message to a single subject-sized line.
func subjectLine(message string) string {
	line := message
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(strings.TrimLeft(line, "#- "))
	runes := []rune(line)
	if len(runes) > subjectLimit {
		line = strings.TrimSpace(string(runes[:subjectLimit-1])) + "…"
	}
	return line
}
