package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/branchnote"
	"github.com/troweldev/trowel/internal/templates"
)

// GenerateJiraCommentTool handles the generate_jira_comment MCP tool.
// It reformats a note's entries as a Jira wiki-markup comment.
type GenerateJiraCommentTool struct {
	notes    branchnote.Store
	renderer templates.Renderer
}

// NewGenerateJiraCommentTool creates a GenerateJiraCommentTool with the
// given note store and template renderer.
func NewGenerateJiraCommentTool(notes branchnote.Store, renderer templates.Renderer) *GenerateJiraCommentTool {
	return &GenerateJiraCommentTool{notes: notes, renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *GenerateJiraCommentTool) Definition() mcp.Tool {
	return mcp.NewTool("generate_jira_comment",
		mcp.WithDescription(
			"Render every entry of a branch note as a Jira wiki-markup comment, "+
				"ready to paste into a ticket. Commit separators become a count, not lines.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project the branch belongs to."),
		),
		mcp.WithString("branch",
			mcp.Required(),
			mcp.Description("Git branch the ticket tracks."),
		),
	)
}

// Handle processes the generate_jira_comment tool call.
func (t *GenerateJiraCommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := noteIdentity(req)
	if bad != nil {
		return bad, nil
	}

	text, err := t.notes.Read(id)
	if err != nil {
		if errors.Is(err, branchnote.ErrNoteNotFound) {
			return noNoteYet(id), nil
		}
		return nil, fmt.Errorf("reading note: %w", err)
	}

	sections := branchnote.ParseSections(text)
	data := templates.JiraCommentData{
		Project:   id.Project,
		Branch:    id.Branch,
		Generated: branchnote.Now(),
	}
	for _, s := range sections {
		if s.IsCommit() {
			data.CommitCount++
			continue
		}
		data.Entries = append(data.Entries, templates.JiraEntry{
			Time:    strings.TrimSpace(s.Header),
			Message: jiraEscape(s.Message()),
		})
	}

	if len(data.Entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Branch note `%s` has no entries to report.", id,
		)), nil
	}

	comment, err := t.renderer.Render(templates.JiraComment, data)
	if err != nil {
		return nil, fmt.Errorf("rendering jira comment: %w", err)
	}
	return mcp.NewToolResultText(comment), nil
}

// jiraEscape flattens an entry body onto one line. Newlines would break
// the bullet list in wiki markup.
func jiraEscape(message string) string {
	return strings.Join(strings.Fields(message), " ")
}
