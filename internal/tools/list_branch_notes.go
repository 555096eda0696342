package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/branchnote"
)

// ListBranchNotesTool handles the list_branch_notes MCP tool.
// It summarizes the notes of one project, or of every project.
type ListBranchNotesTool struct {
	notes branchnote.Store
}

// NewListBranchNotesTool creates a ListBranchNotesTool with the given
// note store.
func NewListBranchNotesTool(notes branchnote.Store) *ListBranchNotesTool {
	return &ListBranchNotesTool{notes: notes}
}

// Definition returns the MCP tool definition for registration.
func (t *ListBranchNotesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_branch_notes",
		mcp.WithDescription(
			"List branch notes with entry counts and last activity. "+
				"Scoped to one project when 'project' is given, all projects otherwise.",
		),
		mcp.WithString("project",
			mcp.Description("Project to list. Omit for all projects."),
		),
	)
}

// Handle processes the list_branch_notes tool call.
func (t *ListBranchNotesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project", "")

	infos, err := t.notes.List(project)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	if len(infos) == 0 {
		if project != "" {
			return mcp.NewToolResultText(fmt.Sprintf(
				"No branch notes for project `%s` yet.", branchnote.Sanitize(project),
			)), nil
		}
		return mcp.NewToolResultText("No branch notes yet. Start one with `update_branch_note`."), nil
	}

	scope := "All Projects"
	if project != "" {
		scope = branchnote.Sanitize(project)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Branch Notes: %s\n\n", scope)
	b.WriteString("| Project | Branch | Entries | Commits | Last Activity |\n")
	b.WriteString("|---------|--------|---------|---------|---------------|\n")
	for _, info := range infos {
		last := info.LastTimestamp
		if last == "" {
			last = "—"
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %s |\n",
			info.Project, info.Branch, info.Entries, info.Commits, last)
	}

	return mcp.NewToolResultText(b.String()), nil
}
