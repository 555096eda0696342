package digtools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/archaeology"
	"github.com/troweldev/trowel/internal/branchnote"
)

// DigNarrativeTool handles the dig_narrative MCP tool.
// It retells a branch's note as a story: chapters per commit, loose
// ends for the uncommitted tail.
type DigNarrativeTool struct {
	notes branchnote.Store
}

// NewDigNarrativeTool creates a DigNarrativeTool with the given note
// store.
func NewDigNarrativeTool(notes branchnote.Store) *DigNarrativeTool {
	return &DigNarrativeTool{notes: notes}
}

// Definition returns the MCP tool definition for registration.
func (t *DigNarrativeTool) Definition() mcp.Tool {
	return mcp.NewTool("dig_narrative",
		mcp.WithDescription(
			"Story-form report of a project's branch notes: how each branch began, "+
				"what each commit sealed, and what is still loose.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project to narrate."),
		),
		mcp.WithString("branch",
			mcp.Description("One branch only. Omit for every branch of the project."),
		),
	)
}

// Handle processes the dig_narrative tool call.
func (t *DigNarrativeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := primaryString(req, "project")
	branch := req.GetString("branch", "")
	if project == "" {
		return mcp.NewToolResultError("'project' is required — the project to narrate"), nil
	}

	if branch != "" {
		id := branchnote.NewIdentity(project, branch)
		text, err := t.notes.Read(id)
		if err != nil {
			if errors.Is(err, branchnote.ErrNoteNotFound) {
				return mcp.NewToolResultText(fmt.Sprintf(
					"No branch note yet for `%s`. Start one with `update_branch_note`.", id,
				)), nil
			}
			return nil, fmt.Errorf("reading branch note: %w", err)
		}
		return mcp.NewToolResultText(
			archaeology.RenderNarrative(id.Project, id.Branch, branchnote.ParseSections(text)),
		), nil
	}

	infos, err := t.notes.List(project)
	if err != nil {
		return nil, fmt.Errorf("listing branch notes: %w", err)
	}
	if len(infos) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No branch notes for project `%s` yet. Start one with `update_branch_note`.",
			branchnote.Sanitize(project),
		)), nil
	}

	var parts []string
	for _, info := range infos {
		text, err := t.notes.Read(branchnote.Identity{Project: info.Project, Branch: info.Branch})
		if err != nil {
			return nil, fmt.Errorf("reading branch note: %w", err)
		}
		parts = append(parts,
			archaeology.RenderNarrative(info.Project, info.Branch, branchnote.ParseSections(text)))
	}

	return mcp.NewToolResultText(strings.Join(parts, "\n\n---\n\n")), nil
}
