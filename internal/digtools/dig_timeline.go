package digtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/archaeology"
	"github.com/troweldev/trowel/internal/branchnote"
)

// defaultTimelineDays is the lookback window when the caller gives none.
const defaultTimelineDays = 30

// DigTimelineTool handles the dig_timeline MCP tool.
// It merges every branch's entries and commits into one chronological
// view.
type DigTimelineTool struct {
	notes branchnote.Store
}

// NewDigTimelineTool creates a DigTimelineTool with the given note store.
func NewDigTimelineTool(notes branchnote.Store) *DigTimelineTool {
	return &DigTimelineTool{notes: notes}
}

// Definition returns the MCP tool definition for registration.
func (t *DigTimelineTool) Definition() mcp.Tool {
	return mcp.NewTool("dig_timeline",
		mcp.WithDescription(
			"Chronological timeline of work across all branches: every entry and "+
				"commit, day by day. Answers 'what happened here recently?'.",
		),
		mcp.WithString("project",
			mcp.Description("Limit to one project. Omit for all projects."),
		),
		mcp.WithNumber("days",
			mcp.Description("Lookback window in days (default 30)."),
		),
		mcp.WithString("detail_level",
			mcp.Description("Report verbosity (default standard)."),
			mcp.Enum(archaeology.DetailLevelValues()...),
		),
	)
}

// Handle processes the dig_timeline tool call.
func (t *DigTimelineTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project", "")
	days := req.GetInt("days", defaultTimelineDays)
	level := req.GetString("detail_level", "")

	if days <= 0 {
		days = defaultTimelineDays
	}

	branches, err := loadBranchSections(t.notes, project)
	if err != nil {
		return nil, fmt.Errorf("loading branch notes: %w", err)
	}
	if len(branches) == 0 {
		if project != "" {
			return mcp.NewToolResultText(fmt.Sprintf(
				"No branch notes for project `%s` yet. Nothing to dig.", branchnote.Sanitize(project),
			)), nil
		}
		return mcp.NewToolResultText("No branch notes yet. Nothing to dig."), nil
	}

	since := timeNow().AddDate(0, 0, -days)
	events, skipped := archaeology.CollectEvents(branches, since)

	return mcp.NewToolResultText(
		archaeology.RenderTimeline(branchnote.Sanitize(project), events, skipped, level),
	), nil
}
