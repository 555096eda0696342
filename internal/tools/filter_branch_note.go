package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/branchnote"
)

// FilterBranchNoteTool handles the filter_branch_note MCP tool.
// It returns entries selected by commit state or by date window. Commit
// separators never appear in filtered output.
type FilterBranchNoteTool struct {
	notes branchnote.Store
}

// NewFilterBranchNoteTool creates a FilterBranchNoteTool with the given
// note store.
func NewFilterBranchNoteTool(notes branchnote.Store) *FilterBranchNoteTool {
	return &FilterBranchNoteTool{notes: notes}
}

// Definition returns the MCP tool definition for registration.
func (t *FilterBranchNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("filter_branch_note",
		mcp.WithDescription(
			"Filter the entries of a branch note. Mode 'uncommitted' returns work since "+
				"the last commit, 'all' returns every entry, 'date_range' selects entries "+
				"strictly inside (after_date, before_date). Commit separators are excluded.",
		),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project the branch belongs to."),
		),
		mcp.WithString("branch",
			mcp.Required(),
			mcp.Description("Git branch to filter."),
		),
		mcp.WithString("mode",
			mcp.Description("Filter mode: 'uncommitted' (default), 'all', or 'date_range'."),
			mcp.Enum("uncommitted", "all", "date_range"),
		),
		mcp.WithString("after_date",
			mcp.Description("Lower bound, exclusive. 'YYYY-MM-DD' or 'YYYY-MM-DD HH:MM:SS'. Only used by date_range."),
		),
		mcp.WithString("before_date",
			mcp.Description("Upper bound, exclusive. Same formats as after_date."),
		),
	)
}

// Handle processes the filter_branch_note tool call.
func (t *FilterBranchNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := noteIdentity(req)
	if bad != nil {
		return bad, nil
	}
	mode := req.GetString("mode", "uncommitted")

	text, err := t.notes.Read(id)
	if err != nil {
		if errors.Is(err, branchnote.ErrNoteNotFound) {
			return noNoteYet(id), nil
		}
		return nil, fmt.Errorf("reading note: %w", err)
	}
	sections := branchnote.ParseSections(text)

	var entries []branchnote.Section
	var label string
	switch mode {
	case "uncommitted":
		entries = branchnote.Entries(branchnote.UncommittedSuffix(sections))
		label = "uncommitted"
	case "all":
		entries = branchnote.Entries(sections)
		label = "all"
	case "date_range":
		after, parseErr := parseFilterDate(req.GetString("after_date", ""))
		if parseErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid after_date: %v", parseErr)), nil
		}
		before, parseErr := parseFilterDate(req.GetString("before_date", ""))
		if parseErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid before_date: %v", parseErr)), nil
		}
		entries = branchnote.FilterByDate(sections, after, before)
		label = "date-filtered"
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid mode %q (valid: uncommitted, all, date_range)", mode)), nil
	}

	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No %s entries on `%s`.", label, id,
		)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"# Entries on `%s` (%s)\n\n%d entr%s:\n\n%s",
		id, label, len(entries), pluralYIes(len(entries)), branchnote.RenderSections(entries),
	)), nil
}

// parseFilterDate accepts a date or a full timestamp; empty means open.
func parseFilterDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if ts, err := time.ParseInLocation(branchnote.TimestampLayout, s, time.Local); err == nil {
		return ts, nil
	}
	ts, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not 'YYYY-MM-DD' or 'YYYY-MM-DD HH:MM:SS'", s)
	}
	return ts, nil
}
