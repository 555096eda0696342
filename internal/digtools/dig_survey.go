package digtools

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/archaeology"
	"github.com/troweldev/trowel/internal/branchnote"
	"github.com/troweldev/trowel/internal/knowledge"
)

// DigSurveyTool handles the dig_survey MCP tool.
// It inventories the store and scores every knowledge document.
type DigSurveyTool struct {
	notes    branchnote.Store
	docs     *knowledge.DocStore
	contexts *knowledge.ContextStore
	lists    *knowledge.ChecklistStore
}

// NewDigSurveyTool creates a DigSurveyTool over the four stores.
func NewDigSurveyTool(
	notes branchnote.Store,
	docs *knowledge.DocStore,
	contexts *knowledge.ContextStore,
	lists *knowledge.ChecklistStore,
) *DigSurveyTool {
	return &DigSurveyTool{notes: notes, docs: docs, contexts: contexts, lists: lists}
}

// Definition returns the MCP tool definition for registration.
func (t *DigSurveyTool) Definition() mcp.Tool {
	return mcp.NewTool("dig_survey",
		mcp.WithDescription(
			"Site survey of the knowledge store: artifact counts, heuristic "+
				"document scores (completeness, complexity, readiness), the weakest "+
				"docs, and related-document pairs at full detail.",
		),
		mcp.WithString("project",
			mcp.Description("Limit per-project artifacts to one project. Omit for all."),
		),
		mcp.WithString("detail_level",
			mcp.Description("Report verbosity (default standard)."),
			mcp.Enum(archaeology.DetailLevelValues()...),
		),
	)
}

// Handle processes the dig_survey tool call.
func (t *DigSurveyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := req.GetString("project", "")
	level := req.GetString("detail_level", "")

	counts, err := t.countArtifacts(project)
	if err != nil {
		return nil, err
	}

	docs, err := t.loadSurveyDocs()
	if err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(
		archaeology.RenderSurvey(branchnote.Sanitize(project), counts, docs, level),
	), nil
}

// countArtifacts tallies the store inventory. Knowledge documents are
// project-less and always counted whole.
func (t *DigSurveyTool) countArtifacts(project string) (archaeology.SurveyCounts, error) {
	var counts archaeology.SurveyCounts

	noteInfos, err := t.notes.List(project)
	if err != nil {
		return counts, fmt.Errorf("listing branch notes: %w", err)
	}
	counts.BranchNotes = len(noteInfos)

	counts.Knowledge, err = t.docs.Count()
	if err != nil {
		return counts, fmt.Errorf("counting knowledge documents: %w", err)
	}

	counts.Contexts, err = countPerProject(project, t.contexts.Projects, func(p string) (int, error) {
		infos, err := t.contexts.List(p)
		return len(infos), err
	})
	if err != nil {
		return counts, fmt.Errorf("counting context files: %w", err)
	}

	counts.Checklists, err = countPerProject(project, t.lists.Projects, func(p string) (int, error) {
		infos, err := t.lists.List(p)
		return len(infos), err
	})
	if err != nil {
		return counts, fmt.Errorf("counting checklists: %w", err)
	}

	return counts, nil
}

// countPerProject counts one per-project store, either for a single
// project or summed across every project it knows.
func countPerProject(project string, projects func() ([]string, error), count func(string) (int, error)) (int, error) {
	if project != "" {
		return count(project)
	}

	all, err := projects()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, p := range all {
		n, err := count(p)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// loadSurveyDocs reads every knowledge document's text for scoring.
// Unreadable files score nothing but do not sink the survey.
func (t *DigSurveyTool) loadSurveyDocs() ([]archaeology.SurveyDoc, error) {
	docs, err := t.docs.List("")
	if err != nil {
		return nil, fmt.Errorf("listing knowledge documents: %w", err)
	}

	out := make([]archaeology.SurveyDoc, 0, len(docs))
	for _, d := range docs {
		data, err := os.ReadFile(d.Path)
		if err != nil {
			slog.Warn("skipping unreadable document during survey", "slug", d.Slug, "error", err)
			continue
		}
		out = append(out, archaeology.SurveyDoc{
			Slug:     d.Slug,
			Category: string(d.Category),
			Title:    d.Title,
			Tags:     d.Tags,
			Text:     string(data),
		})
	}
	return out, nil
}
