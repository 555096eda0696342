package digtools

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/hats"
	"github.com/troweldev/trowel/internal/index"
	"github.com/troweldev/trowel/internal/knowledge"
	"github.com/troweldev/trowel/internal/templates"
)

// sessions.go holds the plumbing shared by the six_hats and
// synthesize_knowledge tools: both drive a hats.Session and both turn a
// finished session into a knowledge document.

// noActiveSession is the friendly answer when an advance/status/conclude
// finds nothing running.
func noActiveSession(kind hats.Kind) *mcp.CallToolResult {
	return mcp.NewToolResultText(fmt.Sprintf(
		"No active %s session. Start one with `action: start` and a topic.",
		hats.KindLabel(kind),
	))
}

// renderSessionStatus formats a session's progress with the current
// step's guidance.
func renderSessionStatus(s *hats.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s\n\n", hats.KindLabel(s.Kind), s.Topic)
	fmt.Fprintf(&b, "Session `%s`, %s.\n\n", s.Slug, sessionProgress(s))

	for _, step := range s.Steps {
		marker := "·"
		switch step.Status {
		case "completed":
			marker = "✔"
		case "in_progress":
			marker = "▶"
		}
		fmt.Fprintf(&b, "- %s %s\n", marker, step.Name)
	}

	if guide := hats.StepGuide(s.CurrentStep); guide != "" && s.Status == hats.StatusActive {
		fmt.Fprintf(&b, "\n%s\n", guide)
	}
	return b.String()
}

// sessionProgress renders "step N of M" for a session.
func sessionProgress(s *hats.Session) string {
	idx := hats.CurrentStepIndex(s)
	if idx < 0 {
		return "unknown step"
	}
	return fmt.Sprintf("step %d of %d", idx+1, len(s.Steps))
}

// saveSummaryDoc turns a completed session into a process-category
// knowledge document and mirrors it into the index.
func saveSummaryDoc(
	docs *knowledge.DocStore,
	renderer templates.Renderer,
	idx Indexer,
	s *hats.Session,
) (slug, path string, err error) {
	title := hats.SummaryTitle(s)

	rendered, err := renderer.Render(templates.KnowledgeDoc, templates.KnowledgeDocData{
		Title:    title,
		Category: string(knowledge.CategoryProcess),
		Tags:     strings.ReplaceAll(string(s.Kind), "_", "-"),
		Created:  timeNow().Format("2006-01-02 15:04:05"),
		Content:  hats.RenderSummary(s),
	})
	if err != nil {
		return "", "", fmt.Errorf("rendering session summary: %w", err)
	}

	slug = knowledge.Slugify(title)
	path, err = docs.Save(knowledge.CategoryProcess, slug, rendered)
	if err != nil {
		return "", "", fmt.Errorf("saving session summary: %w", err)
	}

	if idx != nil {
		if _, err := idx.Upsert(index.Document{
			Path:  path,
			Kind:  index.KindKnowledge,
			Title: title,
			Body:  rendered,
		}); err != nil {
			// Search lags until the next reindex; the document is safe.
			slog.Warn("indexing session summary failed", "slug", slug, "error", err)
		}
	}
	return slug, path, nil
}
