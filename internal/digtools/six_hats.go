package digtools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/hats"
	"github.com/troweldev/trowel/internal/knowledge"
	"github.com/troweldev/trowel/internal/templates"
)

// SixHatsTool handles the six_hats MCP tool: a guided Six Thinking Hats
// walkthrough persisted between calls.
type SixHatsTool struct {
	sessions hats.Store
	docs     *knowledge.DocStore
	renderer templates.Renderer
	idx      Indexer
}

// NewSixHatsTool creates a SixHatsTool. idx may be nil when the index is
// degraded.
func NewSixHatsTool(sessions hats.Store, docs *knowledge.DocStore, renderer templates.Renderer, idx Indexer) *SixHatsTool {
	return &SixHatsTool{sessions: sessions, docs: docs, renderer: renderer, idx: idx}
}

// Definition returns the MCP tool definition for registration.
func (t *SixHatsTool) Definition() mcp.Tool {
	return mcp.NewTool("six_hats",
		mcp.WithDescription(
			"Walk a decision through the Six Thinking Hats, one hat per call. "+
				"start a session with a topic, advance with notes for the current "+
				"hat, check status any time, and conclude on the final hat to save "+
				"the summary as a knowledge document.",
		),
		mcp.WithString("action",
			mcp.Description("What to do (default status)."),
			mcp.Enum("start", "advance", "status", "conclude"),
		),
		mcp.WithString("topic",
			mcp.Description("The decision or question (required for start)."),
		),
		mcp.WithString("notes",
			mcp.Description("Notes for the current hat (used by advance and conclude)."),
		),
	)
}

// Handle processes the six_hats tool call.
func (t *SixHatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action := req.GetString("action", "status")
	topic := req.GetString("topic", "")
	notes := req.GetString("notes", "")

	switch action {
	case "start":
		return t.start(topic)
	case "advance":
		return t.advance(notes)
	case "status":
		return t.status()
	case "conclude":
		return t.conclude(notes)
	default:
		return mcp.NewToolResultError(fmt.Sprintf(
			"invalid action %q: must be one of: start, advance, status, conclude", action,
		)), nil
	}
}

func (t *SixHatsTool) start(topic string) (*mcp.CallToolResult, error) {
	if topic == "" {
		return mcp.NewToolResultError("'topic' is required to start a session — the decision to think through"), nil
	}

	s, err := hats.NewSession(hats.KindSixHats, topic)
	if err != nil {
		return nil, err
	}
	if err := t.sessions.Create(s); err != nil {
		if errors.Is(err, hats.ErrActiveSession) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"🎩 Six Thinking Hats session started: `%s`\n\n%s\n\nRecord what this hat sees, then call again with `action: advance` and your notes.",
		s.Slug, hats.StepGuide(s.CurrentStep),
	)), nil
}

func (t *SixHatsTool) advance(notes string) (*mcp.CallToolResult, error) {
	s, err := t.sessions.LoadActive(hats.KindSixHats)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if s == nil {
		return noActiveSession(hats.KindSixHats), nil
	}
	if hats.IsLastStep(s) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"you are on the final hat (%s): use `action: conclude` to finish and save the summary", s.CurrentStep,
		)), nil
	}

	if err := hats.Advance(s, notes); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.sessions.Save(s); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Hat recorded (%s). Next:\n\n%s",
		sessionProgress(s), hats.StepGuide(s.CurrentStep),
	)), nil
}

func (t *SixHatsTool) status() (*mcp.CallToolResult, error) {
	s, err := t.sessions.LoadActive(hats.KindSixHats)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if s == nil {
		return noActiveSession(hats.KindSixHats), nil
	}
	return mcp.NewToolResultText(renderSessionStatus(s)), nil
}

func (t *SixHatsTool) conclude(notes string) (*mcp.CallToolResult, error) {
	s, err := t.sessions.LoadActive(hats.KindSixHats)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if s == nil {
		return noActiveSession(hats.KindSixHats), nil
	}

	if err := hats.Complete(s, notes); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.sessions.Save(s); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	slug, path, err := saveSummaryDoc(t.docs, t.renderer, t.idx, s)
	if err != nil {
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"🏁 Six Thinking Hats session `%s` concluded.\n\nSummary saved as knowledge doc `%s` (process).\nFile: `%s`",
		s.Slug, slug, path,
	)), nil
}
