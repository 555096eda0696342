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

// SynthesizeKnowledgeTool handles the synthesize_knowledge MCP tool: a
// gather → cluster → distill → connect → record stepper. Advancing past
// the final step completes the session and records the summary, so the
// flow needs no separate conclude action.
type SynthesizeKnowledgeTool struct {
	sessions hats.Store
	docs     *knowledge.DocStore
	renderer templates.Renderer
	idx      Indexer
}

// NewSynthesizeKnowledgeTool creates a SynthesizeKnowledgeTool. idx may
// be nil when the index is degraded.
func NewSynthesizeKnowledgeTool(sessions hats.Store, docs *knowledge.DocStore, renderer templates.Renderer, idx Indexer) *SynthesizeKnowledgeTool {
	return &SynthesizeKnowledgeTool{sessions: sessions, docs: docs, renderer: renderer, idx: idx}
}

// Definition returns the MCP tool definition for registration.
func (t *SynthesizeKnowledgeTool) Definition() mcp.Tool {
	return mcp.NewTool("synthesize_knowledge",
		mcp.WithDescription(
			"Condense scattered notes into one knowledge document through a guided "+
				"gather → cluster → distill → connect → record flow. Advancing the "+
				"final step saves the result automatically.",
		),
		mcp.WithString("action",
			mcp.Description("What to do (default status)."),
			mcp.Enum("start", "advance", "status"),
		),
		mcp.WithString("topic",
			mcp.Description("What to synthesize (required for start)."),
		),
		mcp.WithString("notes",
			mcp.Description("Notes for the current step (used by advance)."),
		),
	)
}

// Handle processes the synthesize_knowledge tool call.
func (t *SynthesizeKnowledgeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	default:
		return mcp.NewToolResultError(fmt.Sprintf(
			"invalid action %q: must be one of: start, advance, status", action,
		)), nil
	}
}

func (t *SynthesizeKnowledgeTool) start(topic string) (*mcp.CallToolResult, error) {
	if topic == "" {
		return mcp.NewToolResultError("'topic' is required to start a synthesis — what to condense"), nil
	}

	s, err := hats.NewSession(hats.KindSynthesis, topic)
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
		"🧪 Synthesis session started: `%s`\n\n%s\n\nWork the step, then call again with `action: advance` and your notes.",
		s.Slug, hats.StepGuide(s.CurrentStep),
	)), nil
}

func (t *SynthesizeKnowledgeTool) advance(notes string) (*mcp.CallToolResult, error) {
	s, err := t.sessions.LoadActive(hats.KindSynthesis)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if s == nil {
		return noActiveSession(hats.KindSynthesis), nil
	}

	if hats.IsLastStep(s) {
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
			"🏁 Synthesis `%s` complete.\n\nResult saved as knowledge doc `%s` (process).\nFile: `%s`",
			s.Slug, slug, path,
		)), nil
	}

	if err := hats.Advance(s, notes); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.sessions.Save(s); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Step recorded (%s). Next:\n\n%s",
		sessionProgress(s), hats.StepGuide(s.CurrentStep),
	)), nil
}

func (t *SynthesizeKnowledgeTool) status() (*mcp.CallToolResult, error) {
	s, err := t.sessions.LoadActive(hats.KindSynthesis)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if s == nil {
		return noActiveSession(hats.KindSynthesis), nil
	}
	return mcp.NewToolResultText(renderSessionStatus(s)), nil
}
