package digtools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/hats"
	"github.com/troweldev/trowel/internal/index"
	"github.com/troweldev/trowel/internal/knowledge"
	"github.com/troweldev/trowel/internal/templates"
)

// newSessionDeps builds the stores both session tools need.
func newSessionDeps(t *testing.T) (hats.Store, *knowledge.DocStore, *recordingIndexer) {
	t.Helper()
	root := t.TempDir()
	sessions := hats.NewFileStore(filepath.Join(root, "sessions"))
	docs := knowledge.NewDocStore(filepath.Join(root, "knowledge"))
	return sessions, docs, &recordingIndexer{}
}

func callTool(t *testing.T, tool interface {
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	return result
}

// --- SixHatsTool ---

func TestSixHats_FullWalk(t *testing.T) {
	sessions, docs, idx := newSessionDeps(t)
	renderer, _ := templates.NewRenderer()
	tool := NewSixHatsTool(sessions, docs, renderer, idx)

	result := callTool(t, tool, map[string]interface{}{
		"action": "start",
		"topic":  "Adopt feature flags",
	})
	text := getResultText(result)
	if !strings.Contains(text, "session started: `adopt-feature-flags`") {
		t.Fatalf("start should report the session slug: %s", text)
	}
	if !strings.Contains(text, "Blue hat (opening)") {
		t.Errorf("start should show the first hat's guidance: %s", text)
	}

	// Walk blue-open through green. Each advance records the hat and
	// promotes the next one.
	for i := 1; i <= 6; i++ {
		result = callTool(t, tool, map[string]interface{}{
			"action": "advance",
			"notes":  fmt.Sprintf("hat notes %d", i),
		})
		if isErrorResult(result) {
			t.Fatalf("advance %d failed: %s", i, getResultText(result))
		}
	}
	if !strings.Contains(getResultText(result), "Hat recorded (step 7 of 7)") {
		t.Errorf("six advances should land on the closing blue hat: %s", getResultText(result))
	}

	// Advancing off the final hat is a usage error pointing at conclude.
	result = callTool(t, tool, map[string]interface{}{"action": "advance", "notes": "x"})
	if !isErrorResult(result) || !strings.Contains(getResultText(result), "conclude") {
		t.Errorf("final-hat advance should point at conclude: %s", getResultText(result))
	}

	result = callTool(t, tool, map[string]interface{}{
		"action": "conclude",
		"notes":  "Ship behind a flag next sprint",
	})
	text = getResultText(result)
	if !strings.Contains(text, "session `adopt-feature-flags` concluded") {
		t.Fatalf("conclude should confirm: %s", text)
	}
	if !strings.Contains(text, "knowledge doc `six-thinking-hats-adopt-feature-flags` (process)") {
		t.Errorf("summary doc slug should be derived from the title: %s", text)
	}

	// The summary lands as a process-category knowledge document.
	data, err := os.ReadFile(docs.Path(knowledge.CategoryProcess, "six-thinking-hats-adopt-feature-flags"))
	if err != nil {
		t.Fatalf("summary doc not written: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"# Six Thinking Hats: Adopt feature flags",
		"**Category:** process",
		"## Blue Open",
		"hat notes 1",
		"## Blue Close",
		"Ship behind a flag next sprint",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("summary doc should contain %q, got:\n%s", want, content)
		}
	}

	if len(idx.docs) != 1 || idx.docs[0].Kind != index.KindKnowledge {
		t.Errorf("summary should be upserted into the index as knowledge: %+v", idx.docs)
	}

	// The session is finished; status reports nothing running.
	result = callTool(t, tool, map[string]interface{}{"action": "status"})
	if !strings.Contains(getResultText(result), "No active Six Thinking Hats session") {
		t.Errorf("concluded session should no longer be active: %s", getResultText(result))
	}
}

func TestSixHats_StatusShowsProgress(t *testing.T) {
	sessions, docs, idx := newSessionDeps(t)
	renderer, _ := templates.NewRenderer()
	tool := NewSixHatsTool(sessions, docs, renderer, idx)

	callTool(t, tool, map[string]interface{}{"action": "start", "topic": "Split the monolith"})
	callTool(t, tool, map[string]interface{}{"action": "advance", "notes": "scope agreed"})

	result := callTool(t, tool, map[string]interface{}{"action": "status"})
	text := getResultText(result)
	for _, want := range []string{
		"Six Thinking Hats: Split the monolith",
		"step 2 of 7",
		"✔ blue-open",
		"▶ white",
		"White hat",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("status should contain %q, got:\n%s", want, text)
		}
	}
}

func TestSixHats_SecondStartRejected(t *testing.T) {
	sessions, docs, idx := newSessionDeps(t)
	renderer, _ := templates.NewRenderer()
	tool := NewSixHatsTool(sessions, docs, renderer, idx)

	callTool(t, tool, map[string]interface{}{"action": "start", "topic": "first topic"})
	result := callTool(t, tool, map[string]interface{}{"action": "start", "topic": "second topic"})

	if !isErrorResult(result) {
		t.Fatal("second start should be rejected while one session is active")
	}
	if !strings.Contains(getResultText(result), "advance or conclude it first") {
		t.Errorf("rejection should point at the open session: %s", getResultText(result))
	}
}

func TestSixHats_NoActiveSession(t *testing.T) {
	sessions, docs, idx := newSessionDeps(t)
	renderer, _ := templates.NewRenderer()
	tool := NewSixHatsTool(sessions, docs, renderer, idx)

	for _, action := range []string{"advance", "status", "conclude"} {
		result := callTool(t, tool, map[string]interface{}{"action": action})
		if isErrorResult(result) {
			t.Errorf("%s without a session is informational, not an error", action)
		}
		if !strings.Contains(getResultText(result), "No active Six Thinking Hats session") {
			t.Errorf("%s: unexpected message: %s", action, getResultText(result))
		}
	}
}

func TestSixHats_BadInput(t *testing.T) {
	sessions, docs, idx := newSessionDeps(t)
	renderer, _ := templates.NewRenderer()
	tool := NewSixHatsTool(sessions, docs, renderer, idx)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"start without topic", map[string]interface{}{"action": "start"}},
		{"invalid action", map[string]interface{}{"action": "meditate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, tool, tt.args)
			if !isErrorResult(result) {
				t.Error("should be a usage error")
			}
		})
	}
}

// --- SynthesizeKnowledgeTool ---

func TestSynthesizeKnowledge_FullWalk(t *testing.T) {
	sessions, docs, idx := newSessionDeps(t)
	renderer, _ := templates.NewRenderer()
	tool := NewSynthesizeKnowledgeTool(sessions, docs, renderer, idx)

	result := callTool(t, tool, map[string]interface{}{
		"action": "start",
		"topic":  "Retry lessons",
	})
	if !strings.Contains(getResultText(result), "Synthesis session started: `retry-lessons`") {
		t.Fatalf("start should report the slug: %s", getResultText(result))
	}

	// gather, cluster, distill, connect.
	for i := 1; i <= 4; i++ {
		result = callTool(t, tool, map[string]interface{}{
			"action": "advance",
			"notes":  fmt.Sprintf("step notes %d", i),
		})
		if isErrorResult(result) {
			t.Fatalf("advance %d failed: %s", i, getResultText(result))
		}
		if !strings.Contains(getResultText(result), "Step recorded") {
			t.Errorf("advance %d should record the step: %s", i, getResultText(result))
		}
	}

	// The fifth advance sits on record, the final step: it completes the
	// session and saves the summary without a separate conclude.
	result = callTool(t, tool, map[string]interface{}{
		"action": "advance",
		"notes":  "Distilled doc drafted",
	})
	text := getResultText(result)
	if !strings.Contains(text, "Synthesis `retry-lessons` complete") {
		t.Fatalf("final advance should complete the session: %s", text)
	}
	if !strings.Contains(text, "knowledge doc `knowledge-synthesis-retry-lessons` (process)") {
		t.Errorf("summary doc slug should be derived from the title: %s", text)
	}

	data, err := os.ReadFile(docs.Path(knowledge.CategoryProcess, "knowledge-synthesis-retry-lessons"))
	if err != nil {
		t.Fatalf("summary doc not written: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"# Knowledge Synthesis: Retry lessons",
		"## Gather",
		"step notes 1",
		"## Record",
		"Distilled doc drafted",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("summary doc should contain %q, got:\n%s", want, content)
		}
	}

	if len(idx.docs) != 1 {
		t.Errorf("summary should be upserted into the index: %+v", idx.docs)
	}

	result = callTool(t, tool, map[string]interface{}{"action": "status"})
	if !strings.Contains(getResultText(result), "No active Knowledge Synthesis session") {
		t.Errorf("completed session should no longer be active: %s", getResultText(result))
	}
}

func TestSynthesizeKnowledge_HasNoConcludeAction(t *testing.T) {
	sessions, docs, idx := newSessionDeps(t)
	renderer, _ := templates.NewRenderer()
	tool := NewSynthesizeKnowledgeTool(sessions, docs, renderer, idx)

	result := callTool(t, tool, map[string]interface{}{"action": "conclude"})
	if !isErrorResult(result) {
		t.Fatal("conclude is not a synthesis action")
	}
	if !strings.Contains(getResultText(result), "invalid action") {
		t.Errorf("unexpected message: %s", getResultText(result))
	}
}

func TestSynthesizeKnowledge_StartRequiresTopic(t *testing.T) {
	sessions, docs, idx := newSessionDeps(t)
	renderer, _ := templates.NewRenderer()
	tool := NewSynthesizeKnowledgeTool(sessions, docs, renderer, idx)

	result := callTool(t, tool, map[string]interface{}{"action": "start"})
	if !isErrorResult(result) {
		t.Error("start without a topic should be a usage error")
	}
}
