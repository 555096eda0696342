package digtools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/branchnote"
	"github.com/troweldev/trowel/internal/index"
	"github.com/troweldev/trowel/internal/knowledge"
)

func openTestIndex(t *testing.T) *index.Store {
	t.Helper()
	s, err := index.Open(filepath.Join(t.TempDir(), "trowel.db"))
	if err != nil {
		t.Fatalf("index.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func upsert(t *testing.T, idx *index.Store, doc index.Document) {
	t.Helper()
	if _, err := idx.Upsert(doc); err != nil {
		t.Fatalf("Upsert %s: %v", doc.Path, err)
	}
}

// --- SearchKnowledgeTool ---

func seedSearchIndex(t *testing.T, idx *index.Store) {
	t.Helper()
	upsert(t, idx, index.Document{
		Path:  "/store/knowledge/pattern/retry-budgets.md",
		Kind:  index.KindKnowledge,
		Title: "Retry Budgets",
		Body:  "Retries need budgets so webhook storms cannot amplify an outage.",
	})
	upsert(t, idx, index.Document{
		Path:    "/store/branch_notes/webapp/main.md",
		Kind:    index.KindBranchNote,
		Project: "webapp",
		Title:   "main (webapp)",
		Body:    "Wired retry logic into the webhook sender.",
	})
	upsert(t, idx, index.Document{
		Path:    "/store/context/webapp/deploy.md",
		Kind:    index.KindContext,
		Project: "webapp",
		Title:   "deploy",
		Body:    "Deploys ship from CI on tagged releases.",
	})
}

func TestSearchKnowledge_RankedHits(t *testing.T) {
	idx := openTestIndex(t)
	seedSearchIndex(t, idx)

	tool := NewSearchKnowledgeTool(idx)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"query": "retry"}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "Search: retry") {
		t.Errorf("heading should echo the query: %s", text)
	}
	if !strings.Contains(text, "2 result(s):") {
		t.Errorf("both retry documents should match: %s", text)
	}
	for _, want := range []string{
		"**Retry Budgets** (knowledge)",
		"**main (webapp)** (branch_note, project webapp)",
		"`/store/knowledge/pattern/retry-budgets.md`",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("result list should contain %q, got:\n%s", want, text)
		}
	}
}

func TestSearchKnowledge_KindFilter(t *testing.T) {
	idx := openTestIndex(t)
	seedSearchIndex(t, idx)

	tool := NewSearchKnowledgeTool(idx)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"query": "retry",
		"kind":  "knowledge",
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "1 result(s):") {
		t.Errorf("kind filter should drop the branch note: %s", text)
	}
	if strings.Contains(text, "main (webapp)") {
		t.Errorf("branch note should be filtered out: %s", text)
	}
}

func TestSearchKnowledge_BareStringQuery(t *testing.T) {
	idx := openTestIndex(t)
	seedSearchIndex(t, idx)

	tool := NewSearchKnowledgeTool(idx)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = "webhook"

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Errorf("bare-string query should search: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "Search: webhook") {
		t.Errorf("unexpected output: %s", getResultText(result))
	}
}

func TestSearchKnowledge_NoHits(t *testing.T) {
	idx := openTestIndex(t)
	seedSearchIndex(t, idx)

	tool := NewSearchKnowledgeTool(idx)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"query": "quasar"}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if isErrorResult(result) {
		t.Errorf("no hits is not an error: %s", text)
	}
	if !strings.Contains(text, "No documents matched") || !strings.Contains(text, "reindex_documents") {
		t.Errorf("empty result should hint at reindexing: %s", text)
	}
}

func TestSearchKnowledge_BadInput(t *testing.T) {
	tool := NewSearchKnowledgeTool(openTestIndex(t))

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing query", map[string]interface{}{}},
		{"invalid kind", map[string]interface{}{"query": "x", "kind": "diary"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mcp.CallToolRequest{}
			req.Params.Arguments = tt.args

			result, err := tool.Handle(context.Background(), req)
			if err != nil {
				t.Fatalf("Handle failed: %v", err)
			}
			if !isErrorResult(result) {
				t.Error("should be a usage error")
			}
		})
	}
}

// --- FindSimilarDocumentsTool ---

func TestFindSimilarDocuments_MatchesByKeywords(t *testing.T) {
	idx := openTestIndex(t)
	seedSearchIndex(t, idx)

	tool := NewFindSimilarDocumentsTool(idx)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"text": "Our webhook retries keep amplifying outages when the downstream is slow.",
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "Similar Documents") {
		t.Errorf("unexpected heading: %s", text)
	}
	if !strings.Contains(text, "Retry Budgets") {
		t.Errorf("the retry-budgets doc shares keywords with the text: %s", text)
	}
}

func TestFindSimilarDocuments_TextTooShort(t *testing.T) {
	idx := openTestIndex(t)
	seedSearchIndex(t, idx)

	tool := NewFindSimilarDocumentsTool(idx)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"text": "a b c"}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.Contains(getResultText(result), "No similar documents found") {
		t.Errorf("no extractable keywords should come back empty: %s", getResultText(result))
	}
}

func TestFindSimilarDocuments_MissingText(t *testing.T) {
	tool := NewFindSimilarDocumentsTool(openTestIndex(t))

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("missing text should be a usage error")
	}
}

// --- ReindexDocumentsTool ---

// seedStoreTree writes one markdown file into each store subtree and
// returns the three source directories.
func seedStoreTree(t *testing.T, root string) (notesDir, knowledgeDir, contextDir string) {
	t.Helper()
	notesDir = filepath.Join(root, "branch_notes")
	knowledgeDir = filepath.Join(root, "knowledge")
	contextDir = filepath.Join(root, "context")

	for path, content := range map[string]string{
		filepath.Join(notesDir, "webapp", "main.md"):           "# Branch Note: main (webapp)\n\n## 2026-08-18 09:00:00\nAdded login flow\n",
		filepath.Join(knowledgeDir, "pattern", "retry.md"):     "# Retry\n\nRetries need budgets.\n",
		filepath.Join(contextDir, "webapp", "architecture.md"): "# architecture\n\nThree services.\n",
	} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return notesDir, knowledgeDir, contextDir
}

func TestReindexDocuments_AllScope(t *testing.T) {
	idx := openTestIndex(t)
	root := t.TempDir()
	notesDir, knowledgeDir, contextDir := seedStoreTree(t, root)

	tool := NewReindexDocumentsTool(idx, notesDir, knowledgeDir, contextDir)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	for _, want := range []string{"Reindex complete (all)", "Scanned: 3", "Indexed: 3", "Removed: 0"} {
		if !strings.Contains(text, want) {
			t.Errorf("first run should index everything, want %q in:\n%s", want, text)
		}
	}

	// Second run with nothing changed on disk.
	result, err = tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.Contains(getResultText(result), "Unchanged: 3") {
		t.Errorf("unchanged files should not reindex: %s", getResultText(result))
	}

	// Remove a file; the stale row gets swept.
	if err := os.Remove(filepath.Join(knowledgeDir, "pattern", "retry.md")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	result, err = tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.Contains(getResultText(result), "Removed: 1") {
		t.Errorf("deleted files should be swept from the index: %s", getResultText(result))
	}
}

func TestReindexDocuments_SingleScope(t *testing.T) {
	idx := openTestIndex(t)
	root := t.TempDir()
	notesDir, knowledgeDir, contextDir := seedStoreTree(t, root)

	tool := NewReindexDocumentsTool(idx, notesDir, knowledgeDir, contextDir)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"scope": "knowledge"}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "Reindex complete (knowledge)") || !strings.Contains(text, "Scanned: 1") {
		t.Errorf("knowledge scope should walk one tree: %s", text)
	}
}

func TestReindexDocuments_InvalidScope(t *testing.T) {
	idx := openTestIndex(t)
	tool := NewReindexDocumentsTool(idx, t.TempDir(), t.TempDir(), t.TempDir())

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"scope": "everything"}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("invalid scope should be a usage error")
	}
}

// --- KnowledgeStatsTool ---

func TestKnowledgeStats(t *testing.T) {
	root := t.TempDir()
	notes := branchnote.NewFileStore(filepath.Join(root, "branch_notes"))
	docs := knowledge.NewDocStore(filepath.Join(root, "knowledge"))
	contexts := knowledge.NewContextStore(filepath.Join(root, "context"), branchnote.Sanitize)
	lists := knowledge.NewChecklistStore(filepath.Join(root, "checklists"), branchnote.Sanitize)
	idx := openTestIndex(t)

	id := branchnote.NewIdentity("webapp", "main")
	writeNote(t, notes, id, scenarioNote(id))
	if _, err := docs.Save(knowledge.CategoryPattern, "retry", "# Retry\n"); err != nil {
		t.Fatalf("Save doc: %v", err)
	}
	if _, err := contexts.Save("webapp", "architecture", "# architecture\n"); err != nil {
		t.Fatalf("Save context: %v", err)
	}
	upsert(t, idx, index.Document{Path: "/a.md", Kind: index.KindKnowledge, Title: "a", Body: "a"})
	upsert(t, idx, index.Document{Path: "/b.md", Kind: index.KindBranchNote, Project: "webapp", Title: "b", Body: "b"})

	tool := NewKnowledgeStatsTool(notes, docs, contexts, lists, idx)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	for _, want := range []string{
		"# 📊 Store Stats",
		"- Projects: 1",
		"- Branch notes: 1 (3 entries, 1 commits)",
		"- Knowledge docs: 1",
		"- Context files: 1",
		"- Checklists: 0",
		"## Index",
		"- knowledge: 1",
		"- branch_note: 1",
		"- total: 2",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("stats should contain %q, got:\n%s", want, text)
		}
	}
}

func TestKnowledgeStats_IndexUnavailable(t *testing.T) {
	root := t.TempDir()
	notes := branchnote.NewFileStore(filepath.Join(root, "branch_notes"))
	docs := knowledge.NewDocStore(filepath.Join(root, "knowledge"))
	contexts := knowledge.NewContextStore(filepath.Join(root, "context"), branchnote.Sanitize)
	lists := knowledge.NewChecklistStore(filepath.Join(root, "checklists"), branchnote.Sanitize)

	tool := NewKnowledgeStatsTool(notes, docs, contexts, lists, nil)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.Contains(getResultText(result), "Index: unavailable") {
		t.Errorf("nil index should degrade gracefully: %s", getResultText(result))
	}
}
