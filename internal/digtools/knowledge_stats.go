package digtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/branchnote"
	"github.com/troweldev/trowel/internal/index"
	"github.com/troweldev/trowel/internal/knowledge"
)

// KnowledgeStatsTool handles the knowledge_stats MCP tool.
type KnowledgeStatsTool struct {
	notes    branchnote.Store
	docs     *knowledge.DocStore
	contexts *knowledge.ContextStore
	lists    *knowledge.ChecklistStore
	idx      *index.Store
}

// NewKnowledgeStatsTool creates a KnowledgeStatsTool. idx may be nil
// when the index is degraded; the store counters still report.
func NewKnowledgeStatsTool(
	notes branchnote.Store,
	docs *knowledge.DocStore,
	contexts *knowledge.ContextStore,
	lists *knowledge.ChecklistStore,
	idx *index.Store,
) *KnowledgeStatsTool {
	return &KnowledgeStatsTool{notes: notes, docs: docs, contexts: contexts, lists: lists, idx: idx}
}

// Definition returns the MCP tool definition for registration.
func (t *KnowledgeStatsTool) Definition() mcp.Tool {
	return mcp.NewTool("knowledge_stats",
		mcp.WithDescription("Counters for the whole store: artifacts per kind, projects, and indexed documents."),
	)
}

// Handle processes the knowledge_stats tool call.
func (t *KnowledgeStatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteInfos, err := t.notes.List("")
	if err != nil {
		return nil, fmt.Errorf("listing branch notes: %w", err)
	}
	projects, err := t.notes.Projects()
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	docCount, err := t.docs.Count()
	if err != nil {
		return nil, fmt.Errorf("counting knowledge documents: %w", err)
	}
	contextCount, err := countPerProject("", t.contexts.Projects, func(p string) (int, error) {
		infos, err := t.contexts.List(p)
		return len(infos), err
	})
	if err != nil {
		return nil, fmt.Errorf("counting context files: %w", err)
	}
	checklistCount, err := countPerProject("", t.lists.Projects, func(p string) (int, error) {
		infos, err := t.lists.List(p)
		return len(infos), err
	})
	if err != nil {
		return nil, fmt.Errorf("counting checklists: %w", err)
	}

	entries, commits := 0, 0
	for _, info := range noteInfos {
		entries += info.Entries
		commits += info.Commits
	}

	var b strings.Builder
	b.WriteString("# 📊 Store Stats\n\n")
	fmt.Fprintf(&b, "- Projects: %d\n", len(projects))
	fmt.Fprintf(&b, "- Branch notes: %d (%d entries, %d commits)\n", len(noteInfos), entries, commits)
	fmt.Fprintf(&b, "- Knowledge docs: %d\n", docCount)
	fmt.Fprintf(&b, "- Context files: %d\n", contextCount)
	fmt.Fprintf(&b, "- Checklists: %d\n", checklistCount)

	if t.idx == nil {
		b.WriteString("\nIndex: unavailable (search tools are offline).\n")
		return mcp.NewToolResultText(b.String()), nil
	}

	counts, err := t.idx.Counts()
	if err != nil {
		return nil, fmt.Errorf("reading index counts: %w", err)
	}
	b.WriteString("\n## Index\n\n")
	total := 0
	for _, kind := range kindValues() {
		fmt.Fprintf(&b, "- %s: %d\n", kind, counts[kind])
		total += counts[kind]
	}
	fmt.Fprintf(&b, "- total: %d\n", total)

	return mcp.NewToolResultText(b.String()), nil
}
