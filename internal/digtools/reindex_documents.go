package digtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/index"
)

// Reindex scopes.
const (
	ReindexAll         = "all"
	ReindexBranchNotes = "branch_notes"
	ReindexKnowledge   = "knowledge"
	ReindexContext     = "context"
)

// ReindexDocumentsTool handles the reindex_documents MCP tool.
// It re-walks the markdown trees and synchronizes the search index.
type ReindexDocumentsTool struct {
	idx          *index.Store
	notesDir     string
	knowledgeDir string
	contextDir   string
}

// NewReindexDocumentsTool creates a ReindexDocumentsTool over the index
// and the three markdown trees it mirrors.
func NewReindexDocumentsTool(idx *index.Store, notesDir, knowledgeDir, contextDir string) *ReindexDocumentsTool {
	return &ReindexDocumentsTool{
		idx:          idx,
		notesDir:     notesDir,
		knowledgeDir: knowledgeDir,
		contextDir:   contextDir,
	}
}

// Definition returns the MCP tool definition for registration.
func (t *ReindexDocumentsTool) Definition() mcp.Tool {
	return mcp.NewTool("reindex_documents",
		mcp.WithDescription(
			"Rebuild the search index from the files on disk. Run after editing "+
				"store files outside the server or after an import.",
		),
		mcp.WithString("scope",
			mcp.Description("Which tree to reindex (default all)."),
			mcp.Enum(ReindexAll, ReindexBranchNotes, ReindexKnowledge, ReindexContext),
		),
	)
}

// Handle processes the reindex_documents tool call.
func (t *ReindexDocumentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope := req.GetString("scope", ReindexAll)

	sources, err := t.sources(scope)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	stats, err := t.idx.Reindex(ctx, sources)
	if err != nil {
		return nil, fmt.Errorf("reindexing: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"🗂️ Reindex complete (%s).\n\nScanned: %d\nIndexed: %d\nUnchanged: %d\nRemoved: %d",
		scope, stats.Scanned, stats.Indexed, stats.Unchanged, stats.Removed,
	)), nil
}

// sources maps a scope onto the trees to walk.
func (t *ReindexDocumentsTool) sources(scope string) ([]index.Source, error) {
	notes := index.Source{Kind: index.KindBranchNote, Dir: t.notesDir}
	docs := index.Source{Kind: index.KindKnowledge, Dir: t.knowledgeDir}
	contexts := index.Source{Kind: index.KindContext, Dir: t.contextDir}

	switch scope {
	case ReindexAll:
		return []index.Source{notes, docs, contexts}, nil
	case ReindexBranchNotes:
		return []index.Source{notes}, nil
	case ReindexKnowledge:
		return []index.Source{docs}, nil
	case ReindexContext:
		return []index.Source{contexts}, nil
	default:
		return nil, fmt.Errorf("invalid scope %q: must be one of: %s, %s, %s, %s",
			scope, ReindexAll, ReindexBranchNotes, ReindexKnowledge, ReindexContext)
	}
}
