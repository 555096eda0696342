package digtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/index"
)

// FindSimilarDocumentsTool handles the find_similar_documents MCP tool.
// Similarity is keyword overlap ranked by the index, computed entirely
// locally.
type FindSimilarDocumentsTool struct {
	idx *index.Store
}

// NewFindSimilarDocumentsTool creates a FindSimilarDocumentsTool over
// the document index.
func NewFindSimilarDocumentsTool(idx *index.Store) *FindSimilarDocumentsTool {
	return &FindSimilarDocumentsTool{idx: idx}
}

// Definition returns the MCP tool definition for registration.
func (t *FindSimilarDocumentsTool) Definition() mcp.Tool {
	return mcp.NewTool("find_similar_documents",
		mcp.WithDescription(
			"Find stored documents resembling a piece of text. Paste an entry, an "+
				"error message, or a draft doc to surface prior art before writing "+
				"something new.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to match against the store."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default 5)."),
		),
		mcp.WithString("project",
			mcp.Description("Limit to one project."),
		),
	)
}

// Handle processes the find_similar_documents tool call.
func (t *FindSimilarDocumentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := primaryString(req, "text")
	limit := req.GetInt("limit", 5)
	project := req.GetString("project", "")

	if text == "" {
		return mcp.NewToolResultError("'text' is required — the text to match against the store"), nil
	}

	results, err := t.idx.Similar(text, index.SearchOptions{Project: project, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	if len(results) == 0 {
		return mcp.NewToolResultText(
			"No similar documents found. Either this ground is unbroken, or the text is too short to carry distinctive words.",
		), nil
	}

	return mcp.NewToolResultText(renderResults("# 🧭 Similar Documents", results)), nil
}
