package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/knowledge"
)

// GetKnowledgeTool handles the get_knowledge MCP tool.
// It loads a knowledge document by slug or unique slug prefix.
type GetKnowledgeTool struct {
	docs *knowledge.DocStore
}

// NewGetKnowledgeTool creates a GetKnowledgeTool with the given doc store.
func NewGetKnowledgeTool(docs *knowledge.DocStore) *GetKnowledgeTool {
	return &GetKnowledgeTool{docs: docs}
}

// Definition returns the MCP tool definition for registration.
func (t *GetKnowledgeTool) Definition() mcp.Tool {
	return mcp.NewTool("get_knowledge",
		mcp.WithDescription(
			"Load a knowledge document by name. Exact slug match wins; otherwise a "+
				"unique slug prefix is enough, so 'retry-with' finds 'retry-with-jitter-for-flaky-webhooks'.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Document slug or unique prefix. Titles work too — they are slugified first."),
		),
	)
}

// Handle processes the get_knowledge tool call.
func (t *GetKnowledgeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := primaryString(req, "name")
	if name == "" {
		return mcp.NewToolResultError("'name' is required — the slug (or unique prefix) of the document"), nil
	}

	doc, content, err := t.docs.Get(name)
	if err != nil {
		switch {
		case errors.Is(err, knowledge.ErrDocNotFound):
			return mcp.NewToolResultText(fmt.Sprintf(
				"No knowledge document named `%s`. List what exists with `list_knowledge` or search with `search_knowledge`.",
				knowledge.Slugify(name),
			)), nil
		case errors.Is(err, knowledge.ErrAmbiguousName):
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("loading knowledge document: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"_%s/%s_\n\n%s", doc.Category, doc.Slug, content,
	)), nil
}
