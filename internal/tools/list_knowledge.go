package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/knowledge"
)

// ListKnowledgeTool handles the list_knowledge MCP tool.
// It tabulates stored knowledge documents, newest first.
type ListKnowledgeTool struct {
	docs *knowledge.DocStore
}

// NewListKnowledgeTool creates a ListKnowledgeTool with the given doc
// store.
func NewListKnowledgeTool(docs *knowledge.DocStore) *ListKnowledgeTool {
	return &ListKnowledgeTool{docs: docs}
}

// Definition returns the MCP tool definition for registration.
func (t *ListKnowledgeTool) Definition() mcp.Tool {
	return mcp.NewTool("list_knowledge",
		mcp.WithDescription(
			"List stored knowledge documents, most recently updated first. "+
				"Optionally restricted to one category.",
		),
		mcp.WithString("category",
			mcp.Description("Only list this category. Omit for all."),
			mcp.Enum(knowledge.CategoryValues()...),
		),
	)
}

// Handle processes the list_knowledge tool call.
func (t *ListKnowledgeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := knowledge.Category(req.GetString("category", ""))
	if category != "" {
		if err := knowledge.ValidateCategory(category); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	docs, err := t.docs.List(category)
	if err != nil {
		return nil, fmt.Errorf("listing knowledge documents: %w", err)
	}
	if len(docs) == 0 {
		if category != "" {
			return mcp.NewToolResultText(fmt.Sprintf(
				"No %s documents yet. Save one with `save_knowledge`.", category,
			)), nil
		}
		return mcp.NewToolResultText("No knowledge documents yet. Save one with `save_knowledge`."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Knowledge Documents (%d)\n\n", len(docs))
	b.WriteString("| Slug | Category | Tags | Updated |\n")
	b.WriteString("|------|----------|------|--------|\n")
	for _, d := range docs {
		tags := strings.Join(d.Tags, ", ")
		if tags == "" {
			tags = "—"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n",
			d.Slug, d.Category, tags, d.UpdatedAt.Format("2006-01-02 15:04"))
	}
	b.WriteString("\nLoad any of them with `get_knowledge`.")

	return mcp.NewToolResultText(b.String()), nil
}
