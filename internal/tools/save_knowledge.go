package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/index"
	"github.com/troweldev/trowel/internal/knowledge"
	"github.com/troweldev/trowel/internal/templates"
)

// SaveKnowledgeTool handles the save_knowledge MCP tool.
// It renders a knowledge document, writes it under its category, and
// mirrors it into the search index.
type SaveKnowledgeTool struct {
	docs     *knowledge.DocStore
	renderer templates.Renderer
	idx      Indexer
}

// NewSaveKnowledgeTool creates a SaveKnowledgeTool. idx may be nil when
// the index is unavailable; saving still works, search just lags until
// the next reindex.
func NewSaveKnowledgeTool(docs *knowledge.DocStore, renderer templates.Renderer, idx Indexer) *SaveKnowledgeTool {
	return &SaveKnowledgeTool{docs: docs, renderer: renderer, idx: idx}
}

// Definition returns the MCP tool definition for registration.
func (t *SaveKnowledgeTool) Definition() mcp.Tool {
	return mcp.NewTool("save_knowledge",
		mcp.WithDescription(
			"Save a knowledge document: a pattern, decision, gotcha, process, or "+
				"reference worth keeping beyond the current branch. The title becomes "+
				"the document slug. Saving an existing title replaces the document.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Short descriptive title, e.g. 'Retry with jitter for flaky webhooks'."),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The document body, markdown."),
		),
		mcp.WithString("category",
			mcp.Description("Document category (default 'reference')."),
			mcp.Enum(knowledge.CategoryValues()...),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags, e.g. 'redis,cache,prod'."),
		),
	)
}

// Handle processes the save_knowledge tool call.
func (t *SaveKnowledgeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	content := req.GetString("content", "")
	category := knowledge.Category(req.GetString("category", string(knowledge.CategoryReference)))
	tags := req.GetString("tags", "")

	if strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("'title' is required — it names the document and becomes its slug"), nil
	}
	if strings.TrimSpace(content) == "" {
		return mcp.NewToolResultError("'content' is required — the document body"), nil
	}
	if err := knowledge.ValidateCategory(category); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rendered, err := t.renderer.Render(templates.KnowledgeDoc, templates.KnowledgeDocData{
		Title:    title,
		Category: string(category),
		Tags:     strings.Join(knowledge.SplitTags(tags), ", "),
		Created:  nowStamp(),
		Content:  content,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering knowledge document: %w", err)
	}

	slug := knowledge.Slugify(title)
	path, err := t.docs.Save(category, slug, rendered)
	if err != nil {
		return nil, fmt.Errorf("saving knowledge document: %w", err)
	}

	if t.idx != nil {
		_, err := t.idx.Upsert(index.Document{
			Path:  path,
			Kind:  index.KindKnowledge,
			Title: title,
			Body:  rendered,
		})
		if err != nil {
			// Search lags until the next reindex; the document is safe.
			slog.Warn("indexing saved document failed", "slug", slug, "error", err)
		}
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"💾 Knowledge saved.\n\n**Slug:** `%s`\n**Category:** %s\n**File:** `%s`\n\nRetrieve it with `get_knowledge` or find it later with `search_knowledge`.",
		slug, category, path,
	)), nil
}
