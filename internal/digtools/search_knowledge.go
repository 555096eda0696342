package digtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/index"
)

// kindValues are the document kinds a search can be limited to.
func kindValues() []string {
	return []string{index.KindBranchNote, index.KindKnowledge, index.KindContext}
}

// SearchKnowledgeTool handles the search_knowledge MCP tool.
type SearchKnowledgeTool struct {
	idx *index.Store
}

// NewSearchKnowledgeTool creates a SearchKnowledgeTool over the document
// index.
func NewSearchKnowledgeTool(idx *index.Store) *SearchKnowledgeTool {
	return &SearchKnowledgeTool{idx: idx}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchKnowledgeTool) Definition() mcp.Tool {
	return mcp.NewTool("search_knowledge",
		mcp.WithDescription(
			"Full-text search across branch notes, knowledge documents, and "+
				"context files, ranked by relevance. An empty query returns the most "+
				"recently indexed documents.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Keywords to search for."),
		),
		mcp.WithString("kind",
			mcp.Description("Limit to one document kind."),
			mcp.Enum(kindValues()...),
		),
		mcp.WithString("project",
			mcp.Description("Limit to one project."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default 10)."),
		),
	)
}

// Handle processes the search_knowledge tool call.
func (t *SearchKnowledgeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := primaryString(req, "query")
	kind := req.GetString("kind", "")
	project := req.GetString("project", "")
	limit := req.GetInt("limit", 10)

	if query == "" {
		return mcp.NewToolResultError("'query' is required — the keywords to search for"), nil
	}
	if kind != "" && !validKind(kind) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"invalid kind %q: must be one of: %s", kind, strings.Join(kindValues(), ", "),
		)), nil
	}

	results, err := t.idx.Search(query, index.SearchOptions{Kind: kind, Project: project, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	if len(results) == 0 {
		return mcp.NewToolResultText(
			"No documents matched. If files changed outside the server, run `reindex_documents` first.",
		), nil
	}

	return mcp.NewToolResultText(renderResults(
		fmt.Sprintf("# 🔎 Search: %s", query), results,
	)), nil
}

func validKind(kind string) bool {
	for _, k := range kindValues() {
		if k == kind {
			return true
		}
	}
	return false
}

// renderResults formats index hits the same way for search and
// similarity.
func renderResults(heading string, results []index.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%d result(s):\n\n", heading, len(results))

	for i, r := range results {
		title := r.Title
		if title == "" {
			title = r.Path
		}
		fmt.Fprintf(&b, "[%d] **%s** (%s", i+1, title, r.Kind)
		if r.Project != "" {
			fmt.Fprintf(&b, ", project %s", r.Project)
		}
		b.WriteString(")\n")
		fmt.Fprintf(&b, "    `%s`\n", r.Path)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "    %s\n", strings.ReplaceAll(r.Snippet, "\n", " "))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
