// Package resources implements MCP resource handlers for the knowledge
// store.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (trowel://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/branchnote"
	"github.com/troweldev/trowel/internal/knowledge"
)

// Handler manages the store's resource endpoints.
type Handler struct {
	docs  *knowledge.DocStore
	notes branchnote.Store
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(docs *knowledge.DocStore, notes branchnote.Store) *Handler {
	return &Handler{docs: docs, notes: notes}
}

// CatalogResource returns the MCP resource definition for the knowledge
// catalog.
func (h *Handler) CatalogResource() mcp.Resource {
	return mcp.NewResource(
		"trowel://knowledge/catalog",
		"Knowledge Catalog",
		mcp.WithResourceDescription("Every stored knowledge document: slug, title, category, tags"),
		mcp.WithMIMEType("application/json"),
	)
}

// catalogEntry is the JSON shape of one catalog row.
type catalogEntry struct {
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags,omitempty"`
	Path      string   `json:"path"`
	UpdatedAt string   `json:"updated_at"`
}

// HandleCatalog returns the knowledge document catalog as JSON.
func (h *Handler) HandleCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	docs, err := h.docs.List("")
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	entries := make([]catalogEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, catalogEntry{
			Slug:      d.Slug,
			Title:     d.Title,
			Category:  string(d.Category),
			Tags:      d.Tags,
			Path:      d.Path,
			UpdatedAt: d.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	data, err := json.MarshalIndent(struct {
		Documents []catalogEntry `json:"documents"`
	}{entries}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling catalog: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// ProjectsResource returns the MCP resource definition for the project
// list.
func (h *Handler) ProjectsResource() mcp.Resource {
	return mcp.NewResource(
		"trowel://projects",
		"Known Projects",
		mcp.WithResourceDescription("Projects that have recorded branch notes"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleProjects returns the known project names as JSON.
func (h *Handler) HandleProjects(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	projects, err := h.notes.Projects()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if projects == nil {
		projects = []string{}
	}

	data, err := json.MarshalIndent(struct {
		Projects []string `json:"projects"`
	}{projects}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling projects: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
