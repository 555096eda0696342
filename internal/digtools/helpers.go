// Package digtools implements the MCP tool handlers for knowledge
// archaeology: timelines, narratives, surveys, gap scans, index search,
// guided thinking sessions, and store export/import.
//
// Each tool handler follows the same pattern as internal/tools:
// - A struct with dependencies injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// The report builders live in internal/archaeology as pure functions;
// this package owns the file reading and parsing that feeds them.
package digtools

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/archaeology"
	"github.com/troweldev/trowel/internal/branchnote"
	"github.com/troweldev/trowel/internal/index"
)

// Indexer is the slice of the document index the session tools need. A
// nil Indexer means the index is degraded; saves still succeed, they
// just skip the upsert.
type Indexer interface {
	Upsert(doc index.Document) (bool, error)
}

// primaryString returns the named argument, falling back to a bare
// string payload. Same fallback as internal/tools: clients sometimes
// send a tool's single required argument unwrapped.
func primaryString(req mcp.CallToolRequest, key string) string {
	if s := req.GetString(key, ""); s != "" {
		return s
	}
	s, _ := req.GetRawArguments().(string)
	return strings.TrimSpace(s)
}

// loadBranchSections reads and parses every note of a project (or all
// projects when project is empty) into the shape the archaeology
// reports consume. Branch labels carry the project prefix when the load
// spans projects.
func loadBranchSections(notes branchnote.Store, project string) ([]archaeology.BranchSections, error) {
	infos, err := notes.List(project)
	if err != nil {
		return nil, err
	}

	var branches []archaeology.BranchSections
	for _, info := range infos {
		text, err := notes.Read(branchnote.Identity{Project: info.Project, Branch: info.Branch})
		if err != nil {
			return nil, err
		}
		label := info.Branch
		if project == "" {
			label = info.Project + "/" + info.Branch
		}
		branches = append(branches, archaeology.BranchSections{
			Branch:   label,
			Sections: branchnote.ParseSections(text),
		})
	}
	return branches, nil
}
