// Package tools implements the MCP tool handlers for branch notes,
// knowledge documents, context files, and checklists.
//
// Each tool is a struct that receives its store dependencies at
// construction and returns a handler compatible with mcp-go's
// CallToolRequest signature.
//
// Design principles:
// - SRP: each file = one tool
// - DIP: tools depend on interfaces (branchnote.Store, templates.Renderer), not concretions
// - OCP: new tools are added without modifying existing ones
package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/troweldev/trowel/internal/branchnote"
	"github.com/troweldev/trowel/internal/index"
)

// Indexer is the slice of the document index the save tools need. A nil
// Indexer means the index is degraded; saves still succeed, they just
// skip the upsert.
type Indexer interface {
	Upsert(doc index.Document) (bool, error)
}

// noteIdentity extracts and validates the project/branch pair every
// branch-note tool requires. The second return is non-nil on a
// validation failure and is returned to the client as-is.
func noteIdentity(req mcp.CallToolRequest) (branchnote.Identity, *mcp.CallToolResult) {
	project := req.GetString("project", "")
	branch := req.GetString("branch", "")
	if strings.TrimSpace(project) == "" {
		return branchnote.Identity{}, mcp.NewToolResultError("'project' is required — the project this branch note belongs to")
	}
	if strings.TrimSpace(branch) == "" {
		return branchnote.Identity{}, mcp.NewToolResultError("'branch' is required — the git branch the note tracks")
	}
	return branchnote.NewIdentity(project, branch), nil
}

// noNoteYet is the friendly answer for reads against a note that does
// not exist. Missing notes are an expected state, not an error.
func noNoteYet(id branchnote.Identity) *mcp.CallToolResult {
	return mcp.NewToolResultText(fmt.Sprintf(
		"No branch note yet for `%s`. Start one with `update_branch_note`.", id,
	))
}

// noChecklist is the friendly answer for operations against a checklist
// that does not exist.
func noChecklist(project, name string) *mcp.CallToolResult {
	return mcp.NewToolResultText(fmt.Sprintf(
		"No checklist `%s` for project `%s`. Create one with `create_checklist` or list them with `list_checklists`.",
		name, project,
	))
}

// primaryString returns the named argument, falling back to a bare
// string payload. Some clients send the single required argument of a
// tool unwrapped instead of as an object; this is the one place that
// fallback lives.
func primaryString(req mcp.CallToolRequest, key string) string {
	if s := req.GetString(key, ""); s != "" {
		return s
	}
	s, _ := req.GetRawArguments().(string)
	return strings.TrimSpace(s)
}
