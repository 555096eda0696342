// Package templates renders the markdown artifacts trowel writes or
// returns: knowledge documents, context files, checklists, and Jira
// comments. Templates are embedded in the binary so the server has no
// runtime file dependencies.
//
// The knowledge document template is load-bearing: its metadata lines
// (**Category:**, **Tags:**, **Created:**) are parsed back by the
// knowledge store, so the two must agree on the format.
package templates

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

// Template name constants. Use these instead of raw strings.
const (
	KnowledgeDoc = "knowledge_doc.md.tmpl"
	ContextFile  = "context_file.md.tmpl"
	Checklist    = "checklist.md.tmpl"
	JiraComment  = "jira_comment.md.tmpl"
)

// Renderer renders a named template with data. Tools depend on this
// interface so tests can substitute a fake.
type Renderer interface {
	Render(templateName string, data any) (string, error)
}

// EmbedRenderer renders the templates compiled into the binary.
type EmbedRenderer struct {
	templates *template.Template
}

// NewRenderer parses all embedded templates.
func NewRenderer() (*EmbedRenderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing embedded templates: %w", err)
	}
	return &EmbedRenderer{templates: t}, nil
}

// Render executes the named template with the given data.
func (r *EmbedRenderer) Render(templateName string, data any) (string, error) {
	var sb strings.Builder
	if err := r.templates.ExecuteTemplate(&sb, templateName, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", templateName, err)
	}
	return sb.String(), nil
}

// --- Template data structs ---

// KnowledgeDocData fills knowledge_doc.md.tmpl.
type KnowledgeDocData struct {
	Title    string
	Category string
	Tags     string // comma-joined; the Tags line is omitted when empty
	Created  string
	Content  string
}

// ContextFileData fills context_file.md.tmpl.
type ContextFileData struct {
	Name    string
	Project string
	Updated string
	Content string
}

// ChecklistData fills checklist.md.tmpl. Items render unchecked.
type ChecklistData struct {
	Name    string
	Project string
	Created string
	Items   []string
}

// JiraEntry is one work-log line in a Jira comment.
type JiraEntry struct {
	Time    string
	Message string
}

// JiraCommentData fills jira_comment.md.tmpl (Jira wiki markup, not
// markdown, despite the file extension).
type JiraCommentData struct {
	Project     string
	Branch      string
	Entries     []JiraEntry
	CommitCount int
	Generated   string
}
