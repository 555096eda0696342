// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here — only wiring.
package server

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/troweldev/trowel/internal/branchnote"
	"github.com/troweldev/trowel/internal/config"
	"github.com/troweldev/trowel/internal/digtools"
	"github.com/troweldev/trowel/internal/hats"
	"github.com/troweldev/trowel/internal/index"
	"github.com/troweldev/trowel/internal/knowledge"
	"github.com/troweldev/trowel/internal/prompts"
	"github.com/troweldev/trowel/internal/resources"
	"github.com/troweldev/trowel/internal/templates"
	"github.com/troweldev/trowel/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the document index's database
// connection and must be called on shutdown (typically via defer).
// It is always non-nil and safe to call even if the index never opened.
func New(cfg *config.Config) (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	notes := branchnote.NewFileStore(cfg.BranchNotesDir())
	docs := knowledge.NewDocStore(cfg.KnowledgeDir())
	contexts := knowledge.NewContextStore(cfg.ContextDir(), branchnote.Sanitize)
	lists := knowledge.NewChecklistStore(cfg.ChecklistsDir(), branchnote.Sanitize)
	sessions := hats.NewFileStore(cfg.SessionsDir())

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, noop, fmt.Errorf("creating template renderer: %w", err)
	}

	// --- Open the document index ---
	//
	// The index is an independent subsystem: if it fails to open, every
	// filesystem tool keeps working. We log a warning and skip the
	// index-backed search tools — the server is still fully functional
	// for notes, knowledge, and reports.

	cleanup := noop
	var idx *index.Store
	if cfg.IndexOn() {
		opened, idxErr := index.Open(cfg.IndexPath())
		if idxErr != nil {
			slog.Warn("document index disabled", "error", idxErr)
		} else {
			idx = opened
			cleanup = func() {
				if err := idx.Close(); err != nil {
					slog.Warn("closing document index", "error", err)
				}
			}
		}
	} else {
		slog.Info("document index disabled by config")
	}

	// The save tools take the index through a nil-checked interface.
	// Assign only on success so a degraded index stays a true nil.
	var docIndexer tools.Indexer
	var sessionIndexer digtools.Indexer
	if idx != nil {
		docIndexer = idx
		sessionIndexer = idx
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"trowel",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register branch-note tools ---

	updateTool := tools.NewUpdateBranchNoteTool(notes)
	s.AddTool(updateTool.Definition(), updateTool.Handle)

	separatorTool := tools.NewAddCommitSeparatorTool(notes)
	s.AddTool(separatorTool.Definition(), separatorTool.Handle)

	readTool := tools.NewReadBranchNotesTool(notes)
	s.AddTool(readTool.Definition(), readTool.Handle)

	filterTool := tools.NewFilterBranchNoteTool(notes)
	s.AddTool(filterTool.Definition(), filterTool.Handle)

	commitMsgTool := tools.NewGenerateCommitMessageTool(notes)
	s.AddTool(commitMsgTool.Definition(), commitMsgTool.Handle)

	jiraTool := tools.NewGenerateJiraCommentTool(notes, renderer)
	s.AddTool(jiraTool.Definition(), jiraTool.Handle)

	archiveTool := tools.NewArchiveBranchNoteTool(notes)
	s.AddTool(archiveTool.Definition(), archiveTool.Handle)

	clearTool := tools.NewClearBranchNoteTool(notes)
	s.AddTool(clearTool.Definition(), clearTool.Handle)

	listNotesTool := tools.NewListBranchNotesTool(notes)
	s.AddTool(listNotesTool.Definition(), listNotesTool.Handle)

	// --- Register knowledge, context, and checklist tools ---

	saveKnowledgeTool := tools.NewSaveKnowledgeTool(docs, renderer, docIndexer)
	s.AddTool(saveKnowledgeTool.Definition(), saveKnowledgeTool.Handle)

	getKnowledgeTool := tools.NewGetKnowledgeTool(docs)
	s.AddTool(getKnowledgeTool.Definition(), getKnowledgeTool.Handle)

	listKnowledgeTool := tools.NewListKnowledgeTool(docs)
	s.AddTool(listKnowledgeTool.Definition(), listKnowledgeTool.Handle)

	saveContextTool := tools.NewSaveContextFileTool(contexts, renderer)
	s.AddTool(saveContextTool.Definition(), saveContextTool.Handle)

	getContextTool := tools.NewGetContextFileTool(contexts)
	s.AddTool(getContextTool.Definition(), getContextTool.Handle)

	listContextTool := tools.NewListContextFilesTool(contexts)
	s.AddTool(listContextTool.Definition(), listContextTool.Handle)

	createChecklistTool := tools.NewCreateChecklistTool(lists, renderer)
	s.AddTool(createChecklistTool.Definition(), createChecklistTool.Handle)

	addItemTool := tools.NewAddChecklistItemTool(lists)
	s.AddTool(addItemTool.Definition(), addItemTool.Handle)

	checkItemTool := tools.NewCheckChecklistItemTool(lists)
	s.AddTool(checkItemTool.Definition(), checkItemTool.Handle)

	getChecklistTool := tools.NewGetChecklistTool(lists)
	s.AddTool(getChecklistTool.Definition(), getChecklistTool.Handle)

	listChecklistsTool := tools.NewListChecklistsTool(lists)
	s.AddTool(listChecklistsTool.Definition(), listChecklistsTool.Handle)

	// --- Register archaeology tools ---

	timelineTool := digtools.NewDigTimelineTool(notes)
	s.AddTool(timelineTool.Definition(), timelineTool.Handle)

	narrativeTool := digtools.NewDigNarrativeTool(notes)
	s.AddTool(narrativeTool.Definition(), narrativeTool.Handle)

	surveyTool := digtools.NewDigSurveyTool(notes, docs, contexts, lists)
	s.AddTool(surveyTool.Definition(), surveyTool.Handle)

	gapsTool := digtools.NewDigGapsTool()
	s.AddTool(gapsTool.Definition(), gapsTool.Handle)

	// Stats tool registered unconditionally — it reports
	// "Index: unavailable" when idx is nil.
	statsTool := digtools.NewKnowledgeStatsTool(notes, docs, contexts, lists, idx)
	s.AddTool(statsTool.Definition(), statsTool.Handle)

	// --- Register thinking-workflow tools ---

	hatsTool := digtools.NewSixHatsTool(sessions, docs, renderer, sessionIndexer)
	s.AddTool(hatsTool.Definition(), hatsTool.Handle)

	synthesizeTool := digtools.NewSynthesizeKnowledgeTool(sessions, docs, renderer, sessionIndexer)
	s.AddTool(synthesizeTool.Definition(), synthesizeTool.Handle)

	// --- Register packaging tools ---

	exportTool := digtools.NewExportKnowledgeTool(cfg.Root, Version)
	s.AddTool(exportTool.Definition(), exportTool.Handle)

	importTool := digtools.NewImportKnowledgeTool(cfg.Root)
	s.AddTool(importTool.Definition(), importTool.Handle)

	// --- Register index-backed search tools ---

	if idx != nil {
		registerSearchTools(s, idx, cfg)
	}

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	wrapupPrompt := prompts.NewWrapupPrompt()
	s.AddPrompt(wrapupPrompt.Definition(), wrapupPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(docs, notes)
	s.AddResource(resourceHandler.CatalogResource(), resourceHandler.HandleCatalog)
	s.AddResource(resourceHandler.ProjectsResource(), resourceHandler.HandleProjects)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when the index
// is disabled or hasn't been opened.
func noop() {}

// registerSearchTools registers the tools that require a live document
// index: full-text search, similarity lookup, and reindexing.
func registerSearchTools(s *server.MCPServer, idx *index.Store, cfg *config.Config) {
	searchTool := digtools.NewSearchKnowledgeTool(idx)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	similarTool := digtools.NewFindSimilarDocumentsTool(idx)
	s.AddTool(similarTool.Definition(), similarTool.Handle)

	reindexTool := digtools.NewReindexDocumentsTool(
		idx, cfg.BranchNotesDir(), cfg.KnowledgeDir(), cfg.ContextDir(),
	)
	s.AddTool(reindexTool.Definition(), reindexTool.Handle)
}

// serverInstructions returns the system instructions that tell the AI
// how to use Trowel effectively.
func serverInstructions() string {
	return `You have access to Trowel, a Knowledge Archaeology MCP server.

Trowel persists development knowledge as markdown files on the local
machine: per-branch work logs (branch notes), categorized knowledge
documents, per-project context files, and checklists. Archaeology tools
dig reports out of those files.

## WHEN TO ACTIVATE Trowel

You MUST proactively use Trowel when:
- A work session starts — recover context BEFORE touching code
- You complete a meaningful unit of work — log it while it is fresh
- The user commits — seal the logged entries under that commit
- A session ends — wrap up so the next session can resume cleanly
- You learn something durable: a pattern, a gotcha, a decision

You do NOT need Trowel for:
- Questions and explanations that touch no project state
- Trivial changes nobody will care about next week

## CRITICAL: How Tools Work

Trowel tools are STORAGE tools, not AI tools. They save content YOU
generate. The workflow is always:

1. Do or discuss the actual work
2. Write the entry/document/checklist content yourself
3. Call the tool with the REAL content as parameters

NEVER call a tool with placeholder text like "TBD" or "work in progress".

## Branch Notes — the Work Log

One append-only note per (project, branch) pair. The session workflow:

1. SESSION START — call read_branch_notes (scope=uncommitted) to see
   work in flight, and dig_timeline (days=7) for recent activity across
   all branches of the project.
2. DURING WORK — after each meaningful unit (bug fixed, endpoint added,
   refactor landed), call update_branch_note with a 1-3 sentence entry.
   Present tense, specific: "Wired retry logic into the webhook sender"
   beats "worked on webhooks".
3. BEFORE COMMITTING — call generate_commit_message (style=concise or
   detailed) to draft a message from the uncommitted entries.
4. AFTER A COMMIT — call add_commit_separator with the hash and message.
   This seals the logged entries under that commit; new entries start
   the next uncommitted batch.
5. STANDUP / TICKET UPDATE — generate_jira_comment renders the note as
   Jira wiki markup, ready to paste.

When a branch merges, archive_branch_note moves the note to a dated
archive and resets the live file. clear_branch_note archives first, then
truncates — history is never lost. filter_branch_note slices a note by
date range when you only need part of it.

### Entry guidelines
- One entry per unit of work, logged AS IT HAPPENS — end-of-day
  recollection loses the detail that makes notes useful
- Name files, decisions, and symptoms: future sessions search for these
- Never start an entry line with "## " — that prefix delimits sections

## Knowledge Documents

Save durable, reusable knowledge with save_knowledge. Categories:
- pattern: a reusable approach ("Retry budgets for webhook storms")
- decision: a choice made and the reasoning behind it
- gotcha: a trap the next person would hit
- process: a how-to or runbook
- reference: pointers to external material

BEFORE saving, call find_similar_documents with a short description of
the topic — if a close match exists, update that doc (save_knowledge
with the same title overwrites) instead of creating a near-duplicate.

Retrieve with search_knowledge (keyword query, optional kind and project
filters), then get_knowledge by slug for the full text.

## Context Files and Checklists

- save_context_file / get_context_file / list_context_files: per-project
  free-form context — architecture sketches, environment quirks, the
  things you re-explain every session.
- create_checklist / add_checklist_item / check_checklist_item /
  get_checklist / list_checklists: release steps, review gates, QA
  passes. Items are checked off by 1-based position.

## Archaeology Reports

- dig_timeline: day-grouped activity merged across branches. Bound the
  window with days, the size with detail_level.
- dig_narrative: the story of one branch (or every branch) — a chapter
  per commit, loose ends for uncommitted work.
- dig_survey: store inventory plus heuristic scores for every knowledge
  doc (completeness, complexity, readiness) and the docs most in need
  of excavation.
- dig_gaps: scan a source tree for directories no documentation covers.
  Focus the scan with include/exclude globs.
- knowledge_stats: one-call counters for the whole store and the index.

dig_timeline and dig_survey accept detail_level (summary | standard |
full). Start with summary for orientation; request full only when you
need everything. Reports include an estimated-token footer — use it to
decide whether to drill deeper.

## Search and the Index

search_knowledge is full-text keyword search (BM25-ranked) over branch
notes, knowledge docs, and context files. find_similar_documents takes
free text, extracts its keywords, and ranks matches — use it for "have
we seen this before?" moments.

The index updates on every save. After editing store files outside the
server, or after import_knowledge, call reindex_documents.

## Thinking Workflows

Two steppers persist multi-step thinking sessions across conversations:

- six_hats: blue-open → white → red → yellow → black → green →
  blue-close. Start with a topic, advance with your notes for each hat,
  conclude with closing notes.
- synthesize_knowledge: gather → cluster → distill → connect → record.
  Advancing past record completes the synthesis.

One active session per kind at a time. Completing a session writes its
summary as a knowledge doc (category process) automatically. Use
action=status to see where a session stands. Record REAL thinking at
each step — the summary is only as good as the notes.

## Export / Import

export_knowledge zips the store (scope=all, or scope=project with a
project name) together with a manifest. import_knowledge unpacks an
archive into the store, skipping files that already exist unless
overwrite=true. Run reindex_documents after an import.

## Important Rules
- Log entries AS THEY HAPPEN, not in one batch at session end
- NEVER pass placeholder text — generate real content
- add_commit_separator right after committing, never before
- Search before saving knowledge — updating beats duplicating
- Project and branch names are sanitized to [A-Za-z0-9-_]; pass them as
  git reports them and let the server normalize`
}
