// Package index maintains the local document index behind keyword search
// and find_similar_documents. Markdown files from the knowledge store are
// mirrored into a SQLite FTS5 table; an xxhash of each file's content
// detects unchanged documents so reindexing stays cheap. The index is a
// cache: it can always be rebuilt from the files, so schema migrations are
// non-destructive but never precious.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
	_ "modernc.org/sqlite"
)

// Document kinds mirrored into the index.
const (
	KindBranchNote = "branch_note"
	KindKnowledge  = "knowledge"
	KindContext    = "context"
)

// Document is one indexed markdown file.
type Document struct {
	ID      int64
	Path    string
	Kind    string
	Project string
	Title   string
	Body    string
	Hash    string
}

// Store wraps the SQLite database holding the document index.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the index database at path and runs migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("index: create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("index: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("index: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("index: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			path       TEXT    NOT NULL UNIQUE,
			kind       TEXT    NOT NULL,
			project    TEXT    NOT NULL DEFAULT '',
			title      TEXT    NOT NULL DEFAULT '',
			body       TEXT    NOT NULL,
			hash       TEXT    NOT NULL,
			indexed_at TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_docs_kind    ON documents(kind);
		CREATE INDEX IF NOT EXISTS idx_docs_project ON documents(project);
		CREATE INDEX IF NOT EXISTS idx_docs_indexed ON documents(indexed_at DESC);

		CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
			title,
			body,
			kind,
			project,
			content='documents',
			content_rowid='id'
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// FTS triggers (idempotent).
	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='trigger' AND name='doc_fts_insert'",
	).Scan(&name)

	if err == sql.ErrNoRows {
		triggers := `
			CREATE TRIGGER doc_fts_insert AFTER INSERT ON documents BEGIN
				INSERT INTO documents_fts(rowid, title, body, kind, project)
				VALUES (new.id, new.title, new.body, new.kind, new.project);
			END;

			CREATE TRIGGER doc_fts_delete AFTER DELETE ON documents BEGIN
				INSERT INTO documents_fts(documents_fts, rowid, title, body, kind, project)
				VALUES ('delete', old.id, old.title, old.body, old.kind, old.project);
			END;

			CREATE TRIGGER doc_fts_update AFTER UPDATE ON documents BEGIN
				INSERT INTO documents_fts(documents_fts, rowid, title, body, kind, project)
				VALUES ('delete', old.id, old.title, old.body, old.kind, old.project);
				INSERT INTO documents_fts(rowid, title, body, kind, project)
				VALUES (new.id, new.title, new.body, new.kind, new.project);
			END;
		`
		if _, err := s.db.Exec(triggers); err != nil {
			return err
		}
	} else if err != nil && err != sql.ErrNoRows {
		return err
	}

	return nil
}

// Upsert inserts or refreshes one document. It reports whether anything
// changed; a document whose content hash matches the stored row is left
// untouched.
func (s *Store) Upsert(doc Document) (bool, error) {
	if doc.Hash == "" {
		doc.Hash = ContentHash(doc.Body)
	}

	var existing string
	err := s.db.QueryRow(`SELECT hash FROM documents WHERE path = ?`, doc.Path).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		_, err := s.db.Exec(
			`INSERT INTO documents (path, kind, project, title, body, hash) VALUES (?, ?, ?, ?, ?, ?)`,
			doc.Path, doc.Kind, doc.Project, doc.Title, doc.Body, doc.Hash,
		)
		if err != nil {
			return false, fmt.Errorf("index: insert %s: %w", doc.Path, err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("index: lookup %s: %w", doc.Path, err)
	case existing == doc.Hash:
		return false, nil
	default:
		_, err := s.db.Exec(
			`UPDATE documents
			 SET kind = ?, project = ?, title = ?, body = ?, hash = ?, indexed_at = datetime('now')
			 WHERE path = ?`,
			doc.Kind, doc.Project, doc.Title, doc.Body, doc.Hash, doc.Path,
		)
		if err != nil {
			return false, fmt.Errorf("index: update %s: %w", doc.Path, err)
		}
		return true, nil
	}
}

// Delete removes one document by path. Missing paths are not an error.
func (s *Store) Delete(path string) error {
	if _, err := s.db.Exec(`DELETE FROM documents WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete %s: %w", path, err)
	}
	return nil
}

// Paths returns every indexed path of one kind.
func (s *Store) Paths(kind string) ([]string, error) {
	rows, err := s.db.Query(`SELECT path FROM documents WHERE kind = ?`, kind)
	if err != nil {
		return nil, fmt.Errorf("index: list paths: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Counts returns the number of indexed documents per kind.
func (s *Store) Counts() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT kind, COUNT(*) FROM documents GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("index: counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// ContentHash returns the xxhash of a document body as 16 hex characters.
func ContentHash(body string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(body))
}

var headingLine = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)

// FirstHeading extracts the first markdown heading of a document, used as
// the indexed title when nothing better is known.
func FirstHeading(text string) string {
	if m := headingLine.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// Truncate shortens s to max runes, appending "..." when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
