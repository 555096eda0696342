package hats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SessionFile is the filename for persisted sessions.
const SessionFile = "session.json"

// ErrSessionNotFound marks a lookup for a session that does not exist.
var ErrSessionNotFound = errors.New("session not found")

// ErrActiveSession marks an attempt to start a session while another of
// the same kind is still active.
var ErrActiveSession = errors.New("active session exists")

// Store defines the persistence interface for sessions.
// Abstracted so tools depend on the interface, not the filesystem.
type Store interface {
	Create(s *Session) error
	Load(kind Kind, slug string) (*Session, error)
	LoadActive(kind Kind) (*Session, error)
	Save(s *Session) error
	List(kind Kind) ([]Session, error)
}

// FileStore implements Store under a sessions directory:
// <dir>/<kind>/<slug>/session.json.
type FileStore struct {
	dir string
}

// NewFileStore creates a filesystem-backed session store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// sessionPath returns the absolute path to a session's session.json.
func (fs *FileStore) sessionPath(kind Kind, slug string) string {
	return filepath.Join(fs.dir, string(kind), slug, SessionFile)
}

// Create persists a new session, creating the directory structure.
// Only one active session per kind is allowed; creating a second fails
// with a pointer at the existing one. Slug collisions with finished
// sessions get a numeric suffix (-2, -3, etc.).
func (fs *FileStore) Create(s *Session) error {
	active, err := fs.LoadActive(s.Kind)
	if err != nil {
		return err
	}
	if active != nil {
		return fmt.Errorf("%w: %s session %q is open: advance or conclude it first",
			ErrActiveSession, s.Kind, active.Slug)
	}

	originalSlug := s.Slug
	suffix := 2
	for {
		if _, err := os.Stat(filepath.Dir(fs.sessionPath(s.Kind, s.Slug))); os.IsNotExist(err) {
			break
		}
		s.Slug = fmt.Sprintf("%s-%d", originalSlug, suffix)
		suffix++
	}

	return fs.write(s)
}

// Load reads a session by kind and slug.
func (fs *FileStore) Load(kind Kind, slug string) (*Session, error) {
	data, err := os.ReadFile(fs.sessionPath(kind, slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrSessionNotFound, kind, slug)
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing session.json for %s/%s: %w", kind, slug, err)
	}
	return &s, nil
}

// LoadActive scans a kind's sessions and returns the active one.
// Returns nil (not an error) if no active session exists.
func (fs *FileStore) LoadActive(kind Kind) (*Session, error) {
	kindDir := filepath.Join(fs.dir, string(kind))
	entries, err := os.ReadDir(kindDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading sessions directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		s, err := fs.Load(kind, entry.Name())
		if err != nil {
			continue // skip unreadable sessions
		}
		if s.Status == StatusActive {
			return s, nil
		}
	}

	return nil, nil
}

// Save updates an existing session record.
func (fs *FileStore) Save(s *Session) error {
	return fs.write(s)
}

// List returns all sessions of a kind, including finished ones.
func (fs *FileStore) List(kind Kind) ([]Session, error) {
	kindDir := filepath.Join(fs.dir, string(kind))
	entries, err := os.ReadDir(kindDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading sessions directory: %w", err)
	}

	var result []Session
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		s, err := fs.Load(kind, entry.Name())
		if err != nil {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

// write marshals and writes a session to its session.json.
func (fs *FileStore) write(s *Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	path := fs.sessionPath(s.Kind, s.Slug)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
