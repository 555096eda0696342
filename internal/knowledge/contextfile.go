package knowledge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrContextNotFound marks a lookup for a context file that does not exist.
var ErrContextNotFound = errors.New("context file not found")

// ContextInfo summarizes one stored context file.
type ContextInfo struct {
	Project   string
	Name      string
	Path      string
	Size      int64
	UpdatedAt time.Time
}

// ContextStore persists per-project context files under
// <dir>/<project>/<name>.md. Names and projects are sanitized the same way
// branch note identities are.
type ContextStore struct {
	dir      string
	sanitize func(string) string
}

// NewContextStore creates a ContextStore rooted at dir (the context
// directory). sanitize maps raw project/name tokens onto path-safe ones.
func NewContextStore(dir string, sanitize func(string) string) *ContextStore {
	return &ContextStore{dir: dir, sanitize: sanitize}
}

// Path returns the file a (project, name) pair maps to.
func (s *ContextStore) Path(project, name string) string {
	return filepath.Join(s.dir, s.sanitize(project), s.sanitize(name)+".md")
}

// Save writes a rendered context file, replacing any previous version.
func (s *ContextStore) Save(project, name, content string) (string, error) {
	path := s.Path(project, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating context directory for %s: %w", project, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing context file %s: %w", name, err)
	}
	return path, nil
}

// Get reads a context file back, ErrContextNotFound when absent.
func (s *ContextStore) Get(project, name string) (string, error) {
	data, err := os.ReadFile(s.Path(project, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s/%s", ErrContextNotFound, project, name)
		}
		return "", fmt.Errorf("reading context file %s: %w", name, err)
	}
	return string(data), nil
}

// Projects returns the projects that have at least one context file.
func (s *ContextStore) Projects() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing context projects: %w", err)
	}

	var projects []string
	for _, e := range entries {
		if e.IsDir() {
			projects = append(projects, e.Name())
		}
	}
	sort.Strings(projects)
	return projects, nil
}

// List returns the context files of one project, newest first.
func (s *ContextStore) List(project string) ([]ContextInfo, error) {
	p := s.sanitize(project)
	entries, err := os.ReadDir(filepath.Join(s.dir, p))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing context files for %s: %w", project, err)
	}

	var infos []ContextInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		info := ContextInfo{
			Project: p,
			Name:    strings.TrimSuffix(e.Name(), ".md"),
			Path:    filepath.Join(s.dir, p, e.Name()),
		}
		if fi, err := e.Info(); err == nil {
			info.Size = fi.Size()
			info.UpdatedAt = fi.ModTime()
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
	})
	return infos, nil
}
