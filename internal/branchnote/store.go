package branchnote

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrNoteNotFound marks a read or separator append against a note file that
// does not exist. Tools recover it into a friendly message instead of an
// error response.
var ErrNoteNotFound = errors.New("branch note not found")

// NoteInfo summarizes one note file for listings.
type NoteInfo struct {
	Project string
	Branch  string
	Path    string
	Entries int
	Commits int
	// LastTimestamp is the header of the newest section, empty for a
	// header-only note.
	LastTimestamp string
}

// Store is the persistence interface for branch notes.
// Implementations own the directory layout below their root.
type Store interface {
	// AppendEntry adds one timestamped entry, creating the note file and
	// its directories on first use. Returns the timestamp written.
	AppendEntry(id Identity, message string) (string, error)
	// AppendCommitSeparator adds a commit marker. Unlike AppendEntry it
	// refuses to create the file: ErrNoteNotFound when the note is absent.
	AppendCommitSeparator(id Identity, hash, message string) (string, error)
	// Read returns the full note text, ErrNoteNotFound when absent.
	Read(id Identity) (string, error)
	// Archive copies the note to a dated archive file, then resets the
	// live file to header-only (keepHeader) or empty. Returns the archive
	// path.
	Archive(id Identity, keepHeader bool) (string, error)
	// List summarizes the notes of one project, or of all projects when
	// project is empty.
	List(project string) ([]NoteInfo, error)
	// Projects returns the known project names.
	Projects() ([]string, error)
	// Path returns the file path a note identity maps to.
	Path(id Identity) string
}

// FileStore stores notes under <dir>/<project>/<branch>.md with per-project
// archives/ subdirectories. Appends are read-modify-write of the whole file;
// a per-file mutex keeps concurrent appends to the same note from losing
// entries.
type FileStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileStore creates a FileStore rooted at dir (the branch_notes
// directory). The directory is created lazily on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

// archivesDirName is the per-project subdirectory holding dated archives.
const archivesDirName = "archives"

// Path returns the live note file for an identity.
func (s *FileStore) Path(id Identity) string {
	return filepath.Join(s.dir, id.Project, id.Branch+".md")
}

// archivePath returns the dated archive file for an identity.
func (s *FileStore) archivePath(id Identity, date string) string {
	return filepath.Join(s.dir, id.Project, archivesDirName, fmt.Sprintf("%s_%s.md", id.Branch, date))
}

// lockFor returns the mutex guarding one note file.
func (s *FileStore) lockFor(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[path] == nil {
		s.locks[path] = &sync.Mutex{}
	}
	return s.locks[path]
}

// AppendEntry implements Store.
func (s *FileStore) AppendEntry(id Identity, message string) (string, error) {
	path := s.Path(id)
	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	existing, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("reading note %s: %w", id, err)
		}
		existing = []byte(Header(id))
	}

	ts := Now()
	content := string(existing) + FormatEntry(ts, message)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating note directory for %s: %w", id, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing note %s: %w", id, err)
	}
	return ts, nil
}

// AppendCommitSeparator implements Store.
func (s *FileStore) AppendCommitSeparator(id Identity, hash, message string) (string, error) {
	path := s.Path(id)
	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNoteNotFound, id)
		}
		return "", fmt.Errorf("reading note %s: %w", id, err)
	}

	ts := Now()
	content := string(existing) + FormatCommitSeparator(hash, message, ts)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing note %s: %w", id, err)
	}
	return ts, nil
}

// Read implements Store.
func (s *FileStore) Read(id Identity) (string, error) {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNoteNotFound, id)
		}
		return "", fmt.Errorf("reading note %s: %w", id, err)
	}
	return string(data), nil
}

// Archive implements Store.
func (s *FileStore) Archive(id Identity, keepHeader bool) (string, error) {
	path := s.Path(id)
	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNoteNotFound, id)
		}
		return "", fmt.Errorf("reading note %s: %w", id, err)
	}

	archive := s.archivePath(id, timeNow().Format("20060102"))
	if err := os.MkdirAll(filepath.Dir(archive), 0o755); err != nil {
		return "", fmt.Errorf("creating archive directory for %s: %w", id, err)
	}
	if err := os.WriteFile(archive, content, 0o644); err != nil {
		return "", fmt.Errorf("writing archive for %s: %w", id, err)
	}

	reset := ""
	if keepHeader {
		reset = Header(id)
	}
	if err := os.WriteFile(path, []byte(reset), 0o644); err != nil {
		return "", fmt.Errorf("resetting note %s: %w", id, err)
	}
	return archive, nil
}

// List implements Store.
func (s *FileStore) List(project string) ([]NoteInfo, error) {
	projects := []string{Sanitize(project)}
	if project == "" {
		all, err := s.Projects()
		if err != nil {
			return nil, err
		}
		projects = all
	}

	var infos []NoteInfo
	for _, p := range projects {
		entries, err := os.ReadDir(filepath.Join(s.dir, p))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("listing notes for %s: %w", p, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
				continue
			}
			branch := strings.TrimSuffix(e.Name(), ".md")
			id := Identity{Project: p, Branch: branch}
			text, err := s.Read(id)
			if err != nil {
				return nil, err
			}
			infos = append(infos, summarize(id, s.Path(id), text))
		}
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Project != infos[j].Project {
			return infos[i].Project < infos[j].Project
		}
		return infos[i].Branch < infos[j].Branch
	})
	return infos, nil
}

// Projects implements Store.
func (s *FileStore) Projects() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing projects: %w", err)
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

// summarize counts a note's sections for listings.
func summarize(id Identity, path, text string) NoteInfo {
	info := NoteInfo{
		Project: id.Project,
		Branch:  id.Branch,
		Path:    path,
	}
	sections := ParseSections(text)
	for _, sec := range sections {
		if sec.IsCommit() {
			info.Commits++
		} else {
			info.Entries++
		}
	}
	if len(sections) > 0 {
		info.LastTimestamp = strings.TrimSpace(sections[len(sections)-1].Header)
	}
	return info
}
