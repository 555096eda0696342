package knowledge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Checklist errors recovered into friendly tool messages.
var (
	ErrChecklistNotFound = errors.New("checklist not found")
	ErrChecklistExists   = errors.New("checklist already exists")
	ErrItemOutOfRange    = errors.New("checklist item number out of range")
)

// Item is one toggleable checklist line.
type Item struct {
	Text string
	Done bool
}

// ChecklistInfo summarizes one checklist for listings.
type ChecklistInfo struct {
	Project string
	Name    string
	Path    string
	Done    int
	Total   int
}

// ChecklistStore persists checklists under <dir>/<project>/<name>.md.
// Unlike branch notes, checklist items are edited in place by design.
type ChecklistStore struct {
	dir      string
	sanitize func(string) string
}

// NewChecklistStore creates a ChecklistStore rooted at dir (the checklists
// directory).
func NewChecklistStore(dir string, sanitize func(string) string) *ChecklistStore {
	return &ChecklistStore{dir: dir, sanitize: sanitize}
}

// Path returns the file a (project, name) pair maps to.
func (s *ChecklistStore) Path(project, name string) string {
	return filepath.Join(s.dir, s.sanitize(project), s.sanitize(name)+".md")
}

// Create writes a new checklist from rendered content. It refuses to
// clobber an existing checklist.
func (s *ChecklistStore) Create(project, name, content string) (string, error) {
	path := s.Path(project, name)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s/%s", ErrChecklistExists, project, name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating checklist directory for %s: %w", project, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing checklist %s: %w", name, err)
	}
	return path, nil
}

// Get reads a checklist and its parsed items.
func (s *ChecklistStore) Get(project, name string) (string, []Item, error) {
	data, err := os.ReadFile(s.Path(project, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("%w: %s/%s", ErrChecklistNotFound, project, name)
		}
		return "", nil, fmt.Errorf("reading checklist %s: %w", name, err)
	}
	text := string(data)
	return text, ParseItems(text), nil
}

// AddItem appends one unchecked item line.
func (s *ChecklistStore) AddItem(project, name, text string) error {
	content, _, err := s.Get(project, name)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += RenderItem(Item{Text: text})
	if err := os.WriteFile(s.Path(project, name), []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing checklist %s: %w", name, err)
	}
	return nil
}

// SetItem toggles the Nth item (1-based, counting item lines only) and
// returns its new state.
func (s *ChecklistStore) SetItem(project, name string, number int, done bool) (Item, error) {
	content, items, err := s.Get(project, name)
	if err != nil {
		return Item{}, err
	}
	if number < 1 || number > len(items) {
		return Item{}, fmt.Errorf("%w: %d (checklist has %d items)", ErrItemOutOfRange, number, len(items))
	}

	lines := strings.Split(content, "\n")
	seen := 0
	for i, line := range lines {
		item, ok := parseItemLine(line)
		if !ok {
			continue
		}
		seen++
		if seen == number {
			item.Done = done
			lines[i] = strings.TrimSuffix(RenderItem(item), "\n")
			if err := os.WriteFile(s.Path(project, name), []byte(strings.Join(lines, "\n")), 0o644); err != nil {
				return Item{}, fmt.Errorf("writing checklist %s: %w", name, err)
			}
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("%w: %d", ErrItemOutOfRange, number)
}

// Projects returns the projects that have at least one checklist.
func (s *ChecklistStore) Projects() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing checklist projects: %w", err)
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

// List returns the checklists of one project with progress counts.
func (s *ChecklistStore) List(project string) ([]ChecklistInfo, error) {
	p := s.sanitize(project)
	entries, err := os.ReadDir(filepath.Join(s.dir, p))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing checklists for %s: %w", project, err)
	}

	var infos []ChecklistInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".md")
		_, items, err := s.Get(p, name)
		if err != nil {
			return nil, err
		}
		info := ChecklistInfo{
			Project: p,
			Name:    name,
			Path:    filepath.Join(s.dir, p, e.Name()),
			Total:   len(items),
		}
		for _, item := range items {
			if item.Done {
				info.Done++
			}
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// ParseItems extracts the toggleable items from checklist text, in order.
func ParseItems(text string) []Item {
	var items []Item
	for _, line := range strings.Split(text, "\n") {
		if item, ok := parseItemLine(line); ok {
			items = append(items, item)
		}
	}
	return items
}

// RenderItem renders one item line, trailing newline included.
func RenderItem(item Item) string {
	mark := " "
	if item.Done {
		mark = "x"
	}
	return fmt.Sprintf("- [%s] %s\n", mark, item.Text)
}

// parseItemLine recognizes "- [ ] text" and "- [x] text" lines.
func parseItemLine(line string) (Item, bool) {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "- [ ] "):
		return Item{Text: strings.TrimPrefix(trimmed, "- [ ] ")}, true
	case strings.HasPrefix(trimmed, "- [x] "), strings.HasPrefix(trimmed, "- [X] "):
		return Item{Text: trimmed[len("- [x] "):], Done: true}, true
	default:
		return Item{}, false
	}
}
