package knowledge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrDocNotFound marks a lookup for a knowledge document that does not
// exist under any category.
var ErrDocNotFound = errors.New("knowledge document not found")

// ErrAmbiguousName marks a prefix lookup that matches more than one
// document. A usage problem, not an I/O one.
var ErrAmbiguousName = errors.New("ambiguous document name")

// DocStore persists knowledge documents under <dir>/<category>/<slug>.md.
type DocStore struct {
	dir string
}

// NewDocStore creates a DocStore rooted at dir (the knowledge directory).
func NewDocStore(dir string) *DocStore {
	return &DocStore{dir: dir}
}

// Path returns the file a (category, slug) pair maps to.
func (s *DocStore) Path(category Category, slug string) string {
	return filepath.Join(s.dir, string(category), slug+".md")
}

// Save writes a rendered document, creating category directories as
// needed. Saving over an existing slug replaces the document.
func (s *DocStore) Save(category Category, slug, content string) (string, error) {
	if err := ValidateCategory(category); err != nil {
		return "", err
	}
	path := s.Path(category, slug)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating category directory %s: %w", category, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing document %s: %w", slug, err)
	}
	return path, nil
}

// Get loads a document by slug, searching every category. An exact slug
// match wins; otherwise the first unique prefix match is used, so short
// names work from the CLI side of a conversation.
func (s *DocStore) Get(name string) (Doc, string, error) {
	docs, err := s.List("")
	if err != nil {
		return Doc{}, "", err
	}

	name = Slugify(name)
	var match *Doc
	for i := range docs {
		if docs[i].Slug == name {
			match = &docs[i]
			break
		}
	}
	if match == nil {
		for i := range docs {
			if strings.HasPrefix(docs[i].Slug, name) {
				if match != nil {
					return Doc{}, "", fmt.Errorf("%w %q (matches %s and %s)", ErrAmbiguousName, name, match.Slug, docs[i].Slug)
				}
				match = &docs[i]
			}
		}
	}
	if match == nil {
		return Doc{}, "", fmt.Errorf("%w: %s", ErrDocNotFound, name)
	}

	data, err := os.ReadFile(match.Path)
	if err != nil {
		return Doc{}, "", fmt.Errorf("reading document %s: %w", match.Slug, err)
	}
	return *match, string(data), nil
}

// List returns document summaries for one category, or all categories when
// category is empty, sorted by most recently updated.
func (s *DocStore) List(category Category) ([]Doc, error) {
	categories := []Category{category}
	if category == "" {
		categories = nil
		for _, c := range CategoryValues() {
			categories = append(categories, Category(c))
		}
	}

	var docs []Doc
	for _, c := range categories {
		entries, err := os.ReadDir(filepath.Join(s.dir, string(c)))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("listing category %s: %w", c, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
				continue
			}
			path := filepath.Join(s.dir, string(c), e.Name())
			doc := Doc{
				Slug:     strings.TrimSuffix(e.Name(), ".md"),
				Category: c,
				Path:     path,
			}
			if info, err := e.Info(); err == nil {
				doc.UpdatedAt = info.ModTime()
			}
			if data, err := os.ReadFile(path); err == nil {
				title, _, tags := ParseMeta(string(data))
				doc.Title = title
				doc.Tags = tags
			}
			docs = append(docs, doc)
		}
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
	return docs, nil
}

// Count returns the number of stored documents across all categories.
func (s *DocStore) Count() (int, error) {
	docs, err := s.List("")
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}
