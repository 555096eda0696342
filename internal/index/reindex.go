package index

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// reindexWorkers bounds concurrent file reads during a reindex.
const reindexWorkers = 4

// Source is one markdown tree mirrored into the index.
type Source struct {
	Kind string
	Dir  string
}

// Stats summarizes a reindex run.
type Stats struct {
	Scanned   int
	Indexed   int
	Unchanged int
	Removed   int
}

// Reindex walks the given sources and synchronizes the index with the
// files on disk: new and changed documents are upserted, rows whose files
// are gone are removed. File reads run concurrently; writes funnel through
// the shared connection pool.
func (s *Store) Reindex(ctx context.Context, sources []Source) (Stats, error) {
	var (
		mu    sync.Mutex
		stats Stats
		seen  = make(map[string]map[string]bool)
	)
	for _, src := range sources {
		seen[src.Kind] = make(map[string]bool)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(reindexWorkers)

	for _, src := range sources {
		files, err := collectMarkdown(src)
		if err != nil {
			return stats, err
		}
		for _, path := range files {
			mu.Lock()
			seen[src.Kind][path] = true
			stats.Scanned++
			mu.Unlock()

			src, path := src, path
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				data, err := os.ReadFile(path)
				if err != nil {
					// The file vanished between walk and read; the
					// stale-row sweep below will drop it next run.
					slog.Warn("skipping unreadable file during reindex", "path", path, "error", err)
					return nil
				}
				doc := Document{
					Path:    path,
					Kind:    src.Kind,
					Project: projectFromPath(src, path),
					Title:   FirstHeading(string(data)),
					Body:    string(data),
				}
				changed, err := s.Upsert(doc)
				if err != nil {
					return err
				}
				mu.Lock()
				if changed {
					stats.Indexed++
				} else {
					stats.Unchanged++
				}
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("index: reindex: %w", err)
	}

	// Sweep rows whose files no longer exist, per reindexed kind.
	for kind, paths := range seen {
		indexed, err := s.Paths(kind)
		if err != nil {
			return stats, err
		}
		for _, p := range indexed {
			if !paths[p] {
				if err := s.Delete(p); err != nil {
					return stats, err
				}
				stats.Removed++
			}
		}
	}

	return stats, nil
}

// collectMarkdown lists the .md files of a source tree. A missing source
// directory is an empty source, not an error.
func collectMarkdown(src Source) ([]string, error) {
	var files []string
	err := filepath.WalkDir(src.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			// Archived branch notes stay out of the live index.
			if d.Name() == "archives" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("index: walking %s: %w", src.Dir, err)
	}
	return files, nil
}

// projectFromPath recovers the project segment for per-project trees
// (branch notes, context files). Knowledge docs are project-less.
func projectFromPath(src Source, path string) string {
	if src.Kind == KindKnowledge {
		return ""
	}
	rel, err := filepath.Rel(src.Dir, path)
	if err != nil {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}
