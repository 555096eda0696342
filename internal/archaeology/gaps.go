// gaps.go implements the documentation-gap scanner. It walks a source
// tree and reports directories that hold source files but have no
// documentation anywhere on their path within the scanned root.
package archaeology

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// ignoreDirs are directories skipped during tree walks.
// Common build outputs, caches, VCS dirs, and dependency directories.
var ignoreDirs = map[string]bool{
	"node_modules": true, ".git": true, "__pycache__": true,
	"vendor": true, "dist": true, "build": true, "target": true,
	".next": true, ".nuxt": true, "venv": true, ".venv": true,
	".idea": true, ".vscode": true, "coverage": true,
	".cache": true, ".tmp": true, ".terraform": true,
}

// sourceExts mark a file as source code for gap purposes.
var sourceExts = map[string]bool{
	".go": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".py": true, ".java": true, ".kt": true, ".rs": true, ".rb": true,
	".c": true, ".h": true, ".cpp": true, ".cc": true, ".cs": true,
	".swift": true, ".scala": true, ".php": true, ".ex": true, ".exs": true,
}

// isDocFile reports whether a filename documents its directory:
// any README variant or any markdown file.
func isDocFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "readme") || strings.HasSuffix(lower, ".md")
}

// Gap is one undocumented directory.
type Gap struct {
	Dir         string `json:"dir"` // slash path relative to the scanned root
	SourceFiles int    `json:"source_files"`
}

// GapReport summarizes a documentation-gap scan.
type GapReport struct {
	Root        string `json:"root"`
	ScannedDirs int    `json:"scanned_dirs"`
	SourceDirs  int    `json:"source_dirs"`
	DocFiles    int    `json:"doc_files"`
	Gaps        []Gap  `json:"gaps"`
}

// ScanGaps walks root and finds directories containing source files
// with no documentation in the directory itself or any ancestor inside
// root. include and exclude are optional glob patterns matched against
// slash-relative file paths: include limits which files count as
// source, exclude drops files entirely.
func ScanGaps(root, include, exclude string) (*GapReport, error) {
	var includeGlob, excludeGlob glob.Glob
	var err error
	if include != "" {
		includeGlob, err = glob.Compile(include, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", include, err)
		}
	}
	if exclude != "" {
		excludeGlob, err = glob.Compile(exclude, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", exclude, err)
		}
	}

	report := &GapReport{Root: root}
	sources := map[string]int{} // rel dir -> source file count
	documented := map[string]bool{}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // graceful degradation
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && ignoreDirs[d.Name()] {
				return filepath.SkipDir
			}
			report.ScannedDirs++
			return nil
		}

		if excludeGlob != nil && excludeGlob.Match(rel) {
			return nil
		}

		dir := filepath.ToSlash(filepath.Dir(rel))
		if isDocFile(d.Name()) {
			report.DocFiles++
			documented[dir] = true
			return nil
		}

		if !sourceExts[filepath.Ext(d.Name())] {
			return nil
		}
		if includeGlob != nil && !includeGlob.Match(rel) {
			return nil
		}
		sources[dir]++
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, walkErr)
	}

	report.SourceDirs = len(sources)
	for dir, count := range sources {
		if covered(dir, documented) {
			continue
		}
		report.Gaps = append(report.Gaps, Gap{Dir: dir, SourceFiles: count})
	}
	sort.Slice(report.Gaps, func(i, j int) bool {
		return report.Gaps[i].Dir < report.Gaps[j].Dir
	})
	return report, nil
}

// covered reports whether dir or any ancestor (up to ".") holds a doc
// file.
func covered(dir string, documented map[string]bool) bool {
	for {
		if documented[dir] {
			return true
		}
		if dir == "." || dir == "/" || dir == "" {
			return false
		}
		parent := filepath.ToSlash(filepath.Dir(dir))
		if parent == dir {
			return false
		}
		dir = parent
	}
}

// RenderGaps formats a gap report as markdown.
func RenderGaps(report *GapReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# 🕳️ Documentation Gaps: %s\n\n", report.Root)
	fmt.Fprintf(&sb, "Scanned %d directories (%d with source, %d doc files found).\n\n",
		report.ScannedDirs, report.SourceDirs, report.DocFiles)

	if len(report.Gaps) == 0 {
		sb.WriteString("✅ Every source directory is covered by documentation.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "## Undocumented directories (%d)\n\n", len(report.Gaps))
	for _, g := range report.Gaps {
		fmt.Fprintf(&sb, "- `%s` (%d source files)\n", g.Dir, g.SourceFiles)
	}
	sb.WriteString("\nStart with the directories holding the most source files.\n")
	return sb.String()
}
