package pack

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ExportOptions selects what goes into an archive.
type ExportOptions struct {
	Scope   string // ScopeAll or ScopeProject
	Project string // required for ScopeProject
	Version string // tool version recorded in the manifest
}

// Export writes the selected subtrees of root into a ZIP at outPath and
// returns the manifest that was embedded in the archive.
func Export(root, outPath string, opts ExportOptions) (*Manifest, error) {
	if opts.Scope == "" {
		opts.Scope = ScopeAll
	}
	if opts.Scope != ScopeAll && opts.Scope != ScopeProject {
		return nil, fmt.Errorf("invalid export scope %q: must be %q or %q", opts.Scope, ScopeAll, ScopeProject)
	}
	if opts.Scope == ScopeProject && opts.Project == "" {
		return nil, fmt.Errorf("project-scoped export needs a project name")
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	registerDeflate(zw)

	manifest := &Manifest{
		ID:        uuid.New().String(),
		CreatedAt: timeNow().UTC().Format("2006-01-02T15:04:05Z07:00"),
		Scope:     opts.Scope,
		Project:   opts.Project,
		Version:   opts.Version,
	}

	for _, dir := range exportDirs(opts) {
		n, err := addTree(zw, root, dir)
		if err != nil {
			zw.Close()
			return nil, err
		}
		manifest.Files += n
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		zw.Close()
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	w, err := zw.Create(ManifestName)
	if err != nil {
		zw.Close()
		return nil, fmt.Errorf("adding manifest: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		zw.Close()
		return nil, fmt.Errorf("writing manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}
	return manifest, nil
}

// exportDirs returns the root-relative directories an export covers.
func exportDirs(opts ExportOptions) []string {
	if opts.Scope == ScopeAll {
		return storeSubtrees
	}
	dirs := make([]string, 0, len(projectSubtrees))
	for _, sub := range projectSubtrees {
		dirs = append(dirs, filepath.Join(sub, opts.Project))
	}
	return dirs
}

// addTree walks one subtree and adds every regular file to the archive
// under its root-relative slash path. A missing subtree adds nothing.
func addTree(zw *zip.Writer, root, dir string) (int, error) {
	base := filepath.Join(root, dir)
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return 0, nil
	}

	count := 0
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		fh, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		fh.Name = name
		fh.Method = zip.Deflate

		w, err := zw.CreateHeader(fh)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, src)
		src.Close()
		if err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("archiving %s: %w", dir, err)
	}
	return count, nil
}
