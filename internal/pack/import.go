package pack

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotAnExport marks an archive without a readable manifest.
var ErrNotAnExport = errors.New("archive has no manifest.json")

// ImportStats reports what an import did.
type ImportStats struct {
	Manifest *Manifest
	Imported int
	Skipped  int
}

// Import unpacks an export archive into root. Existing files are
// skipped unless overwrite is set. Entries that would escape root are
// rejected outright.
func Import(root, archivePath string, overwrite bool) (*ImportStats, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer zr.Close()
	registerInflate(zr)

	manifest, err := readManifest(zr)
	if err != nil {
		return nil, err
	}

	cleanRoot := filepath.Clean(root)
	stats := &ImportStats{Manifest: manifest}

	for _, f := range zr.File {
		if f.Name == ManifestName {
			continue
		}

		dest, err := safeJoin(cleanRoot, f.Name)
		if err != nil {
			return nil, err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return nil, fmt.Errorf("creating %s: %w", f.Name, err)
			}
			continue
		}

		if _, err := os.Stat(dest); err == nil && !overwrite {
			stats.Skipped++
			continue
		}

		if err := extractFile(f, dest); err != nil {
			return nil, err
		}
		stats.Imported++
	}

	return stats, nil
}

// readManifest locates and decodes the manifest entry.
func readManifest(zr *zip.ReadCloser) (*Manifest, error) {
	for _, f := range zr.File {
		if f.Name != ManifestName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening manifest: %w", err)
		}
		defer rc.Close()

		var m Manifest
		if err := json.NewDecoder(rc).Decode(&m); err != nil {
			return nil, fmt.Errorf("parsing manifest: %w", err)
		}
		return &m, nil
	}
	return nil, ErrNotAnExport
}

// safeJoin resolves an archive entry name under root, rejecting
// absolute names and anything that climbs out (Zip-Slip).
func safeJoin(cleanRoot, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("archive entry %q has an absolute path", name)
	}
	dest := filepath.Join(cleanRoot, filepath.FromSlash(name))
	if dest != cleanRoot && !strings.HasPrefix(dest, cleanRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes the import root", name)
	}
	return dest, nil
}

// extractFile writes one archive entry to dest, creating parents.
func extractFile(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	return out.Close()
}
