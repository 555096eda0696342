// Package pack implements ZIP export and import of the knowledge
// store. Archives are plain ZIPs with a manifest.json entry, so they
// can be inspected and unpacked with any ZIP tool; compression uses the
// klauspost deflate for speed on big stores.
package pack

import (
	"archive/zip"
	"io"

	"github.com/klauspost/compress/flate"
)

// ManifestName is the archive entry holding export metadata.
const ManifestName = "manifest.json"

// Export scopes.
const (
	ScopeAll     = "all"
	ScopeProject = "project"
)

// Manifest identifies an export archive.
type Manifest struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Scope     string `json:"scope"`
	Project   string `json:"project,omitempty"`
	Files     int    `json:"files"`
	Version   string `json:"version"`
}

// storeSubtrees are the store directories included in a full export,
// relative to the storage root.
var storeSubtrees = []string{
	"branch_notes",
	"knowledge",
	"context",
	"checklists",
	"sessions",
}

// projectSubtrees are the per-project directories; a project-scoped
// export takes <subtree>/<project> from each.
var projectSubtrees = []string{
	"branch_notes",
	"context",
	"checklists",
}

// registerDeflate installs the klauspost deflate as the Deflate codec
// on a zip writer.
func registerDeflate(zw *zip.Writer) {
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})
}

// registerInflate installs the matching decompressor on a zip reader.
func registerInflate(zr *zip.ReadCloser) {
	zr.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})
}
