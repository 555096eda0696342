package pack

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func seedStore(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"branch_notes/demo/main.md":    "# Branch Note: main (demo)\n\n## 2026-08-20 09:00:00\nfirst\n\n",
		"branch_notes/other/main.md":   "# Branch Note: main (other)\n\n",
		"knowledge/pattern/pool.md":    "# Pool Sizing\n\nbody\n",
		"context/demo/architecture.md": "# Architecture\n\nnotes\n",
		"checklists/demo/release.md":   "# release\n\n- [ ] tag\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

// --- Export ---

func TestExport_RoundTrip(t *testing.T) {
	src := seedStore(t)
	archive := filepath.Join(t.TempDir(), "export.zip")

	manifest, err := Export(src, archive, ExportOptions{Scope: ScopeAll, Version: "1.2.3"})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if manifest.Files != 5 {
		t.Errorf("manifest files = %d, want 5", manifest.Files)
	}
	if manifest.ID == "" || manifest.Version != "1.2.3" || manifest.Scope != ScopeAll {
		t.Errorf("manifest = %+v", manifest)
	}

	dst := t.TempDir()
	stats, err := Import(dst, archive, false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Imported != 5 || stats.Skipped != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Manifest.ID != manifest.ID {
		t.Errorf("imported manifest ID = %q, want %q", stats.Manifest.ID, manifest.ID)
	}

	got, err := os.ReadFile(filepath.Join(dst, "branch_notes", "demo", "main.md"))
	if err != nil {
		t.Fatalf("reading imported note: %v", err)
	}
	if !strings.Contains(string(got), "## 2026-08-20 09:00:00") {
		t.Errorf("imported note content:\n%s", got)
	}
}

func TestExport_ProjectScope(t *testing.T) {
	src := seedStore(t)
	archive := filepath.Join(t.TempDir(), "demo.zip")

	manifest, err := Export(src, archive, ExportOptions{Scope: ScopeProject, Project: "demo"})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	// demo has one note, one context file, one checklist; the other
	// project and the global knowledge tree stay out.
	if manifest.Files != 3 {
		t.Errorf("manifest files = %d, want 3", manifest.Files)
	}

	zr, err := zip.OpenReader(archive)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if strings.Contains(f.Name, "other") || strings.Contains(f.Name, "knowledge") {
			t.Errorf("project export leaked %s", f.Name)
		}
	}
}

func TestExport_ValidatesScope(t *testing.T) {
	if _, err := Export(t.TempDir(), filepath.Join(t.TempDir(), "x.zip"), ExportOptions{Scope: "everything"}); err == nil {
		t.Error("bad scope should be rejected")
	}
	if _, err := Export(t.TempDir(), filepath.Join(t.TempDir(), "x.zip"), ExportOptions{Scope: ScopeProject}); err == nil {
		t.Error("project scope without a project should be rejected")
	}
}

func TestExport_EmptyStore(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "empty.zip")
	manifest, err := Export(t.TempDir(), archive, ExportOptions{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if manifest.Files != 0 {
		t.Errorf("files = %d, want 0", manifest.Files)
	}

	// Still a valid archive with a manifest.
	dst := t.TempDir()
	stats, err := Import(dst, archive, false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Imported != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

// --- Import ---

func TestImport_SkipsExistingUnlessOverwrite(t *testing.T) {
	src := seedStore(t)
	archive := filepath.Join(t.TempDir(), "export.zip")
	if _, err := Export(src, archive, ExportOptions{}); err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := t.TempDir()
	existing := filepath.Join(dst, "knowledge", "pattern", "pool.md")
	if err := os.MkdirAll(filepath.Dir(existing), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(existing, []byte("local edits"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	stats, err := Import(dst, archive, false)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Skipped != 1 || stats.Imported != 4 {
		t.Errorf("stats = %+v, want 1 skipped, 4 imported", stats)
	}
	got, _ := os.ReadFile(existing)
	if string(got) != "local edits" {
		t.Error("import without overwrite must not clobber local files")
	}

	stats, err = Import(dst, archive, true)
	if err != nil {
		t.Fatalf("Import(overwrite): %v", err)
	}
	if stats.Skipped != 0 || stats.Imported != 5 {
		t.Errorf("overwrite stats = %+v", stats)
	}
	got, _ = os.ReadFile(existing)
	if string(got) == "local edits" {
		t.Error("overwrite import should replace local files")
	}
}

func TestImport_RejectsZipSlip(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "evil.zip")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	mw, _ := zw.Create(ManifestName)
	mw.Write([]byte(`{"id":"x","scope":"all"}`))
	ew, _ := zw.Create("../outside.md")
	ew.Write([]byte("escape"))
	zw.Close()
	f.Close()

	dst := t.TempDir()
	if _, err := Import(dst, archive, false); err == nil {
		t.Fatal("entry escaping the root should be rejected")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dst), "outside.md")); err == nil {
		t.Error("escaped file must not be written")
	}
}

func TestImport_RequiresManifest(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "plain.zip")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("knowledge/pattern/x.md")
	w.Write([]byte("hi"))
	zw.Close()
	f.Close()

	_, err = Import(t.TempDir(), archive, false)
	if !errors.Is(err, ErrNotAnExport) {
		t.Errorf("err = %v, want ErrNotAnExport", err)
	}
}
