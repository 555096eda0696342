package knowledge

import (
	"errors"
	"strings"
	"testing"
)

func docContent(title, category, tags string) string {
	return "# " + title + "\n\n" +
		"**Category:** " + category + "\n" +
		"**Tags:** " + tags + "\n" +
		"**Created:** 2026-08-20 10:00:00\n\n" +
		"body of " + title + "\n"
}

func TestDocStore_SaveAndGet(t *testing.T) {
	store := NewDocStore(t.TempDir())

	path, err := store.Save(CategoryPattern, "retry-budgets", docContent("Retry Budgets", "pattern", "resilience, http"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.Contains(path, "pattern") {
		t.Errorf("path %q missing category directory", path)
	}

	doc, content, err := store.Get("retry-budgets")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Title != "Retry Budgets" {
		t.Errorf("title = %q", doc.Title)
	}
	if doc.Category != CategoryPattern {
		t.Errorf("category = %q", doc.Category)
	}
	if len(doc.Tags) != 2 {
		t.Errorf("tags = %v", doc.Tags)
	}
	if !strings.Contains(content, "body of Retry Budgets") {
		t.Error("content not round-tripped")
	}
}

func TestDocStore_Save_RejectsUnknownCategory(t *testing.T) {
	store := NewDocStore(t.TempDir())
	if _, err := store.Save("folklore", "x", "# X\n"); err == nil {
		t.Fatal("Save should reject unknown categories")
	}
}

func TestDocStore_Get_PrefixMatch(t *testing.T) {
	store := NewDocStore(t.TempDir())
	if _, err := store.Save(CategoryGotcha, "sqlite-wal-checkpointing", docContent("SQLite WAL", "gotcha", "sqlite")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	doc, _, err := store.Get("sqlite-wal")
	if err != nil {
		t.Fatalf("Get by prefix: %v", err)
	}
	if doc.Slug != "sqlite-wal-checkpointing" {
		t.Errorf("slug = %q", doc.Slug)
	}
}

func TestDocStore_Get_AmbiguousPrefix(t *testing.T) {
	store := NewDocStore(t.TempDir())
	if _, err := store.Save(CategoryGotcha, "sqlite-wal", docContent("A", "gotcha", "")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save(CategoryPattern, "sqlite-pool", docContent("B", "pattern", "")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, _, err := store.Get("sqlite"); err == nil {
		t.Fatal("ambiguous prefix should fail")
	}
}

func TestDocStore_Get_NotFound(t *testing.T) {
	store := NewDocStore(t.TempDir())
	if _, _, err := store.Get("nothing-here"); !errors.Is(err, ErrDocNotFound) {
		t.Fatalf("expected ErrDocNotFound, got %v", err)
	}
}

func TestDocStore_List_ByCategory(t *testing.T) {
	store := NewDocStore(t.TempDir())
	seed := []struct {
		category Category
		slug     string
	}{
		{CategoryPattern, "one"},
		{CategoryPattern, "two"},
		{CategoryDecision, "three"},
	}
	for _, s := range seed {
		if _, err := store.Save(s.category, s.slug, docContent(s.slug, string(s.category), "t")); err != nil {
			t.Fatalf("Save %s: %v", s.slug, err)
		}
	}

	patterns, err := store.List(CategoryPattern)
	if err != nil {
		t.Fatalf("List(pattern): %v", err)
	}
	if len(patterns) != 2 {
		t.Errorf("List(pattern) = %d docs, want 2", len(patterns))
	}

	all, err := store.List("")
	if err != nil {
		t.Fatalf("List(all): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List(all) = %d docs, want 3", len(all))
	}

	n, err := store.Count()
	if err != nil || n != 3 {
		t.Errorf("Count = %d, %v; want 3", n, err)
	}
}

func TestContextStore_SaveGetList(t *testing.T) {
	sanitize := func(s string) string { return strings.ReplaceAll(s, "/", "_") }
	store := NewContextStore(t.TempDir(), sanitize)

	if _, err := store.Save("demo", "api/overview", "# Context: api overview\n\ndetails\n"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	content, err := store.Get("demo", "api/overview")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !strings.Contains(content, "details") {
		t.Error("content not round-tripped")
	}

	infos, err := store.List("demo")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected 1 context file, got %d", len(infos))
	}
	if infos[0].Name != "api_overview" {
		t.Errorf("sanitized name = %q", infos[0].Name)
	}
	if infos[0].Size == 0 {
		t.Error("size should be recorded")
	}

	if _, err := store.Get("demo", "missing"); !errors.Is(err, ErrContextNotFound) {
		t.Errorf("expected ErrContextNotFound, got %v", err)
	}
}
