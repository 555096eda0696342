package knowledge

import (
	"errors"
	"strings"
	"testing"
)

func TestParseItems(t *testing.T) {
	text := "# Checklist: release (demo)\n\n" +
		"**Created:** 2026-08-20 10:00:00\n\n" +
		"- [ ] run tests\n" +
		"- [x] bump version\n" +
		"- [X] tag release\n" +
		"not an item line\n" +
		"- [ ] announce\n"

	items := ParseItems(text)
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}

	want := []Item{
		{Text: "run tests"},
		{Text: "bump version", Done: true},
		{Text: "tag release", Done: true},
		{Text: "announce"},
	}
	for i, w := range want {
		if items[i] != w {
			t.Errorf("item %d = %+v, want %+v", i, items[i], w)
		}
	}
}

func TestRenderItem_RoundTrip(t *testing.T) {
	for _, item := range []Item{{Text: "do the thing"}, {Text: "done thing", Done: true}} {
		line := RenderItem(item)
		parsed, ok := parseItemLine(strings.TrimSuffix(line, "\n"))
		if !ok {
			t.Fatalf("rendered line %q did not parse back", line)
		}
		if parsed != item {
			t.Errorf("round trip %+v -> %q -> %+v", item, line, parsed)
		}
	}
}

func newChecklistStore(t *testing.T) *ChecklistStore {
	t.Helper()
	return NewChecklistStore(t.TempDir(), func(s string) string { return s })
}

func TestChecklistStore_CreateAndGet(t *testing.T) {
	store := newChecklistStore(t)
	content := "# Checklist: release (demo)\n\n- [ ] one\n- [ ] two\n"

	if _, err := store.Create("demo", "release", content); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Creating again must refuse.
	if _, err := store.Create("demo", "release", content); !errors.Is(err, ErrChecklistExists) {
		t.Fatalf("expected ErrChecklistExists, got %v", err)
	}

	text, items, err := store.Get("demo", "release")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if text != content {
		t.Errorf("content round trip mismatch")
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}

func TestChecklistStore_Get_NotFound(t *testing.T) {
	store := newChecklistStore(t)
	if _, _, err := store.Get("demo", "missing"); !errors.Is(err, ErrChecklistNotFound) {
		t.Fatalf("expected ErrChecklistNotFound, got %v", err)
	}
}

func TestChecklistStore_AddAndToggle(t *testing.T) {
	store := newChecklistStore(t)
	if _, err := store.Create("demo", "release", "# Checklist\n\n- [ ] one\n"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.AddItem("demo", "release", "two"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	item, err := store.SetItem("demo", "release", 2, true)
	if err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	if !item.Done || item.Text != "two" {
		t.Errorf("toggled item = %+v", item)
	}

	_, items, err := store.Get("demo", "release")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(items) != 2 || items[0].Done || !items[1].Done {
		t.Errorf("items after toggle = %+v", items)
	}

	// Toggling back off.
	if _, err := store.SetItem("demo", "release", 2, false); err != nil {
		t.Fatalf("SetItem(off): %v", err)
	}
	_, items, _ = store.Get("demo", "release")
	if items[1].Done {
		t.Error("item 2 should be unchecked again")
	}
}

func TestChecklistStore_SetItem_OutOfRange(t *testing.T) {
	store := newChecklistStore(t)
	if _, err := store.Create("demo", "release", "- [ ] only\n"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, n := range []int{0, -1, 2} {
		if _, err := store.SetItem("demo", "release", n, true); !errors.Is(err, ErrItemOutOfRange) {
			t.Errorf("SetItem(%d): expected ErrItemOutOfRange, got %v", n, err)
		}
	}
}

func TestChecklistStore_List(t *testing.T) {
	store := newChecklistStore(t)
	if _, err := store.Create("demo", "alpha", "- [x] a\n- [ ] b\n"); err != nil {
		t.Fatalf("Create alpha: %v", err)
	}
	if _, err := store.Create("demo", "beta", "- [x] a\n"); err != nil {
		t.Fatalf("Create beta: %v", err)
	}

	infos, err := store.List("demo")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 checklists, got %d", len(infos))
	}
	if infos[0].Name != "alpha" || infos[0].Done != 1 || infos[0].Total != 2 {
		t.Errorf("alpha info = %+v", infos[0])
	}
	if infos[1].Name != "beta" || infos[1].Done != 1 || infos[1].Total != 1 {
		t.Errorf("beta info = %+v", infos[1])
	}

	// Unknown project lists empty, not an error.
	empty, err := store.List("ghost")
	if err != nil || empty != nil {
		t.Errorf("List(ghost) = %v, %v; want nil, nil", empty, err)
	}
}
