package hats

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(t.TempDir())
}

// --- Create / Load ---

func TestFileStore_CreateAndLoad(t *testing.T) {
	fs := testStore(t)

	s, _ := NewSession(KindSixHats, "Adopt feature flags?")
	if err := fs.Create(s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	path := filepath.Join(fs.dir, "six_hats", "adopt-feature-flags", SessionFile)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("session.json not written at %s: %v", path, err)
	}

	loaded, err := fs.Load(KindSixHats, "adopt-feature-flags")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != s.ID || loaded.Topic != s.Topic || loaded.CurrentStep != StepBlueOpen {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestFileStore_LoadMissing(t *testing.T) {
	fs := testStore(t)
	_, err := fs.Load(KindSixHats, "nope")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

// --- One active session per kind ---

func TestFileStore_SecondActiveSameKindRejected(t *testing.T) {
	fs := testStore(t)

	first, _ := NewSession(KindSixHats, "first topic")
	if err := fs.Create(first); err != nil {
		t.Fatalf("Create(first): %v", err)
	}

	second, _ := NewSession(KindSixHats, "second topic")
	err := fs.Create(second)
	if err == nil {
		t.Fatal("second active six_hats session should be rejected")
	}
	if !strings.Contains(err.Error(), "first-topic") {
		t.Errorf("error should name the active session, got: %v", err)
	}
}

func TestFileStore_DifferentKindsRunInParallel(t *testing.T) {
	fs := testStore(t)

	hatsSession, _ := NewSession(KindSixHats, "topic a")
	if err := fs.Create(hatsSession); err != nil {
		t.Fatalf("Create(six_hats): %v", err)
	}
	synth, _ := NewSession(KindSynthesis, "topic b")
	if err := fs.Create(synth); err != nil {
		t.Errorf("a synthesis session should coexist with a six_hats one: %v", err)
	}
}

func TestFileStore_SlugCollisionGetsSuffix(t *testing.T) {
	fs := testStore(t)

	first, _ := NewSession(KindSixHats, "same topic")
	if err := fs.Create(first); err != nil {
		t.Fatalf("Create(first): %v", err)
	}

	// Finish the first so a second with the same topic is allowed.
	for CanAdvance(first) == nil {
		if err := Advance(first, ""); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	if err := Complete(first, "done"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := fs.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second, _ := NewSession(KindSixHats, "same topic")
	if err := fs.Create(second); err != nil {
		t.Fatalf("Create(second): %v", err)
	}
	if second.Slug != "same-topic-2" {
		t.Errorf("second slug = %q, want same-topic-2", second.Slug)
	}
}

// --- LoadActive / Save ---

func TestFileStore_LoadActive(t *testing.T) {
	fs := testStore(t)

	if active, err := fs.LoadActive(KindSixHats); err != nil || active != nil {
		t.Fatalf("empty store: active = %+v, err = %v", active, err)
	}

	s, _ := NewSession(KindSixHats, "topic")
	if err := fs.Create(s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	active, err := fs.LoadActive(KindSixHats)
	if err != nil {
		t.Fatalf("LoadActive: %v", err)
	}
	if active == nil || active.Slug != "topic" {
		t.Fatalf("active = %+v", active)
	}

	// Advance and save; the stored copy must follow.
	if err := Advance(s, "white-hat facts"); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := fs.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	active, _ = fs.LoadActive(KindSixHats)
	if active.CurrentStep != StepWhite {
		t.Errorf("reloaded current step = %q, want %q", active.CurrentStep, StepWhite)
	}
	if active.Steps[0].Notes != "white-hat facts" {
		t.Errorf("reloaded notes = %q", active.Steps[0].Notes)
	}

	// Completed sessions stop being active.
	for CanAdvance(s) == nil {
		_ = Advance(s, "")
	}
	_ = Complete(s, "")
	_ = fs.Save(s)
	active, err = fs.LoadActive(KindSixHats)
	if err != nil || active != nil {
		t.Errorf("after completion: active = %+v, err = %v", active, err)
	}
}

// --- List ---

func TestFileStore_List(t *testing.T) {
	fs := testStore(t)

	if got, err := fs.List(KindSynthesis); err != nil || got != nil {
		t.Fatalf("empty list = %+v, err = %v", got, err)
	}

	s, _ := NewSession(KindSynthesis, "first")
	if err := fs.Create(s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := fs.List(KindSynthesis)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Slug != "first" {
		t.Errorf("list = %+v", got)
	}
}
