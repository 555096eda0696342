package config

import (
	"os"
	"path/filepath"
	"testing"
)

// --- DefaultRoot ---

func TestDefaultRoot_EnvWins(t *testing.T) {
	t.Setenv(EnvHome, "/srv/trowel-data")

	if got := DefaultRoot(); got != "/srv/trowel-data" {
		t.Errorf("DefaultRoot() = %s, want /srv/trowel-data", got)
	}
}

func TestDefaultRoot_FallsBackToHome(t *testing.T) {
	t.Setenv(EnvHome, "")

	root := DefaultRoot()
	if root == "" {
		t.Fatal("DefaultRoot() returned empty string")
	}
	if filepath.Base(root) != defaultDirName {
		t.Errorf("DefaultRoot() = %s, want a path ending in %s", root, defaultDirName)
	}
}

// --- Load ---

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Root != root {
		t.Errorf("Root = %s, want %s", cfg.Root, root)
	}
	if cfg.DefaultProject != "" {
		t.Errorf("DefaultProject = %s, want empty", cfg.DefaultProject)
	}
	if !cfg.IndexOn() {
		t.Error("IndexOn() = false, want true by default")
	}
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	root := t.TempDir()
	yaml := "default_project: payments\nindex_enabled: false\nlog_level: debug\n"
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultProject != "payments" {
		t.Errorf("DefaultProject = %s, want payments", cfg.DefaultProject)
	}
	if cfg.IndexOn() {
		t.Error("IndexOn() = true, want false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.Root != root {
		t.Errorf("Root = %s, want %s", cfg.Root, root)
	}
}

func TestLoad_EmptyRootUsesEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Root != dir {
		t.Errorf("Root = %s, want %s", cfg.Root, dir)
	}
}

func TestLoad_CorruptYAML(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte("{: bad"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(root); err == nil {
		t.Fatal("Load should fail on corrupt YAML")
	}
}

// --- SlogLevel ---

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"error", "ERROR"},
		{"", "INFO"},
		{"verbose", "INFO"},
	}

	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		if got := cfg.SlogLevel().String(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %s, want %s", tt.level, got, tt.want)
		}
	}
}

// --- Layout helpers ---

func TestLayoutPaths(t *testing.T) {
	cfg := &Config{Root: "/data"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"BranchNotesDir", cfg.BranchNotesDir(), filepath.Join("/data", "branch_notes")},
		{"KnowledgeDir", cfg.KnowledgeDir(), filepath.Join("/data", "knowledge")},
		{"ContextDir", cfg.ContextDir(), filepath.Join("/data", "context")},
		{"ChecklistsDir", cfg.ChecklistsDir(), filepath.Join("/data", "checklists")},
		{"SessionsDir", cfg.SessionsDir(), filepath.Join("/data", "sessions")},
		{"IndexPath", cfg.IndexPath(), filepath.Join("/data", "index", "trowel.db")},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %s, want %s", tt.name, tt.got, tt.want)
		}
	}
}
