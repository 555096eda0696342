// Package config resolves the storage root and loads the optional
// server configuration from <root>/config.yaml.
//
// Root resolution precedence: explicit value (the --root flag), the
// TROWEL_HOME environment variable, then ~/.trowel. A missing config
// file is not an error; every setting has a default.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// EnvHome overrides the storage root directory.
	EnvHome = "TROWEL_HOME"
	// ConfigFile is the optional config filename inside the root.
	ConfigFile = "config.yaml"
	// defaultDirName is the storage root under $HOME when nothing
	// overrides it.
	defaultDirName = ".trowel"
)

// Config is the resolved server configuration.
type Config struct {
	// Root is the storage root directory. Resolved, never empty.
	Root string `yaml:"-"`

	// DefaultProject is assumed when tools are called without one.
	DefaultProject string `yaml:"default_project,omitempty"`

	// IndexEnabled toggles the SQLite document index. Defaults to on;
	// a pointer so an explicit "false" survives the zero value.
	IndexEnabled *bool `yaml:"index_enabled,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"log_level,omitempty"`
}

// DefaultRoot returns the storage root implied by the environment.
func DefaultRoot() (string, error) {
	if env := os.Getenv(EnvHome); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, defaultDirName), nil
}

// Load resolves the root (an empty argument means "use the default")
// and reads <root>/config.yaml when it exists.
func Load(root string) (*Config, error) {
	if root == "" {
		resolved, err := DefaultRoot()
		if err != nil {
			return nil, err
		}
		root = resolved
	}

	cfg := &Config{Root: root}

	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFile, err)
	}
	cfg.Root = root
	return cfg, nil
}

// IndexOn reports whether the document index should run.
func (c *Config) IndexOn() bool {
	return c.IndexEnabled == nil || *c.IndexEnabled
}

// SlogLevel maps the configured log level onto slog, defaulting to
// info for empty or unrecognized values.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// --- Storage layout ---

// BranchNotesDir is where branch note files live.
func (c *Config) BranchNotesDir() string {
	return filepath.Join(c.Root, "branch_notes")
}

// KnowledgeDir is where categorized knowledge docs live.
func (c *Config) KnowledgeDir() string {
	return filepath.Join(c.Root, "knowledge")
}

// ContextDir is where per-project context files live.
func (c *Config) ContextDir() string {
	return filepath.Join(c.Root, "context")
}

// ChecklistsDir is where per-project checklists live.
func (c *Config) ChecklistsDir() string {
	return filepath.Join(c.Root, "checklists")
}

// SessionsDir is where thinking-workflow sessions live.
func (c *Config) SessionsDir() string {
	return filepath.Join(c.Root, "sessions")
}

// IndexPath is the SQLite document index file.
func (c *Config) IndexPath() string {
	return filepath.Join(c.Root, "index", "trowel.db")
}
