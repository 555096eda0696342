// Package cli implements the trowel command line interface.
//
// The root command resolves the storage root and configures logging;
// each subcommand lives in its own file. Logging goes to stderr because
// stdout belongs to the MCP stdio transport while serving.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/troweldev/trowel/internal/config"
	"github.com/troweldev/trowel/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "trowel",
	Short: "Knowledge Archaeology MCP server",
	Long: `Trowel keeps development knowledge as markdown on the local machine:
per-branch work logs, knowledge documents, context files, and checklists.

It runs as an MCP stdio server (trowel serve) and ships maintenance
subcommands for the search index and for store packaging.`,
	Version:      server.Version,
	SilenceUsage: true,
}

var rootFlag string

// cfg is resolved by the persistent pre-run before any subcommand runs.
var cfg *config.Config

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "",
		"Storage root directory (default $TROWEL_HOME or ~/.trowel)")
	rootCmd.PersistentPreRunE = loadConfig

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(rootFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = loaded

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return nil
}
