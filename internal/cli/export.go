package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/troweldev/trowel/internal/pack"
	"github.com/troweldev/trowel/internal/server"
)

var exportCmd = &cobra.Command{
	Use:   "export [output-path]",
	Short: "Pack the store into a ZIP archive",
	Long: `Pack the store into a ZIP archive with an embedded manifest.

Examples:
  trowel export                      # everything, default path under <root>/exports/
  trowel export backup.zip           # everything, explicit path
  trowel export --project webapp     # one project's notes, context, and checklists`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var exportProject string

func init() {
	exportCmd.Flags().StringVar(&exportProject, "project", "",
		"Export a single project instead of the whole store")
}

func runExport(cmd *cobra.Command, args []string) error {
	outPath := ""
	if len(args) == 1 {
		outPath = args[0]
	}
	if outPath == "" {
		outPath = filepath.Join(cfg.Root, "exports",
			fmt.Sprintf("trowel_export_%s.zip", time.Now().Format("20060102_150405")))
	}

	opts := pack.ExportOptions{Scope: pack.ScopeAll, Version: server.Version}
	if exportProject != "" {
		opts.Scope = pack.ScopeProject
		opts.Project = exportProject
	}

	manifest, err := pack.Export(cfg.Root, outPath, opts)
	if err != nil {
		return fmt.Errorf("exporting store: %w", err)
	}

	fmt.Printf("Exported %d file(s) to %s (manifest %s)\n",
		manifest.Files, outPath, manifest.ID)
	return nil
}
