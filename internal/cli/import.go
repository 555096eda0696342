package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/troweldev/trowel/internal/pack"
)

var importCmd = &cobra.Command{
	Use:   "import <archive>",
	Short: "Unpack an export archive into the store",
	Long: `Unpack a trowel export archive into the storage root. Existing files
are skipped unless --overwrite is set. Run "trowel index" afterwards so
the search index picks up the imported documents.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importOverwrite bool

func init() {
	importCmd.Flags().BoolVar(&importOverwrite, "overwrite", false,
		"Replace files that already exist in the store")
}

func runImport(cmd *cobra.Command, args []string) error {
	stats, err := pack.Import(cfg.Root, args[0], importOverwrite)
	if err != nil {
		return fmt.Errorf("importing archive: %w", err)
	}

	fmt.Printf("Imported %d file(s), skipped %d already present\n",
		stats.Imported, stats.Skipped)
	return nil
}
