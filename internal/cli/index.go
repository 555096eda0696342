package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/troweldev/trowel/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the document search index",
	Long: `Walk the store's markdown trees and synchronize the SQLite search
index without starting a server. Run it after editing store files by
hand or after importing an archive.`,
	RunE: runIndexCmd,
}

func runIndexCmd(cmd *cobra.Command, args []string) error {
	idx, err := index.Open(cfg.IndexPath())
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer idx.Close()

	sources := []index.Source{
		{Kind: index.KindBranchNote, Dir: cfg.BranchNotesDir()},
		{Kind: index.KindKnowledge, Dir: cfg.KnowledgeDir()},
		{Kind: index.KindContext, Dir: cfg.ContextDir()},
	}
	stats, err := idx.Reindex(cmd.Context(), sources)
	if err != nil {
		return fmt.Errorf("reindexing: %w", err)
	}

	fmt.Printf("Indexed %d of %d scanned (%d unchanged, %d removed)\n",
		stats.Indexed, stats.Scanned, stats.Unchanged, stats.Removed)
	return nil
}
