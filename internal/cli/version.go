package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/troweldev/trowel/internal/server"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the trowel version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("trowel v%s\n", server.Version)
	},
}
