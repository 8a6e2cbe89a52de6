package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(refreshCmd)
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-fetches every set already present in the lookup directory.",
	Run: func(cmd *cobra.Command, args []string) {
		service := newCardsetsService(loadConfig())

		results, err := service.RefreshAll(cmd.Context())
		for _, res := range results {
			fmt.Printf("saved %s (%d bytes)\n", res.Path, res.Bytes)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		if len(results) == 0 {
			fmt.Println("no set files found, nothing to refresh")
		}
	},
}
