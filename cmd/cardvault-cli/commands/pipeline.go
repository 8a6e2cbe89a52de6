package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(pipelineCmd)
}

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Runs the full workflow: update the portfolio, then summarize it.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stderr, "--- starting portfolio pipeline ---")

		fmt.Fprintln(os.Stderr, ">>> step 1: updating portfolio data...")
		updateCmd.Run(cmd, nil)

		fmt.Fprintln(os.Stderr, ">>> step 2: generating summary report...")
		summaryCmd.Run(cmd, nil)

		fmt.Fprintln(os.Stderr, "--- portfolio pipeline completed ---")
	},
}
