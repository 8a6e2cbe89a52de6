package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Merges inventory and lookup data into a new portfolio snapshot.",
	Run: func(cmd *cobra.Command, args []string) {
		config := loadConfig()
		service, db := newPortfolioService(config)
		defer db.Close()

		run, err := service.Update(cmd.Context())
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		err = service.ExportCSV(cmd.Context(), config.PortfolioCsv)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		fmt.Printf("portfolio updated: %s (%d holdings, total $%.2f)\n",
			config.PortfolioCsv, len(run.Holdings), run.TotalValue)
	},
}
