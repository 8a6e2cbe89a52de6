package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"cardvault-backend/services/portfolio"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(summaryCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Prints a report of the latest portfolio snapshot.",
	Run: func(cmd *cobra.Command, args []string) {
		config := loadConfig()
		service, db := newPortfolioService(config)
		defer db.Close()

		summary, err := service.Summary(cmd.Context())
		if errors.Is(err, portfolio.ErrNoRuns) {
			fmt.Println("no portfolio snapshots yet, run `cardvault-cli update` first")
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle("Portfolio Summary")

		t.AppendRow(table.Row{"Snapshot Time", summary.RunTime.Format(time.DateTime)})
		t.AppendRow(table.Row{"Holdings", summary.HoldingCount})
		t.AppendRow(table.Row{"Total Value", fmt.Sprintf("$%.2f", summary.TotalValue)})
		if summary.MostValuable != nil {
			t.AppendSeparator()
			t.AppendRow(table.Row{"Most Valuable", summary.MostValuable.CardName})
			t.AppendRow(table.Row{"  Card ID", summary.MostValuable.CardID})
			t.AppendRow(table.Row{"  Market Value", fmt.Sprintf("$%.2f", summary.MostValuable.MarketValue)})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
