package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Prints the total value of every recorded portfolio snapshot.",
	Run: func(cmd *cobra.Command, args []string) {
		config := loadConfig()
		service, db := newPortfolioService(config)
		defer db.Close()

		runs, err := service.History(cmd.Context())
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		if len(runs) == 0 {
			fmt.Println("no portfolio snapshots yet, run `cardvault-cli update` first")
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Time", "Total Value"})

		for _, run := range runs {
			t.AppendRow(table.Row{
				time.Unix(run.Time, 0).Format(time.DateTime),
				fmt.Sprintf("$%.2f", run.TotalValue),
			})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
