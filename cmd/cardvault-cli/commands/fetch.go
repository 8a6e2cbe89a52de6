package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [set-code]",
	Short: "Fetches one set's card data into the lookup directory.",
	Long: `Fetches the card payload for a single set code (e.g. "base1") from the
card API and saves it as <lookup_dir>/<set-code>.json, replacing any
previous contents. With no argument the set code is prompted for.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var setID string
		if len(args) > 0 {
			setID = args[0]
		} else {
			fmt.Print("Enter the set code to fetch (e.g. base1): ")
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			setID = line
		}
		setID = strings.TrimSpace(setID)

		service := newCardsetsService(loadConfig())

		res, err := service.FetchOne(cmd.Context(), setID)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		fmt.Printf("saved %s (%d bytes)\n", res.Path, res.Bytes)
	},
}
