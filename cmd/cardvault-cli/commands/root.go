package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"cardvault-backend/lib/configutil"
	configsqlite "cardvault-backend/lib/configutil/sqlite"
	"cardvault-backend/lib/restyutil"
	"cardvault-backend/lib/tcgapi"
	"cardvault-backend/services/cardsets"
	"cardvault-backend/services/portfolio"
	portfoliodb "cardvault-backend/services/portfolio/db"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cardvault-cli",
	Short: "cardvault-cli maintains a priced trading card portfolio from the Pokémon TCG API.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type ApiConfig struct {
	BaseUrl string `json:"base_url"`
}

type Config struct {
	Api          ApiConfig           `json:"api"`
	LookupDir    string              `json:"lookup_dir"`
	InventoryDir string              `json:"inventory_dir"`
	PortfolioCsv string              `json:"portfolio_csv"`
	Database     configsqlite.Struct `json:"database"`
}

// loadConfig reads cardvault.json5 (plus a cardvault.local.json5
// override) from the cwd; a missing config just means defaults.
func loadConfig() Config {
	config, err := configutil.ReadConfig[Config]("cardvault.json5")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "failed to read cardvault.json5:", err)
		os.Exit(1)
	}

	if config.Api.BaseUrl == "" {
		config.Api.BaseUrl = tcgapi.DefaultBaseUrl
	}
	if config.LookupDir == "" {
		config.LookupDir = "card_set_lookup"
	}
	if config.InventoryDir == "" {
		config.InventoryDir = "card_inventory"
	}
	if config.PortfolioCsv == "" {
		config.PortfolioCsv = "card_portfolio.csv"
	}
	if config.Database.File == "" {
		config.Database.File = "cardvault.db"
	}
	return config
}

func newCardsetsService(config Config) cardsets.Service {
	var output restyutil.InstrumentOutput
	if os.Getenv("CARDVAULT_DEBUG") != "" {
		output = restyutil.NewFilesystemOutput("<dev_state>/http_messages")
	}
	api := tcgapi.NewClient(config.Api.BaseUrl, output)
	return cardsets.NewService(api, config.LookupDir)
}

func newPortfolioService(config Config) (portfolio.Service, *sql.DB) {
	db, err := config.Database.OpenDB(portfoliodb.Schema)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open database:", err)
		os.Exit(1)
	}
	return portfolio.NewService(db, config.LookupDir, config.InventoryDir), db
}
