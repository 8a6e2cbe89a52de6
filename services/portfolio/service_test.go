package portfolio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cardvault-backend/lib/testutil"
	"cardvault-backend/services/portfolio/db"

	"github.com/stretchr/testify/require"
)

const base1Lookup = `{"data":[
	{
		"id":"base1-4","name":"Charizard","number":"4",
		"set":{"id":"base1","name":"Base"},
		"tcgplayer":{"prices":{"holofoil":{"market":420.5}}}
	},
	{
		"id":"base1-63","name":"Squirtle","number":"63",
		"set":{"id":"base1","name":"Base"},
		"tcgplayer":{"prices":{"normal":{"market":3.25}}}
	}
]}`

const neo4Lookup = `{"data":[
	{
		"id":"neo4-107","name":"Shining Charizard","number":"107",
		"set":{"id":"neo4","name":"Neo Destiny"},
		"tcgplayer":{"prices":{"holofoil":{"market":1200}}}
	}
]}`

const inventoryCSV = `binder_name,page_number,slot_number,set_id,card_number
main,1,1,base1,4
main,1,2,base1,63
main,2,1,neo4,107
main,2,2,fossil,99
`

func writeFixtures(t *testing.T) (lookupDir, inventoryDir string) {
	t.Helper()
	lookupDir = t.TempDir()
	inventoryDir = t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(lookupDir, "base1.json"), []byte(base1Lookup), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(lookupDir, "neo4.json"), []byte(neo4Lookup), 0644))
	// artifacts a careless fetch may have left behind, all skipped
	require.NoError(t, os.WriteFile(filepath.Join(lookupDir, "empty.json"), []byte("  \n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(lookupDir, "broken.json"), []byte(`{"data":`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(lookupDir, "error.json"), []byte(`{"error":{"message":"rate limited","code":429}}`), 0644))

	require.NoError(t, os.WriteFile(filepath.Join(inventoryDir, "binder.csv"), []byte(inventoryCSV), 0644))
	return lookupDir, inventoryDir
}

func TestService(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/portfolio",
		DbSchema: db.Schema,
	})
	defer cleanup()

	lookupDir, inventoryDir := writeFixtures(t)
	service := NewService(setup.DB, lookupDir, inventoryDir)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		_, err := service.Summary(ctx)
		require.ErrorIs(t, err, ErrNoRuns)
	}

	run, err := service.Update(ctx)
	require.NoError(t, err)
	require.Len(t, run.Holdings, 4)
	require.InDelta(t, 420.5+3.25+1200, run.TotalValue, 0.001)

	byCard := map[string]db.Holding{}
	for _, h := range run.Holdings {
		byCard[h.CardID] = h
	}
	require.Equal(t, "Charizard", byCard["base1-4"].CardName)
	require.Equal(t, "Base", byCard["base1-4"].SetName)
	require.Equal(t, "main-1-1", byCard["base1-4"].SlotIndex)
	// inventory slot with no lookup record is kept, unpriced
	require.Equal(t, "NOT_FOUND", byCard["fossil-99"].CardName)
	require.Equal(t, "NOT_FOUND", byCard["fossil-99"].SetName)
	require.Equal(t, 0.0, byCard["fossil-99"].MarketValue)

	summary, err := service.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, summary.HoldingCount)
	require.InDelta(t, run.TotalValue, summary.TotalValue, 0.001)
	require.NotNil(t, summary.MostValuable)
	require.Equal(t, "neo4-107", summary.MostValuable.CardID)

	// a second update becomes the latest run
	_, err = service.Update(ctx)
	require.NoError(t, err)
	history, err := service.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestUpdateEmptyInventory(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/portfolio/empty",
		DbSchema: db.Schema,
	})
	defer cleanup()

	service := NewService(setup.DB, t.TempDir(), t.TempDir())

	run, err := service.Update(context.Background())
	require.NoError(t, err)
	require.Empty(t, run.Holdings)
	require.Equal(t, 0.0, run.TotalValue)

	summary, err := service.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, summary.HoldingCount)
	require.Nil(t, summary.MostValuable)
}

func TestExportCSV(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/portfolio/export",
		DbSchema: db.Schema,
	})
	defer cleanup()

	lookupDir, inventoryDir := writeFixtures(t)
	service := NewService(setup.DB, lookupDir, inventoryDir)

	out := filepath.Join(t.TempDir(), "card_portfolio.csv")

	err := service.ExportCSV(context.Background(), out)
	require.ErrorIs(t, err, ErrNoRuns)

	_, err = service.Update(context.Background())
	require.NoError(t, err)
	require.NoError(t, service.ExportCSV(context.Background(), out))

	contents, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := string(contents)
	require.Contains(t, lines, "index,binder_name,page_number,slot_number,card_name,card_number,set_id,set_name,card_market_value")
	require.Contains(t, lines, "main-1-1,main,1,1,Charizard,4,base1,Base,420.50")
	require.Contains(t, lines, "main-2-2,main,2,2,NOT_FOUND,99,fossil,NOT_FOUND,0.00")
}

func TestLoadLookupDedupesByValue(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{"data":[
		{"id":"base1-4","name":"Charizard","tcgplayer":{"prices":{"holofoil":{"market":100}}}}
	]}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(`{"data":[
		{"id":"base1-4","name":"Charizard","tcgplayer":{"prices":{"holofoil":{"market":250}}}}
	]}`), 0644))

	lookup, err := LoadLookup(dir)
	require.NoError(t, err)
	require.Len(t, lookup, 1)
	require.Equal(t, 250.0, lookup["base1-4"].MarketValue)
}

func TestLoadInventoryHeaderOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shuffled.csv"), []byte(
		"card_number,set_id,slot_number,page_number,binder_name\n4,base1,3,2,spare\n",
	), 0644))

	entries, err := LoadInventory(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, InventoryEntry{
		BinderName: "spare",
		PageNumber: 2,
		SlotNumber: 3,
		SetID:      "base1",
		CardNumber: "4",
		CardID:     "base1-4",
	}, entries[0])
}

func TestLoadInventoryMissingColumn(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.csv"), []byte(
		"binder_name,page_number\nmain,1\n",
	), 0644))

	_, err := LoadInventory(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "slot_number")
}
