package portfolio

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cardvault-backend/lib/tcgapi"
)

// LookupEntry is the priced card record recovered from the set
// lookup directory.
type LookupEntry struct {
	CardID      string
	CardName    string
	CardNumber  string
	SetID       string
	SetName     string
	MarketValue float64
}

// LoadLookup reads every `*.json` file in the set lookup directory
// and indexes the cards inside by card id. Files that are empty or
// fail to parse are skipped with a warning; the lookup directory
// holds raw API responses, including whatever error payloads past
// fetches wrote there. Duplicate card ids keep the highest-valued
// record.
func LoadLookup(dir string) (map[string]LookupEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	out := map[string]LookupEntry{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		raw, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable lookup file", "path", path, "err", err)
			continue
		}
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}

		cards, err := tcgapi.ParseCards(raw)
		if err != nil {
			slog.Warn("skipping malformed lookup file", "path", path, "err", err)
			continue
		}

		for _, card := range cards {
			if card.ID == "" {
				continue
			}
			candidate := LookupEntry{
				CardID:      card.ID,
				CardName:    card.Name,
				CardNumber:  card.Number,
				SetID:       card.Set.ID,
				SetName:     card.Set.Name,
				MarketValue: card.MarketValue(),
			}
			existing, ok := out[card.ID]
			if ok && existing.MarketValue >= candidate.MarketValue {
				continue
			}
			out[card.ID] = candidate
		}
	}

	return out, nil
}
