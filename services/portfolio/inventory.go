package portfolio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// InventoryEntry is one physical binder slot, as recorded by the
// owner in an inventory CSV.
type InventoryEntry struct {
	BinderName string
	PageNumber int64
	SlotNumber int64
	SetID      string
	CardNumber string
	// CardID is derived: `<set_id>-<card_number>`, matching the id
	// scheme of the card API.
	CardID string
}

// LoadInventory reads every `*.csv` file in the inventory directory.
// Columns are matched by header name (binder_name, page_number,
// slot_number, set_id, card_number) so column order doesn't matter.
func LoadInventory(dir string) ([]InventoryEntry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}

	var out []InventoryEntry
	for _, path := range matches {
		entries, err := readInventoryFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, entries...)
	}
	return out, nil
}

func readInventoryFile(path string) ([]InventoryEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	columns := map[string]int{}
	for i, name := range records[0] {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"binder_name", "page_number", "slot_number", "set_id", "card_number"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var out []InventoryEntry
	for _, record := range records[1:] {
		page, err := strconv.ParseInt(strings.TrimSpace(record[columns["page_number"]]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad page_number: %w", err)
		}
		slot, err := strconv.ParseInt(strings.TrimSpace(record[columns["slot_number"]]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad slot_number: %w", err)
		}

		setID := strings.TrimSpace(record[columns["set_id"]])
		cardNumber := strings.TrimSpace(record[columns["card_number"]])

		out = append(out, InventoryEntry{
			BinderName: strings.TrimSpace(record[columns["binder_name"]]),
			PageNumber: page,
			SlotNumber: slot,
			SetID:      setID,
			CardNumber: cardNumber,
			CardID:     fmt.Sprintf("%s-%s", setID, cardNumber),
		})
	}
	return out, nil
}
