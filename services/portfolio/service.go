package portfolio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cardvault-backend/services/portfolio/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/portfolio")

// ErrNoRuns is reported when a summary is requested before any
// portfolio update has been recorded.
var ErrNoRuns = errors.New("no portfolio runs recorded yet")

const notFound = "NOT_FOUND"

type Service struct {
	db           *sql.DB
	qry          *db.Queries
	lookupDir    string
	inventoryDir string
}

func NewService(database *sql.DB, lookupDir, inventoryDir string) Service {
	return Service{
		db:           database,
		qry:          db.New(database),
		lookupDir:    lookupDir,
		inventoryDir: inventoryDir,
	}
}

// Run is one recorded portfolio snapshot.
type Run struct {
	ID         int64
	Time       time.Time
	TotalValue float64
	Holdings   []db.Holding
}

// Update merges the owner's inventory with the set lookup data and
// records the priced portfolio as a new snapshot run. Inventory slots
// whose card id has no lookup record are kept with NOT_FOUND
// name/set and a zero value rather than dropped; an empty inventory
// still records an (empty) run.
func (s Service) Update(ctx context.Context) (Run, error) {
	ctx, span := tracer.Start(ctx, "Update")
	defer span.End()

	lookup, err := LoadLookup(s.lookupDir)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Run{}, fmt.Errorf("load lookup: %w", err)
	}
	inventory, err := LoadInventory(s.inventoryDir)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Run{}, fmt.Errorf("load inventory: %w", err)
	}

	span.SetAttributes(
		attribute.Int("lookup_cards", len(lookup)),
		attribute.Int("inventory_slots", len(inventory)),
	)

	if len(inventory) == 0 {
		slog.WarnContext(ctx, "inventory is empty, recording an empty portfolio")
	}

	now := time.Now()
	var holdings []db.Holding
	var total float64
	for _, entry := range inventory {
		card, ok := lookup[entry.CardID]
		if !ok {
			card = LookupEntry{
				CardName: notFound,
				SetName:  notFound,
			}
		}
		holding := db.Holding{
			SlotIndex:   fmt.Sprintf("%s-%d-%d", entry.BinderName, entry.PageNumber, entry.SlotNumber),
			BinderName:  entry.BinderName,
			PageNumber:  entry.PageNumber,
			SlotNumber:  entry.SlotNumber,
			CardID:      entry.CardID,
			CardName:    card.CardName,
			CardNumber:  entry.CardNumber,
			SetID:       entry.SetID,
			SetName:     card.SetName,
			MarketValue: card.MarketValue,
		}
		total += holding.MarketValue
		holdings = append(holdings, holding)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Run{}, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	runID, err := txqry.CreatePortfolioRun(ctx, db.CreatePortfolioRunParams{
		Time:       now.Unix(),
		TotalValue: total,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Run{}, err
	}

	for i := range holdings {
		holdings[i].RunID = runID
		err := txqry.CreateHolding(ctx, db.CreateHoldingParams{
			RunID:       runID,
			SlotIndex:   holdings[i].SlotIndex,
			BinderName:  holdings[i].BinderName,
			PageNumber:  holdings[i].PageNumber,
			SlotNumber:  holdings[i].SlotNumber,
			CardID:      holdings[i].CardID,
			CardName:    holdings[i].CardName,
			CardNumber:  holdings[i].CardNumber,
			SetID:       holdings[i].SetID,
			SetName:     holdings[i].SetName,
			MarketValue: holdings[i].MarketValue,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Run{}, err
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Run{}, err
	}

	slog.InfoContext(
		ctx, "portfolio updated",
		"run_id", runID,
		"holdings", len(holdings),
		"total_value", total,
	)

	return Run{
		ID:         runID,
		Time:       now,
		TotalValue: total,
		Holdings:   holdings,
	}, nil
}

// Summary describes the latest recorded portfolio run.
type Summary struct {
	RunTime      time.Time
	TotalValue   float64
	HoldingCount int
	// nil when the portfolio is empty
	MostValuable *db.Holding
}

func (s Service) Summary(ctx context.Context) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Summary")
	defer span.End()

	run, err := s.qry.GetLatestRun(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return Summary{}, ErrNoRuns
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Summary{}, err
	}

	holdings, err := s.qry.GetHoldingsForRun(ctx, run.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Summary{}, err
	}

	out := Summary{
		RunTime:      time.Unix(run.Time, 0),
		TotalValue:   run.TotalValue,
		HoldingCount: len(holdings),
	}
	for i := range holdings {
		if out.MostValuable == nil || holdings[i].MarketValue > out.MostValuable.MarketValue {
			out.MostValuable = &holdings[i]
		}
	}
	return out, nil
}

// History returns every recorded run in chronological order.
func (s Service) History(ctx context.Context) ([]db.PortfolioRun, error) {
	return s.qry.GetRunHistory(ctx)
}
