package portfolio

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"go.opentelemetry.io/otel/codes"
)

var exportHeader = []string{
	"index",
	"binder_name",
	"page_number",
	"slot_number",
	"card_name",
	"card_number",
	"set_id",
	"set_name",
	"card_market_value",
}

// ExportCSV writes the latest recorded run to a portfolio CSV,
// replacing the file whole. An empty portfolio produces a header-only
// file.
func (s Service) ExportCSV(ctx context.Context, path string) error {
	ctx, span := tracer.Start(ctx, "ExportCSV")
	defer span.End()

	run, err := s.qry.GetLatestRun(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRuns
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	holdings, err := s.qry.GetHoldingsForRun(ctx, run.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, h := range holdings {
		record := []string{
			h.SlotIndex,
			h.BinderName,
			strconv.FormatInt(h.PageNumber, 10),
			strconv.FormatInt(h.SlotNumber, 10),
			h.CardName,
			h.CardNumber,
			h.SetID,
			h.SetName,
			fmt.Sprintf("%.2f", h.MarketValue),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "portfolio exported", "path", path, "holdings", len(holdings))
	return nil
}
