package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type PortfolioRun struct {
	ID         int64
	Time       int64
	TotalValue float64
}

type Holding struct {
	ID          int64
	RunID       int64
	SlotIndex   string
	BinderName  string
	PageNumber  int64
	SlotNumber  int64
	CardID      string
	CardName    string
	CardNumber  string
	SetID       string
	SetName     string
	MarketValue float64
}

const createPortfolioRun = `
INSERT INTO portfolio_runs (time, total_value) VALUES (?, ?)
`

type CreatePortfolioRunParams struct {
	Time       int64
	TotalValue float64
}

func (q *Queries) CreatePortfolioRun(ctx context.Context, arg CreatePortfolioRunParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createPortfolioRun, arg.Time, arg.TotalValue)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const createHolding = `
INSERT INTO holdings (
    run_id, slot_index, binder_name, page_number, slot_number,
    card_id, card_name, card_number, set_id, set_name, market_value
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateHoldingParams struct {
	RunID       int64
	SlotIndex   string
	BinderName  string
	PageNumber  int64
	SlotNumber  int64
	CardID      string
	CardName    string
	CardNumber  string
	SetID       string
	SetName     string
	MarketValue float64
}

func (q *Queries) CreateHolding(ctx context.Context, arg CreateHoldingParams) error {
	_, err := q.db.ExecContext(ctx, createHolding,
		arg.RunID,
		arg.SlotIndex,
		arg.BinderName,
		arg.PageNumber,
		arg.SlotNumber,
		arg.CardID,
		arg.CardName,
		arg.CardNumber,
		arg.SetID,
		arg.SetName,
		arg.MarketValue,
	)
	return err
}

const getLatestRun = `
SELECT id, time, total_value FROM portfolio_runs ORDER BY time DESC, id DESC LIMIT 1
`

func (q *Queries) GetLatestRun(ctx context.Context) (PortfolioRun, error) {
	row := q.db.QueryRowContext(ctx, getLatestRun)
	var out PortfolioRun
	err := row.Scan(&out.ID, &out.Time, &out.TotalValue)
	return out, err
}

const getHoldingsForRun = `
SELECT id, run_id, slot_index, binder_name, page_number, slot_number,
    card_id, card_name, card_number, set_id, set_name, market_value
FROM holdings WHERE run_id = ? ORDER BY slot_index
`

func (q *Queries) GetHoldingsForRun(ctx context.Context, runID int64) ([]Holding, error) {
	rows, err := q.db.QueryContext(ctx, getHoldingsForRun, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Holding
	for rows.Next() {
		var h Holding
		err := rows.Scan(
			&h.ID,
			&h.RunID,
			&h.SlotIndex,
			&h.BinderName,
			&h.PageNumber,
			&h.SlotNumber,
			&h.CardID,
			&h.CardName,
			&h.CardNumber,
			&h.SetID,
			&h.SetName,
			&h.MarketValue,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

const getRunHistory = `
SELECT id, time, total_value FROM portfolio_runs ORDER BY time ASC, id ASC
`

func (q *Queries) GetRunHistory(ctx context.Context) ([]PortfolioRun, error) {
	rows, err := q.db.QueryContext(ctx, getRunHistory)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PortfolioRun
	for rows.Next() {
		var r PortfolioRun
		err := rows.Scan(&r.ID, &r.Time, &r.TotalValue)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
