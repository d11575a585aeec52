package storage

// sqlite.go: backtest runs and live order audit trail.
//
// Layout:
//   - `runs`: one row per backtest run with its final metrics.
//   - `trades`: the full ledger of a run, one row per executed trade.
//   - `live_orders`: every order the live loop submitted, accepted or not.
//   - Prune on startup: runs (and their trades) older than 90 days.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id               TEXT PRIMARY KEY,
    started_at       DATETIME NOT NULL,
    seed             INTEGER  NOT NULL DEFAULT 0,
    windows          INTEGER  NOT NULL DEFAULT 0,
    no_trades        INTEGER  NOT NULL DEFAULT 0,
    trades           INTEGER  NOT NULL DEFAULT 0,
    initial_capital  INTEGER  NOT NULL,
    final_capital    INTEGER  NOT NULL,
    total_return_pct REAL     NOT NULL DEFAULT 0,
    max_drawdown_pct REAL     NOT NULL DEFAULT 0,
    sharpe           REAL     NOT NULL DEFAULT 0,
    win_rate_pct     REAL     NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS trades (
    run_id        TEXT     NOT NULL,
    seq           INTEGER  NOT NULL,
    ts            DATETIME NOT NULL,
    instrument    TEXT     NOT NULL DEFAULT '',
    side          TEXT     NOT NULL,
    contracts     INTEGER  NOT NULL,
    price         INTEGER  NOT NULL,
    pnl           INTEGER  NOT NULL,
    capital_after INTEGER  NOT NULL,
    PRIMARY KEY (run_id, seq)
);

CREATE TABLE IF NOT EXISTS live_orders (
    id             TEXT PRIMARY KEY,
    venue_order_id TEXT     NOT NULL DEFAULT '',
    instrument     TEXT     NOT NULL,
    side           TEXT     NOT NULL,
    contracts      INTEGER  NOT NULL,
    price          INTEGER  NOT NULL,
    accepted       INTEGER  NOT NULL DEFAULT 0,
    placed_at      DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_at        ON runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_trades_run     ON trades(run_id);
CREATE INDEX IF NOT EXISTS idx_live_placed_at ON live_orders(placed_at DESC);
`

const retentionRuns = 90 * 24 * time.Hour

// SQLiteStorage implements ports.RunStorage and ports.LiveStorage using
// SQLite (pure Go, no CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (or creates) the database at the given path,
// applies the schema and prunes old runs.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveRun persists the run metrics plus its full trade ledger in one
// transaction.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run domain.BacktestRun) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: begin tx: %w", err)
	}
	defer tx.Rollback()

	r := run.Report
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs
			(id, started_at, seed, windows, no_trades, trades, initial_capital,
			 final_capital, total_return_pct, max_drawdown_pct, sharpe, win_rate_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.Seed, run.Windows, r.NoTrades, r.Trades,
		r.InitialCapitalCents, r.FinalCapitalCents, r.TotalReturnPct,
		r.MaxDrawdownPct, r.SharpeRatio, r.WinRatePct,
	); err != nil {
		return fmt.Errorf("storage.SaveRun: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades
			(run_id, seq, ts, instrument, side, contracts, price, pnl, capital_after)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: prepare: %w", err)
	}
	defer stmt.Close()

	for i, e := range run.Entries {
		if _, err := stmt.ExecContext(ctx,
			run.ID, i, e.Timestamp, e.InstrumentID, string(e.Side),
			e.ContractCount, e.ExecutionPriceCents, e.RealizedPnLCents, e.CapitalAfterCents,
		); err != nil {
			return fmt.Errorf("storage.SaveRun: insert trade %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveRun: commit: %w", err)
	}
	return nil
}

// GetRuns returns the most recent runs, newest first, with their ledgers.
func (s *SQLiteStorage) GetRuns(ctx context.Context, limit int) ([]domain.BacktestRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, seed, windows, no_trades, trades, initial_capital,
		       final_capital, total_return_pct, max_drawdown_pct, sharpe, win_rate_pct
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.GetRuns: %w", err)
	}
	defer rows.Close()

	var runs []domain.BacktestRun
	for rows.Next() {
		var run domain.BacktestRun
		if err := rows.Scan(
			&run.ID, &run.StartedAt, &run.Seed, &run.Windows,
			&run.Report.NoTrades, &run.Report.Trades,
			&run.Report.InitialCapitalCents, &run.Report.FinalCapitalCents,
			&run.Report.TotalReturnPct, &run.Report.MaxDrawdownPct,
			&run.Report.SharpeRatio, &run.Report.WinRatePct,
		); err != nil {
			return nil, fmt.Errorf("storage.GetRuns: scan: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.GetRuns: %w", err)
	}

	for i := range runs {
		entries, err := s.getTrades(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Entries = entries
	}
	return runs, nil
}

func (s *SQLiteStorage) getTrades(ctx context.Context, runID string) ([]domain.TradeLedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, instrument, side, contracts, price, pnl, capital_after
		FROM trades WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("storage.getTrades: %w", err)
	}
	defer rows.Close()

	var entries []domain.TradeLedgerEntry
	for rows.Next() {
		var e domain.TradeLedgerEntry
		var side string
		if err := rows.Scan(&e.Timestamp, &e.InstrumentID, &side,
			&e.ContractCount, &e.ExecutionPriceCents, &e.RealizedPnLCents, &e.CapitalAfterCents,
		); err != nil {
			return nil, fmt.Errorf("storage.getTrades: scan: %w", err)
		}
		e.Side = domain.Side(side)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveLiveOrder appends one row to the live audit trail.
func (s *SQLiteStorage) SaveLiveOrder(ctx context.Context, rec domain.LiveOrderRecord) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO live_orders
			(id, venue_order_id, instrument, side, contracts, price, accepted, placed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.VenueOrderID, rec.InstrumentID, string(rec.Side),
		rec.ContractCount, rec.PriceCents, rec.Accepted, rec.PlacedAt,
	); err != nil {
		return fmt.Errorf("storage.SaveLiveOrder: %w", err)
	}
	return nil
}

// GetLiveOrders returns the most recent live orders, newest first.
func (s *SQLiteStorage) GetLiveOrders(ctx context.Context, limit int) ([]domain.LiveOrderRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, venue_order_id, instrument, side, contracts, price, accepted, placed_at
		FROM live_orders ORDER BY placed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.GetLiveOrders: %w", err)
	}
	defer rows.Close()

	var recs []domain.LiveOrderRecord
	for rows.Next() {
		var rec domain.LiveOrderRecord
		var side string
		if err := rows.Scan(&rec.ID, &rec.VenueOrderID, &rec.InstrumentID, &side,
			&rec.ContractCount, &rec.PriceCents, &rec.Accepted, &rec.PlacedAt,
		); err != nil {
			return nil, fmt.Errorf("storage.GetLiveOrders: scan: %w", err)
		}
		rec.Side = domain.Side(side)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld deletes runs past retention and their trades. Failures only
// log: pruning is housekeeping, not correctness.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionRuns)

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM trades WHERE run_id IN (SELECT id FROM runs WHERE started_at < ?)`, cutoff); err != nil {
		slog.Warn("storage: prune trades failed", "err", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE started_at < ?`, cutoff); err != nil {
		slog.Warn("storage: prune runs failed", "err", err)
	}
}
