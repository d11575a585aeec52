// Package backtest replays historical outcomes through the decision engine
// under walk-forward validation: successive out-of-sample test windows, a
// synthetic market per row, and a trade ledger feeding the evaluator.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/kalshibot/internal/decision"
	"github.com/alejandrodnm/kalshibot/internal/domain"
	"github.com/alejandrodnm/kalshibot/internal/ports"
)

// ErrEmptyDataset is returned when the historical dataset has no rows.
var ErrEmptyDataset = errors.New("backtest: empty dataset")

// Config parameterizes one simulation run.
type Config struct {
	InitialCapitalCents int64
	TrainWindow         time.Duration
	TestWindow          time.Duration
	SpreadCents         int
	Risk                decision.Risk
	Seed                int64
}

// Simulator walks a dataset forward window by window, asking the forecast
// collaborator for a probability per test row and trading it against the
// synthetic market through the shared decision engine.
type Simulator struct {
	cfg       Config
	forecasts ports.ForecastProvider
	market    *SyntheticMarket
}

// New creates a Simulator. The noise source is injected so runs are
// reproducible under a fixed seed.
func New(cfg Config, forecasts ports.ForecastProvider, noise NoiseSource) *Simulator {
	return &Simulator{
		cfg:       cfg,
		forecasts: forecasts,
		market:    NewSyntheticMarket(cfg.SpreadCents, noise),
	}
}

// Run executes the walk-forward simulation over the dataset and returns
// the completed run: ledger plus performance report.
func (s *Simulator) Run(ctx context.Context, rows []domain.DatasetRow) (domain.BacktestRun, error) {
	if len(rows) == 0 {
		return domain.BacktestRun{}, ErrEmptyDataset
	}

	sorted := make([]domain.DatasetRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	first := sorted[0].Timestamp
	last := sorted[len(sorted)-1].Timestamp
	windows := domain.Windows(first, last, s.cfg.TrainWindow, s.cfg.TestWindow)
	if len(windows) == 0 {
		return domain.BacktestRun{}, fmt.Errorf(
			"backtest.Run: dataset spans %s, shorter than one train+test window",
			last.Sub(first))
	}

	run := domain.BacktestRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Seed:      s.cfg.Seed,
	}

	ledger := domain.NewLedger(s.cfg.InitialCapitalCents)

	for i, w := range windows {
		if err := ctx.Err(); err != nil {
			return domain.BacktestRun{}, fmt.Errorf("backtest.Run: %w", err)
		}

		test := rowsInWindow(sorted, w)
		if len(test) == 0 {
			slog.Info("backtest: no rows left, stopping", "window", i)
			break
		}

		slog.Debug("backtest: window",
			"n", fmt.Sprintf("%d/%d", i+1, len(windows)),
			"test_start", w.TestStart.Format("2006-01-02"),
			"test_end", w.TestEnd.Format("2006-01-02"),
			"rows", len(test),
		)

		s.simulateWindow(ctx, test, ledger)
		run.Windows++
	}

	run.Entries = ledger.Entries()
	run.Report = Evaluate(ledger)
	return run, nil
}

// simulateWindow trades every test row of one window. Forecast failures
// skip the row; they never abort the run.
func (s *Simulator) simulateWindow(ctx context.Context, rows []domain.DatasetRow, ledger *domain.Ledger) {
	for _, row := range rows {
		prob, err := s.forecasts.Probability(ctx, "", row.Timestamp)
		if err != nil {
			slog.Debug("backtest: forecast unavailable, skipping row",
				"ts", row.Timestamp.Format("2006-01-02"), "err", err)
			continue
		}
		if prob < 0 || prob > 1 {
			slog.Warn("backtest: forecast out of [0,1], skipping row",
				"ts", row.Timestamp.Format("2006-01-02"), "probability", prob)
			continue
		}

		quote := s.market.Quote("", prob)
		dec := decision.ChooseSideAndSize(domain.FairValueCents(prob), quote, ledger.Capital(), s.cfg.Risk)
		if !dec.IsTrade() {
			continue
		}

		pnl := settle(dec, row.Outcome)
		ledger.Append(row.Timestamp, "", dec.Side, dec.ContractCount, dec.ReferencePriceCents, pnl)
	}
}

// settle computes realized P&L in cents: a contract pays 100 if its side
// matches the outcome, else 0, minus the price paid.
func settle(dec domain.PositionDecision, outcome int) int64 {
	won := (dec.Side == domain.SideYes && outcome == 1) ||
		(dec.Side == domain.SideNo && outcome == 0)

	count := int64(dec.ContractCount)
	price := int64(dec.ReferencePriceCents)
	if won {
		return count * (100 - price)
	}
	return -count * price
}

func rowsInWindow(rows []domain.DatasetRow, w domain.WalkForwardWindow) []domain.DatasetRow {
	var out []domain.DatasetRow
	for _, r := range rows {
		if w.Contains(r.Timestamp) {
			out = append(out, r)
		}
	}
	return out
}
