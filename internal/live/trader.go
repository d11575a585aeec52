// Package live runs the time-stepped trading loop against the venue:
// discover instruments, forecast, quote, decide, submit. It shares the
// decision engine with the backtest simulator so live behavior matches
// what was backtested.
package live

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/kalshibot/internal/decision"
	"github.com/alejandrodnm/kalshibot/internal/domain"
	"github.com/alejandrodnm/kalshibot/internal/ports"
)

// Config bounds the loop. All values are validated by the config package.
type Config struct {
	MaxIterations int
	SleepInterval time.Duration
	ErrorBackoff  time.Duration
	Risk          decision.Risk
}

// Trader is the single-threaded live controller. It is the only writer of
// the bankroll during a live run.
type Trader struct {
	cfg       Config
	venue     ports.Venue
	forecasts ports.ForecastProvider
	store     ports.LiveStorage
	notifier  ports.Notifier

	bankrollCents int64
}

// New wires a Trader. store and notifier may be nil (no persistence /
// no reporting).
func New(cfg Config, venue ports.Venue, forecasts ports.ForecastProvider, store ports.LiveStorage, notifier ports.Notifier) *Trader {
	return &Trader{
		cfg:       cfg,
		venue:     venue,
		forecasts: forecasts,
		store:     store,
		notifier:  notifier,
	}
}

// Run executes up to MaxIterations trading cycles, stopping early on
// context cancellation. The initial bankroll fetch is fatal: there is no
// safe default to trade with.
func (t *Trader) Run(ctx context.Context) error {
	balance, err := t.venue.GetBalance(ctx)
	if err != nil {
		return fmt.Errorf("live.Run: initial balance: %w", err)
	}
	t.bankrollCents = balance

	slog.Info("live: starting",
		"balance", fmt.Sprintf("$%.2f", float64(balance)/100),
		"max_iterations", t.cfg.MaxIterations,
		"sleep", t.cfg.SleepInterval,
	)

	for iter := 1; iter <= t.cfg.MaxIterations; iter++ {
		if ctx.Err() != nil {
			slog.Info("live: stopped by user", "iterations", iter-1)
			return nil
		}

		result, err := t.runCycle(ctx, iter)
		if err != nil {
			// The iteration still counts: a persistent failure must not
			// turn into a tight retry loop.
			slog.Error("live: cycle failed", "iteration", iter, "err", err)
			if !sleepCtx(ctx, t.cfg.ErrorBackoff) {
				slog.Info("live: stopped by user during backoff", "iterations", iter)
				return nil
			}
			continue
		}

		if t.notifier != nil {
			if err := t.notifier.ReportLiveCycle(ctx, result); err != nil {
				slog.Warn("live: notifier error", "err", err)
			}
		}

		if iter < t.cfg.MaxIterations && !sleepCtx(ctx, t.cfg.SleepInterval) {
			slog.Info("live: stopped by user during sleep", "iterations", iter)
			return nil
		}
	}

	slog.Info("live: iteration limit reached", "iterations", t.cfg.MaxIterations)
	return nil
}

// runCycle performs one full iteration. Per-instrument failures are
// logged and skipped; only discovery-level failures bubble up.
func (t *Trader) runCycle(ctx context.Context, iter int) (domain.LiveCycleResult, error) {
	start := time.Now()

	// Refresh bankroll; keep the last known value on transient failure.
	if balance, err := t.venue.GetBalance(ctx); err != nil {
		slog.Warn("live: balance refresh failed, keeping last known",
			"balance", t.bankrollCents, "err", err)
	} else {
		t.bankrollCents = balance
	}

	instruments, err := t.venue.DiscoverInstruments(ctx)
	if err != nil {
		return domain.LiveCycleResult{}, fmt.Errorf("live.runCycle: discover: %w", err)
	}

	result := domain.LiveCycleResult{
		Iteration:    iter,
		Instruments:  len(instruments),
		CapitalCents: t.bankrollCents,
	}

	for _, inst := range instruments {
		// Cancellation stops at the next safe point: between instruments.
		if ctx.Err() != nil {
			break
		}

		placed, decided, err := t.processInstrument(ctx, inst)
		if err != nil {
			result.Skipped++
			slog.Warn("live: instrument skipped", "ticker", inst.Ticker, "err", err)
			continue
		}
		if decided {
			result.Decisions++
		}
		if placed {
			result.OrdersPlaced++
		}
	}

	slog.Info("live: cycle complete",
		"iteration", iter,
		"instruments", result.Instruments,
		"decisions", result.Decisions,
		"orders", result.OrdersPlaced,
		"skipped", result.Skipped,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

// processInstrument runs forecast → quote → decide → submit for one
// instrument. Returns whether an order was placed and whether a non-NONE
// decision was made.
func (t *Trader) processInstrument(ctx context.Context, inst domain.Instrument) (placed, decided bool, err error) {
	prob, err := t.forecasts.Probability(ctx, inst.Ticker, time.Now().UTC())
	if err != nil {
		return false, false, fmt.Errorf("forecast: %w", err)
	}
	if prob < 0 || prob > 1 {
		return false, false, fmt.Errorf("forecast: probability %.4f out of [0,1]", prob)
	}

	quote, err := t.venue.GetQuote(ctx, inst.Ticker)
	if err != nil {
		return false, false, fmt.Errorf("quote: %w", err)
	}
	if err := quote.Validate(); err != nil {
		return false, false, fmt.Errorf("quote: %w", err)
	}
	if !quote.Active {
		slog.Debug("live: market inactive", "ticker", inst.Ticker)
		return false, false, nil
	}

	fairValue := domain.FairValueCents(prob)
	dec := decision.ChooseSideAndSize(fairValue, quote, t.bankrollCents, t.cfg.Risk)

	slog.Debug("live: evaluated",
		"ticker", inst.Ticker,
		"fair_value", fairValue,
		"yes_ask", quote.YesAskCents,
		"no_ask", quote.NoAskCents,
		"side", dec.Side,
		"contracts", dec.ContractCount,
	)

	if !dec.IsTrade() {
		return false, false, nil
	}

	order, err := t.venue.SubmitOrder(ctx, domain.OrderRequest{
		InstrumentID: inst.Ticker,
		Side:         dec.Side,
		Count:        dec.ContractCount,
		PriceCents:   dec.ReferencePriceCents,
	})
	if err != nil {
		// Submission failure does not abort the cycle; the decision stands
		// in the log for the audit trail.
		slog.Error("live: order submission failed", "ticker", inst.Ticker, "err", err)
		return false, true, nil
	}

	slog.Info("live: order placed",
		"ticker", inst.Ticker,
		"side", dec.Side,
		"contracts", dec.ContractCount,
		"price", dec.ReferencePriceCents,
		"accepted", order.Accepted,
		"order_id", order.OrderID,
	)

	t.recordOrder(ctx, inst, dec, order)
	return order.Accepted, true, nil
}

func (t *Trader) recordOrder(ctx context.Context, inst domain.Instrument, dec domain.PositionDecision, order domain.PlacedOrder) {
	if t.store == nil {
		return
	}
	rec := domain.LiveOrderRecord{
		ID:            uuid.New().String(),
		VenueOrderID:  order.OrderID,
		InstrumentID:  inst.Ticker,
		Side:          dec.Side,
		ContractCount: dec.ContractCount,
		PriceCents:    dec.ReferencePriceCents,
		Accepted:      order.Accepted,
		PlacedAt:      time.Now().UTC(),
	}
	if err := t.store.SaveLiveOrder(ctx, rec); err != nil {
		slog.Warn("live: error saving order record", "err", err)
	}
}

// sleepCtx blocks for d or until the context is cancelled. Returns false
// on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
