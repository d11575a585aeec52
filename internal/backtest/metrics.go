package backtest

import (
	"math"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// tradesPerYear annualizes the Sharpe-like ratio assuming roughly one
// trading opportunity per calendar trading day.
const tradesPerYear = 252

// Evaluate computes the performance report for a finished ledger. An empty
// ledger yields the explicit no-trades result instead of undefined
// statistics.
func Evaluate(ledger *domain.Ledger) domain.PerformanceReport {
	entries := ledger.Entries()
	initial := ledger.InitialCapitalCents

	if len(entries) == 0 {
		return domain.PerformanceReport{
			NoTrades:            true,
			InitialCapitalCents: initial,
			FinalCapitalCents:   initial,
		}
	}

	final := entries[len(entries)-1].CapitalAfterCents

	return domain.PerformanceReport{
		Trades:              len(entries),
		InitialCapitalCents: initial,
		FinalCapitalCents:   final,
		TotalReturnPct:      (float64(final)/float64(initial) - 1) * 100,
		MaxDrawdownPct:      maxDrawdownPct(initial, entries),
		SharpeRatio:         sharpeRatio(initial, entries),
		WinRatePct:          winRatePct(entries),
	}
}

// maxDrawdownPct is the largest peak-to-trough percentage decline of the
// capital series, with the initial capital prepended as the origin.
func maxDrawdownPct(initial int64, entries []domain.TradeLedgerEntry) float64 {
	peak := float64(initial)
	maxDD := 0.0
	for _, e := range entries {
		v := float64(e.CapitalAfterCents)
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (peak - v) / peak * 100
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// sharpeRatio is mean(per-trade return) / std(per-trade return) scaled by
// sqrt(252). Zero when the deviation is zero or there is only one trade.
func sharpeRatio(initial int64, entries []domain.TradeLedgerEntry) float64 {
	returns := perTradeReturns(initial, entries)
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns) - 1)

	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(tradesPerYear)
}

// perTradeReturns divides each trade's P&L by the capital before it.
func perTradeReturns(initial int64, entries []domain.TradeLedgerEntry) []float64 {
	out := make([]float64, 0, len(entries))
	before := float64(initial)
	for _, e := range entries {
		if before > 0 {
			out = append(out, float64(e.RealizedPnLCents)/before)
		}
		before = float64(e.CapitalAfterCents)
	}
	return out
}

func winRatePct(entries []domain.TradeLedgerEntry) float64 {
	wins := 0
	for _, e := range entries {
		if e.RealizedPnLCents > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(entries)) * 100
}
