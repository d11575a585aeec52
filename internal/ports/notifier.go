package ports

import (
	"context"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// Notifier presents results to the user. The console implementation
// prints a formatted table for backtests and a compact line per live
// cycle.
type Notifier interface {
	ReportBacktest(ctx context.Context, run domain.BacktestRun) error
	ReportLiveCycle(ctx context.Context, cycle domain.LiveCycleResult) error
}
