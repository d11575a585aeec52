package ports

import (
	"context"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// RunStorage persists completed backtest runs.
type RunStorage interface {
	SaveRun(ctx context.Context, run domain.BacktestRun) error
	GetRuns(ctx context.Context, limit int) ([]domain.BacktestRun, error)
}

// LiveStorage persists the live order audit trail.
type LiveStorage interface {
	SaveLiveOrder(ctx context.Context, rec domain.LiveOrderRecord) error
	GetLiveOrders(ctx context.Context, limit int) ([]domain.LiveOrderRecord, error)
}
