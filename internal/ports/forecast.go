package ports

import (
	"context"
	"time"
)

// ForecastProvider hands out model probabilities. The model itself is an
// external collaborator: the backtest reads precomputed predictions keyed
// by timestamp, the live loop asks a forecast service per instrument.
//
// Failure is non-fatal for callers: the affected row or instrument is
// skipped for that iteration.
type ForecastProvider interface {
	// Probability returns P(YES) in [0,1] for the instrument as of the
	// given time. Backtest callers pass an empty instrument and the row
	// timestamp.
	Probability(ctx context.Context, instrumentID string, asOf time.Time) (float64, error)
}
