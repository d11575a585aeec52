package domain

import (
	"fmt"
	"time"
)

// ForecastSample is one model probability for a point in time.
type ForecastSample struct {
	Timestamp   time.Time
	Probability float64 // P(YES) in [0,1]
}

// Validate checks the probability bounds.
func (f ForecastSample) Validate() error {
	if f.Probability < 0 || f.Probability > 1 {
		return fmt.Errorf("domain.ForecastSample: probability %.4f out of [0,1] at %s",
			f.Probability, f.Timestamp.Format("2006-01-02"))
	}
	return nil
}

// DatasetRow is one historical observation: a timestamp and the binary
// outcome that eventually resolved (1 = YES, 0 = NO).
type DatasetRow struct {
	Timestamp time.Time
	Outcome   int
}

// FairValueCents converts a probability to a contract fair value in cents.
func FairValueCents(probability float64) int {
	return int(probability * 100)
}
