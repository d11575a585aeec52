package domain

import "fmt"

// MarketQuote is a snapshot of both sides of a binary market.
// All prices are whole cents in [0, 100].
type MarketQuote struct {
	InstrumentID string
	YesAskCents  int
	YesBidCents  int
	NoAskCents   int
	NoBidCents   int
	Active       bool
}

// Validate checks the price bounds and the bid<=ask invariant per side.
func (q MarketQuote) Validate() error {
	for _, p := range []int{q.YesAskCents, q.YesBidCents, q.NoAskCents, q.NoBidCents} {
		if p < 0 || p > 100 {
			return fmt.Errorf("domain.MarketQuote: price %d out of [0,100] for %s", p, q.InstrumentID)
		}
	}
	if q.YesBidCents > q.YesAskCents {
		return fmt.Errorf("domain.MarketQuote: YES bid %d > ask %d for %s", q.YesBidCents, q.YesAskCents, q.InstrumentID)
	}
	if q.NoBidCents > q.NoAskCents {
		return fmt.Errorf("domain.MarketQuote: NO bid %d > ask %d for %s", q.NoBidCents, q.NoAskCents, q.InstrumentID)
	}
	return nil
}
