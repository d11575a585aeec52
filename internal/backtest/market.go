package backtest

import (
	"math"
	"math/rand"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// NoiseSource produces the per-row market inefficiency in cents. It is a
// replaceable policy: production uses seeded Gaussian noise, tests inject
// a zero-noise stub to get exact expected ledgers.
type NoiseSource interface {
	Sample() float64
}

// GaussianNoise draws from N(0, stdDev) using a seeded generator.
type GaussianNoise struct {
	rng    *rand.Rand
	stdDev float64
}

// NewGaussianNoise creates a seeded Gaussian source. The same seed always
// produces the same noise sequence.
func NewGaussianNoise(seed int64, stdDevCents float64) *GaussianNoise {
	return &GaussianNoise{
		rng:    rand.New(rand.NewSource(seed)),
		stdDev: stdDevCents,
	}
}

// Sample returns one noise draw in cents.
func (g *GaussianNoise) Sample() float64 {
	return g.rng.NormFloat64() * g.stdDev
}

// SyntheticMarket synthesizes a two-sided quote around the forecast, since
// no historical order book is assumed: the market mid is the model
// probability plus noise, with a configured spread around it.
type SyntheticMarket struct {
	spreadCents int
	noise       NoiseSource
}

// NewSyntheticMarket builds the quote model with the given spread and
// noise source.
func NewSyntheticMarket(spreadCents int, noise NoiseSource) *SyntheticMarket {
	return &SyntheticMarket{spreadCents: spreadCents, noise: noise}
}

// Quote produces the synthetic quote for one row. Prices are rounded to
// whole cents and clamped to [1, 99]; the NO side is the complement of
// the YES side, so bid <= ask holds on both.
func (m *SyntheticMarket) Quote(instrumentID string, probability float64) domain.MarketQuote {
	mid := probability*100 + m.noise.Sample()
	half := float64(m.spreadCents) / 2

	yesAsk := clampCents(mid + half)
	yesBid := clampCents(mid - half)
	if yesBid > yesAsk {
		yesBid = yesAsk
	}

	return domain.MarketQuote{
		InstrumentID: instrumentID,
		YesAskCents:  yesAsk,
		YesBidCents:  yesBid,
		NoAskCents:   100 - yesBid,
		NoBidCents:   100 - yesAsk,
		Active:       true,
	}
}

func clampCents(v float64) int {
	c := int(math.Round(v))
	if c < 1 {
		return 1
	}
	if c > 99 {
		return 99
	}
	return c
}
