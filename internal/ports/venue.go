package ports

import (
	"context"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// Venue is the capability set the live loop needs from the market venue.
// A test double substitutes for the real Kalshi client without network
// access.
type Venue interface {
	// DiscoverInstruments returns the currently tradeable instruments
	// matching the configured series filter.
	DiscoverInstruments(ctx context.Context) ([]domain.Instrument, error)

	// GetQuote returns the current two-sided quote for an instrument.
	GetQuote(ctx context.Context, instrumentID string) (domain.MarketQuote, error)

	// SubmitOrder places a limit buy order. A rejected order is not an
	// error; transport failures are.
	SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.PlacedOrder, error)

	// GetBalance returns the available bankroll in cents. Failure at loop
	// startup is fatal for the run: there is no safe default bankroll.
	GetBalance(ctx context.Context) (int64, error)
}
