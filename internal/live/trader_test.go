package live_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/kalshibot/internal/decision"
	"github.com/alejandrodnm/kalshibot/internal/domain"
	"github.com/alejandrodnm/kalshibot/internal/live"
)

// --- mocks ---

type mockVenue struct {
	balance     int64
	balanceErr  error
	instruments []domain.Instrument
	discoverErr error
	quotes      map[string]domain.MarketQuote
	quoteErrs   map[string]error
	submitted   []domain.OrderRequest
	submitErr   error
}

func (m *mockVenue) DiscoverInstruments(_ context.Context) ([]domain.Instrument, error) {
	return m.instruments, m.discoverErr
}

func (m *mockVenue) GetQuote(_ context.Context, id string) (domain.MarketQuote, error) {
	if err := m.quoteErrs[id]; err != nil {
		return domain.MarketQuote{}, err
	}
	return m.quotes[id], nil
}

func (m *mockVenue) SubmitOrder(_ context.Context, req domain.OrderRequest) (domain.PlacedOrder, error) {
	if m.submitErr != nil {
		return domain.PlacedOrder{}, m.submitErr
	}
	m.submitted = append(m.submitted, req)
	return domain.PlacedOrder{OrderID: "ord-1", Accepted: true}, nil
}

func (m *mockVenue) GetBalance(_ context.Context) (int64, error) {
	return m.balance, m.balanceErr
}

type mockForecaster struct {
	probs map[string]float64
	errs  map[string]error
}

func (m *mockForecaster) Probability(_ context.Context, id string, _ time.Time) (float64, error) {
	if err := m.errs[id]; err != nil {
		return 0, err
	}
	return m.probs[id], nil
}

type mockLiveStore struct {
	records []domain.LiveOrderRecord
}

func (m *mockLiveStore) SaveLiveOrder(_ context.Context, rec domain.LiveOrderRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *mockLiveStore) GetLiveOrders(_ context.Context, _ int) ([]domain.LiveOrderRecord, error) {
	return m.records, nil
}

type mockCycleNotifier struct {
	cycles []domain.LiveCycleResult
}

func (m *mockCycleNotifier) ReportBacktest(_ context.Context, _ domain.BacktestRun) error {
	return nil
}

func (m *mockCycleNotifier) ReportLiveCycle(_ context.Context, c domain.LiveCycleResult) error {
	m.cycles = append(m.cycles, c)
	return nil
}

// --- helpers ---

func liveConfig(iterations int) live.Config {
	return live.Config{
		MaxIterations: iterations,
		SleepInterval: 0,
		ErrorBackoff:  0,
		Risk: decision.Risk{
			MinimumEdgeCents: 7,
			MaxRiskFraction:  0.05,
		},
	}
}

func tradableQuote(ticker string) domain.MarketQuote {
	// fair value 70 vs YES ask 60 → edge 10, qualifies at min edge 7.
	return domain.MarketQuote{
		InstrumentID: ticker,
		YesAskCents:  60,
		YesBidCents:  58,
		NoAskCents:   42,
		NoBidCents:   40,
		Active:       true,
	}
}

// --- tests ---

func TestTrader_FatalWithoutInitialBalance(t *testing.T) {
	venue := &mockVenue{balanceErr: errors.New("venue down")}
	trader := live.New(liveConfig(3), venue, &mockForecaster{}, nil, nil)

	err := trader.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial balance")
}

func TestTrader_PlacesOrderOnEdge(t *testing.T) {
	venue := &mockVenue{
		balance:     100_000,
		instruments: []domain.Instrument{{Ticker: "HI-PHIL"}},
		quotes:      map[string]domain.MarketQuote{"HI-PHIL": tradableQuote("HI-PHIL")},
	}
	forecaster := &mockForecaster{probs: map[string]float64{"HI-PHIL": 0.7}}
	store := &mockLiveStore{}
	notifier := &mockCycleNotifier{}

	trader := live.New(liveConfig(1), venue, forecaster, store, notifier)
	require.NoError(t, trader.Run(context.Background()))

	require.Len(t, venue.submitted, 1)
	order := venue.submitted[0]
	assert.Equal(t, domain.SideYes, order.Side)
	assert.Equal(t, 50, order.Count, "5%% of $1000 at $1/contract")
	assert.Equal(t, 60, order.PriceCents)

	require.Len(t, store.records, 1)
	assert.True(t, store.records[0].Accepted)
	assert.Equal(t, "ord-1", store.records[0].VenueOrderID)

	require.Len(t, notifier.cycles, 1)
	assert.Equal(t, 1, notifier.cycles[0].OrdersPlaced)
}

func TestTrader_InstrumentFailureDoesNotAbortCycle(t *testing.T) {
	venue := &mockVenue{
		balance: 100_000,
		instruments: []domain.Instrument{
			{Ticker: "BROKEN"},
			{Ticker: "HEALTHY"},
		},
		quotes:    map[string]domain.MarketQuote{"HEALTHY": tradableQuote("HEALTHY")},
		quoteErrs: map[string]error{"BROKEN": errors.New("quote timeout")},
	}
	forecaster := &mockForecaster{probs: map[string]float64{"BROKEN": 0.7, "HEALTHY": 0.7}}
	notifier := &mockCycleNotifier{}

	trader := live.New(liveConfig(1), venue, forecaster, nil, notifier)
	require.NoError(t, trader.Run(context.Background()))

	require.Len(t, venue.submitted, 1, "healthy instrument still trades")
	assert.Equal(t, "HEALTHY", venue.submitted[0].InstrumentID)

	require.Len(t, notifier.cycles, 1)
	assert.Equal(t, 1, notifier.cycles[0].Skipped)
}

func TestTrader_DiscoveryFailureConsumesIteration(t *testing.T) {
	venue := &mockVenue{
		balance:     100_000,
		discoverErr: errors.New("venue maintenance"),
	}
	notifier := &mockCycleNotifier{}

	trader := live.New(liveConfig(3), venue, &mockForecaster{}, nil, notifier)
	require.NoError(t, trader.Run(context.Background()))

	assert.Empty(t, notifier.cycles, "failed cycles report nothing")
	assert.Empty(t, venue.submitted)
}

func TestTrader_StopsAtIterationLimit(t *testing.T) {
	venue := &mockVenue{
		balance:     100_000,
		instruments: []domain.Instrument{{Ticker: "HI-PHIL"}},
		quotes:      map[string]domain.MarketQuote{"HI-PHIL": tradableQuote("HI-PHIL")},
	}
	forecaster := &mockForecaster{probs: map[string]float64{"HI-PHIL": 0.7}}
	notifier := &mockCycleNotifier{}

	trader := live.New(liveConfig(4), venue, forecaster, nil, notifier)
	require.NoError(t, trader.Run(context.Background()))

	assert.Len(t, notifier.cycles, 4)
}

func TestTrader_InactiveQuoteIsNotTraded(t *testing.T) {
	quote := tradableQuote("CLOSED")
	quote.Active = false
	venue := &mockVenue{
		balance:     100_000,
		instruments: []domain.Instrument{{Ticker: "CLOSED"}},
		quotes:      map[string]domain.MarketQuote{"CLOSED": quote},
	}
	forecaster := &mockForecaster{probs: map[string]float64{"CLOSED": 0.7}}
	notifier := &mockCycleNotifier{}

	trader := live.New(liveConfig(1), venue, forecaster, nil, notifier)
	require.NoError(t, trader.Run(context.Background()))

	assert.Empty(t, venue.submitted)
	require.Len(t, notifier.cycles, 1)
	assert.Zero(t, notifier.cycles[0].Skipped, "inactive is a skip-quietly, not a failure")
}

func TestTrader_SubmitFailureLoggedNotFatal(t *testing.T) {
	venue := &mockVenue{
		balance:     100_000,
		instruments: []domain.Instrument{{Ticker: "HI-PHIL"}},
		quotes:      map[string]domain.MarketQuote{"HI-PHIL": tradableQuote("HI-PHIL")},
		submitErr:   errors.New("order gateway down"),
	}
	forecaster := &mockForecaster{probs: map[string]float64{"HI-PHIL": 0.7}}
	store := &mockLiveStore{}
	notifier := &mockCycleNotifier{}

	trader := live.New(liveConfig(1), venue, forecaster, store, notifier)
	require.NoError(t, trader.Run(context.Background()))

	assert.Empty(t, store.records)
	require.Len(t, notifier.cycles, 1)
	assert.Equal(t, 1, notifier.cycles[0].Decisions, "the decision was made even though submission failed")
	assert.Zero(t, notifier.cycles[0].OrdersPlaced)
}

func TestTrader_CancelledContextStopsCleanly(t *testing.T) {
	venue := &mockVenue{balance: 100_000}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	trader := live.New(liveConfig(100), venue, &mockForecaster{}, nil, nil)
	assert.NoError(t, trader.Run(ctx), "user interrupt is a graceful stop, not an error")
}
