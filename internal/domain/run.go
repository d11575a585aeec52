package domain

import "time"

// BacktestRun bundles everything one simulation produced: the performance
// report plus the full ledger, under a unique run ID.
type BacktestRun struct {
	ID        string
	StartedAt time.Time
	Seed      int64
	Windows   int
	Report    PerformanceReport
	Entries   []TradeLedgerEntry
}

// LiveOrderRecord is the audit trail row for one order submitted by the
// live loop, accepted or not.
type LiveOrderRecord struct {
	ID            string
	VenueOrderID  string
	InstrumentID  string
	Side          Side
	ContractCount int
	PriceCents    int
	Accepted      bool
	PlacedAt      time.Time
}

// LiveCycleResult summarizes one iteration of the live loop.
type LiveCycleResult struct {
	Iteration    int
	Instruments  int
	Decisions    int
	OrdersPlaced int
	Skipped      int
	CapitalCents int64
}
