package domain

import "time"

// TradeLedgerEntry records one executed (or simulated) trade.
// The entry sequence is append-only and strictly time-ordered; it is the
// sole input to the performance evaluator.
type TradeLedgerEntry struct {
	Timestamp           time.Time
	InstrumentID        string
	Side                Side
	ContractCount       int
	ExecutionPriceCents int
	RealizedPnLCents    int64
	CapitalAfterCents   int64
}

// Ledger accumulates trades and the running capital of one run.
// Single writer: owned by the simulator in a backtest, by the live loop
// in a live run, never both.
type Ledger struct {
	InitialCapitalCents int64
	entries             []TradeLedgerEntry
	capital             int64
}

// NewLedger starts a ledger at the given initial capital.
func NewLedger(initialCapitalCents int64) *Ledger {
	return &Ledger{
		InitialCapitalCents: initialCapitalCents,
		capital:             initialCapitalCents,
	}
}

// Capital returns the current capital in cents.
func (l *Ledger) Capital() int64 {
	return l.capital
}

// Append settles a trade: applies the realized P&L to capital and records
// the entry with the capital after settlement.
func (l *Ledger) Append(ts time.Time, instrument string, side Side, count, priceCents int, pnlCents int64) TradeLedgerEntry {
	l.capital += pnlCents
	e := TradeLedgerEntry{
		Timestamp:           ts,
		InstrumentID:        instrument,
		Side:                side,
		ContractCount:       count,
		ExecutionPriceCents: priceCents,
		RealizedPnLCents:    pnlCents,
		CapitalAfterCents:   l.capital,
	}
	l.entries = append(l.entries, e)
	return e
}

// Entries returns the recorded trades in execution order.
func (l *Ledger) Entries() []TradeLedgerEntry {
	return l.entries
}

// Len returns the number of executed trades.
func (l *Ledger) Len() int {
	return len(l.entries)
}
