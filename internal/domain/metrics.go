package domain

// PerformanceReport summarizes a run's ledger.
// When NoTrades is true the statistics are meaningless and must not be
// read; callers surface the "no trades" result instead.
type PerformanceReport struct {
	NoTrades            bool
	Trades              int
	InitialCapitalCents int64
	FinalCapitalCents   int64
	TotalReturnPct      float64
	MaxDrawdownPct      float64
	SharpeRatio         float64
	WinRatePct          float64
}
