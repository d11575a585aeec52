package domain

import "time"

// Instrument is a tradeable binary contract discovered on the venue.
type Instrument struct {
	Ticker    string
	Title     string
	CloseTime time.Time
}

// OrderRequest is a buy order for count contracts of one side at a limit
// price in cents.
type OrderRequest struct {
	InstrumentID string
	Side         Side
	Count        int
	PriceCents   int
}

// PlacedOrder is the venue's acknowledgment of a submitted order.
type PlacedOrder struct {
	OrderID  string
	Accepted bool
}
