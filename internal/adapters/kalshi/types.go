package kalshi

// API DTOs for the Kalshi trade API v2. Only the fields the bot reads are
// mapped; everything else is ignored on decode.

type marketsResponse struct {
	Markets []apiMarket `json:"markets"`
	Cursor  string      `json:"cursor"`
}

type marketResponse struct {
	Market apiMarket `json:"market"`
}

type apiMarket struct {
	Ticker    string `json:"ticker"`
	Title     string `json:"title"`
	Status    string `json:"status"` // "active" when tradeable
	YesBid    int    `json:"yes_bid"`
	YesAsk    int    `json:"yes_ask"`
	NoBid     int    `json:"no_bid"`
	NoAsk     int    `json:"no_ask"`
	CloseTime string `json:"close_time"` // RFC 3339
}

type balanceResponse struct {
	Balance int64 `json:"balance"` // cents
}

type orderRequest struct {
	Ticker        string `json:"ticker"`
	ClientOrderID string `json:"client_order_id"`
	Action        string `json:"action"` // always "buy"
	Side          string `json:"side"`   // "yes" | "no"
	Count         int    `json:"count"`
	Type          string `json:"type"` // "limit"
	YesPrice      int    `json:"yes_price,omitempty"`
	NoPrice       int    `json:"no_price,omitempty"`
}

type orderResponse struct {
	Order struct {
		OrderID string `json:"order_id"`
		Status  string `json:"status"`
	} `json:"order"`
}
