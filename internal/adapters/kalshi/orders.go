package kalshi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// SubmitOrder places a limit buy order for the requested side. The client
// order ID makes retried submissions idempotent on the venue side.
func (c *Client) SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.PlacedOrder, error) {
	if req.Side != domain.SideYes && req.Side != domain.SideNo {
		return domain.PlacedOrder{}, fmt.Errorf("kalshi.SubmitOrder: invalid side %q", req.Side)
	}
	if req.Count <= 0 {
		return domain.PlacedOrder{}, fmt.Errorf("kalshi.SubmitOrder: invalid count %d", req.Count)
	}

	body := orderRequest{
		Ticker:        req.InstrumentID,
		ClientOrderID: uuid.New().String(),
		Action:        "buy",
		Count:         req.Count,
		Type:          "limit",
	}
	if req.Side == domain.SideYes {
		body.Side = "yes"
		body.YesPrice = req.PriceCents
	} else {
		body.Side = "no"
		body.NoPrice = req.PriceCents
	}

	var resp orderResponse
	url := c.baseURL + "/portfolio/orders"
	if err := c.post(ctx, url, body, &resp); err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("kalshi.SubmitOrder: %s: %w", req.InstrumentID, err)
	}

	accepted := resp.Order.Status != "rejected" && resp.Order.Status != "canceled"
	slog.Debug("kalshi: order submitted",
		"ticker", req.InstrumentID,
		"side", req.Side,
		"count", req.Count,
		"price", req.PriceCents,
		"status", resp.Order.Status,
	)

	return domain.PlacedOrder{OrderID: resp.Order.OrderID, Accepted: accepted}, nil
}

// GetBalance returns the available portfolio balance in cents.
func (c *Client) GetBalance(ctx context.Context) (int64, error) {
	var resp balanceResponse
	url := c.baseURL + "/portfolio/balance"
	if err := c.get(ctx, url, &resp); err != nil {
		return 0, fmt.Errorf("kalshi.GetBalance: %w", err)
	}
	return resp.Balance, nil
}
