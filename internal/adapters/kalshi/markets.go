package kalshi

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

const pageSize = 200

// DiscoverInstruments returns all open markets whose ticker matches the
// configured series prefix. Pages through the cursor until exhausted.
func (c *Client) DiscoverInstruments(ctx context.Context) ([]domain.Instrument, error) {
	var all []domain.Instrument
	cursor := ""

	for {
		url := fmt.Sprintf("%s/markets?limit=%d&status=open", c.baseURL, pageSize)
		if c.seriesPrefix != "" {
			url += "&series_ticker=" + c.seriesPrefix
		}
		if cursor != "" {
			url += "&cursor=" + cursor
		}

		var resp marketsResponse
		if err := c.get(ctx, url, &resp); err != nil {
			return nil, fmt.Errorf("kalshi.DiscoverInstruments: %w", err)
		}

		for _, m := range resp.Markets {
			if c.seriesPrefix != "" && !strings.HasPrefix(m.Ticker, c.seriesPrefix) {
				continue
			}
			all = append(all, domain.Instrument{
				Ticker:    m.Ticker,
				Title:     m.Title,
				CloseTime: parseCloseTime(m.CloseTime),
			})
		}

		if resp.Cursor == "" {
			break
		}
		cursor = resp.Cursor
	}

	slog.Debug("kalshi: instruments discovered", "count", len(all), "series", c.seriesPrefix)
	return all, nil
}

// GetQuote fetches the current two-sided quote for one market.
func (c *Client) GetQuote(ctx context.Context, instrumentID string) (domain.MarketQuote, error) {
	url := fmt.Sprintf("%s/markets/%s", c.baseURL, instrumentID)

	var resp marketResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return domain.MarketQuote{}, fmt.Errorf("kalshi.GetQuote: %s: %w", instrumentID, err)
	}

	m := resp.Market
	quote := domain.MarketQuote{
		InstrumentID: m.Ticker,
		YesAskCents:  m.YesAsk,
		YesBidCents:  m.YesBid,
		NoAskCents:   m.NoAsk,
		NoBidCents:   m.NoBid,
		Active:       m.Status == "active",
	}
	if err := quote.Validate(); err != nil {
		return domain.MarketQuote{}, fmt.Errorf("kalshi.GetQuote: %w", err)
	}
	return quote, nil
}

func parseCloseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
