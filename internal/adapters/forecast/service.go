package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Service asks an external forecast HTTP endpoint for the current model
// probability of one instrument. The endpoint contract is
// GET {base}/forecast?ticker=X → {"ticker": "X", "probability": 0.63}.
type Service struct {
	http    *http.Client
	baseURL string
}

// NewService creates a forecast service client.
func NewService(baseURL string) *Service {
	return &Service{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

type forecastResponse struct {
	Ticker      string  `json:"ticker"`
	Probability float64 `json:"probability"`
}

// Probability implements ports.ForecastProvider. Failures are returned
// as-is; the live loop skips the instrument for that iteration.
func (s *Service) Probability(ctx context.Context, instrumentID string, _ time.Time) (float64, error) {
	url := fmt.Sprintf("%s/forecast?ticker=%s", s.baseURL, instrumentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("forecast.Probability: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("forecast.Probability: %s: %w", instrumentID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("forecast.Probability: %s: status %d: %s", instrumentID, resp.StatusCode, string(body))
	}

	var out forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("forecast.Probability: decode: %w", err)
	}
	if out.Probability < 0 || out.Probability > 1 {
		return 0, fmt.Errorf("forecast.Probability: %s: probability %.4f out of [0,1]", instrumentID, out.Probability)
	}
	return out.Probability, nil
}
