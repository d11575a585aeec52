package forecast_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/kalshibot/internal/adapters/forecast"
)

func writeForecasts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forecasts.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_Lookup(t *testing.T) {
	path := writeForecasts(t, "date,probability\n2024-01-01,0.63\n2024-01-02,0.41\n")

	f, err := forecast.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Len())

	p, err := f.Probability(context.Background(), "", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 0.41, p, 0.0001)
}

func TestLoadFile_MissingDayIsError(t *testing.T) {
	path := writeForecasts(t, "date,probability\n2024-01-01,0.63\n")

	f, err := forecast.LoadFile(path)
	require.NoError(t, err)

	_, err = f.Probability(context.Background(), "", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no forecast for 2024-02-01")
}

func TestLoadFile_ProbabilityOutOfRange(t *testing.T) {
	path := writeForecasts(t, "date,probability\n2024-01-01,1.2\n")

	_, err := forecast.LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be in [0,1]")
}

func TestLoadFile_MissingColumns(t *testing.T) {
	path := writeForecasts(t, "date,p\n2024-01-01,0.5\n")

	_, err := forecast.LoadFile(path)
	assert.Error(t, err)
}

func TestService_Probability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		assert.Equal(t, "HI-PHIL", r.URL.Query().Get("ticker"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ticker": "HI-PHIL", "probability": 0.72}`))
	}))
	defer srv.Close()

	svc := forecast.NewService(srv.URL)
	p, err := svc.Probability(context.Background(), "HI-PHIL", time.Now())

	require.NoError(t, err)
	assert.InDelta(t, 0.72, p, 0.0001)
}

func TestService_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not ready", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := forecast.NewService(srv.URL)
	_, err := svc.Probability(context.Background(), "HI-PHIL", time.Now())
	assert.Error(t, err)
}

func TestService_RejectsOutOfRangeProbability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"ticker": "X", "probability": -0.1}`))
	}))
	defer srv.Close()

	svc := forecast.NewService(srv.URL)
	_, err := svc.Probability(context.Background(), "X", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of [0,1]")
}
