package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alejandrodnm/kalshibot/config"
	"github.com/alejandrodnm/kalshibot/internal/adapters/forecast"
	"github.com/alejandrodnm/kalshibot/internal/adapters/kalshi"
	"github.com/alejandrodnm/kalshibot/internal/adapters/notify"
	"github.com/alejandrodnm/kalshibot/internal/adapters/storage"
	"github.com/alejandrodnm/kalshibot/internal/live"
)

func runLive(ctx context.Context, cfg *config.Config) {
	if cfg.API.Key == "" {
		slog.Error("live trading requires an API key, set KALSHI_API_KEY or api.key")
		os.Exit(1)
	}
	if cfg.Live.ForecastURL == "" {
		slog.Error("live trading requires live.forecast_url (or FORECAST_URL)")
		os.Exit(1)
	}

	slog.Info("=== LIVE TRADING MODE (REAL MONEY) ===",
		"series", cfg.Live.SeriesPrefix,
		"max_iterations", cfg.Live.MaxIterations,
		"sleep", cfg.SleepInterval(),
	)

	venue := kalshi.NewClient(cfg.API.BaseURL, cfg.API.Key, cfg.Live.SeriesPrefix)
	forecasts := forecast.NewService(cfg.Live.ForecastURL)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	trader := live.New(live.Config{
		MaxIterations: cfg.Live.MaxIterations,
		SleepInterval: cfg.SleepInterval(),
		ErrorBackoff:  cfg.ErrorBackoff(),
		Risk:          riskFromConfig(cfg),
	}, venue, forecasts, store, notify.NewConsole(false))

	if err := trader.Run(ctx); err != nil {
		slog.Error("live loop exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("live trading stopped cleanly")
}
