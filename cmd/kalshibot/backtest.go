package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alejandrodnm/kalshibot/config"
	"github.com/alejandrodnm/kalshibot/internal/adapters/dataset"
	"github.com/alejandrodnm/kalshibot/internal/adapters/forecast"
	"github.com/alejandrodnm/kalshibot/internal/adapters/notify"
	"github.com/alejandrodnm/kalshibot/internal/adapters/storage"
	"github.com/alejandrodnm/kalshibot/internal/backtest"
	"github.com/alejandrodnm/kalshibot/internal/decision"
)

func runBacktest(ctx context.Context, cfg *config.Config, table bool) {
	rows, err := dataset.Load(cfg.Backtest.DatasetPath)
	if err != nil {
		slog.Error("failed to load dataset", "err", err)
		os.Exit(1)
	}
	slog.Info("dataset loaded", "rows", len(rows), "path", cfg.Backtest.DatasetPath)

	forecasts, err := forecast.LoadFile(cfg.Backtest.ForecastPath)
	if err != nil {
		slog.Error("failed to load forecasts", "err", err)
		os.Exit(1)
	}
	slog.Info("forecasts loaded", "count", forecasts.Len(), "path", cfg.Backtest.ForecastPath)

	seed := cfg.Backtest.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
		slog.Warn("no random seed configured, run is not reproducible", "seed", seed)
	}

	sim := backtest.New(backtest.Config{
		InitialCapitalCents: cfg.Backtest.InitialCapitalCents,
		TrainWindow:         cfg.TrainWindow(),
		TestWindow:          cfg.TestWindow(),
		SpreadCents:         cfg.Backtest.AssumedSpreadCents,
		Risk:                riskFromConfig(cfg),
		Seed:                seed,
	}, forecasts, backtest.NewGaussianNoise(seed, cfg.Backtest.NoiseStdCents))

	run, err := sim.Run(ctx, rows)
	if err != nil {
		slog.Error("backtest failed", "err", err)
		os.Exit(1)
	}

	notifier := notify.NewConsole(table)
	if err := notifier.ReportBacktest(ctx, run); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.SaveRun(ctx, run); err != nil {
		slog.Error("failed to persist run", "err", err)
		os.Exit(1)
	}

	slog.Info("backtest complete",
		"run_id", run.ID,
		"windows", run.Windows,
		"trades", run.Report.Trades,
		"no_trades", run.Report.NoTrades,
	)
}

func riskFromConfig(cfg *config.Config) decision.Risk {
	return decision.Risk{
		MinimumEdgeCents: cfg.Trading.MinimumEdgeCents,
		MaxRiskFraction:  cfg.Trading.MaxRiskFraction,
		MinimumContracts: cfg.Trading.MinimumContracts,
	}
}
