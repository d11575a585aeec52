package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration for both run modes.
type Config struct {
	Trading  TradingConfig  `yaml:"trading"`
	Backtest BacktestConfig `yaml:"backtest"`
	Live     LiveConfig     `yaml:"live"`
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// TradingConfig holds the risk thresholds shared by backtest and live.
// These bound financial risk and are never silently defaulted: Validate
// rejects missing or out-of-range values at startup.
type TradingConfig struct {
	MinimumEdgeCents int     `yaml:"minimum_edge_cents"`
	MaxRiskFraction  float64 `yaml:"max_risk_fraction"`
	// MinimumContracts is the optional lot floor when a positive Kelly
	// fraction rounds to zero contracts. 0 disables it.
	MinimumContracts int `yaml:"minimum_contracts"`
}

// BacktestConfig controls the walk-forward simulation.
type BacktestConfig struct {
	InitialCapitalCents int64   `yaml:"initial_capital_cents"`
	TrainWindowDays     int     `yaml:"train_window_days"`
	TestWindowDays      int     `yaml:"test_window_days"`
	AssumedSpreadCents  int     `yaml:"assumed_spread_cents"`
	NoiseStdCents       float64 `yaml:"noise_std_cents"`
	// RandomSeed fixes the synthetic market noise. 0 means seed from the
	// clock (non-reproducible).
	RandomSeed   int64  `yaml:"random_seed"`
	DatasetPath  string `yaml:"dataset_path"`
	ForecastPath string `yaml:"forecast_path"`
}

// LiveConfig controls the live trading loop.
type LiveConfig struct {
	MaxIterations         int    `yaml:"max_iterations"`
	IterationSleepSeconds int    `yaml:"iteration_sleep_seconds"`
	ErrorBackoffSeconds   int    `yaml:"error_backoff_seconds"`
	SeriesPrefix          string `yaml:"series_prefix"`
	ForecastURL           string `yaml:"forecast_url"`
}

// APIConfig contains the venue API settings.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Key     string `yaml:"key"` // overridden by KALSHI_API_KEY
}

// StorageConfig controls where results are persisted.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, or ":memory:"
}

// LogConfig controls logging format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML config and the .env file if present, applies env
// overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	// Load .env if present (silently skip if missing).
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that would trade with unbounded or
// undefined risk.
func (c *Config) Validate() error {
	if c.Trading.MinimumEdgeCents <= 0 {
		return fmt.Errorf("config.Validate: trading.minimum_edge_cents must be > 0, got %d", c.Trading.MinimumEdgeCents)
	}
	if c.Trading.MaxRiskFraction <= 0 || c.Trading.MaxRiskFraction > 1 {
		return fmt.Errorf("config.Validate: trading.max_risk_fraction must be in (0, 1], got %g", c.Trading.MaxRiskFraction)
	}
	if c.Trading.MinimumContracts < 0 {
		return fmt.Errorf("config.Validate: trading.minimum_contracts must be >= 0, got %d", c.Trading.MinimumContracts)
	}
	if c.Backtest.InitialCapitalCents <= 0 {
		return fmt.Errorf("config.Validate: backtest.initial_capital_cents must be > 0, got %d", c.Backtest.InitialCapitalCents)
	}
	if c.Backtest.TrainWindowDays <= 0 {
		return fmt.Errorf("config.Validate: backtest.train_window_days must be > 0, got %d", c.Backtest.TrainWindowDays)
	}
	if c.Backtest.TestWindowDays <= 0 {
		return fmt.Errorf("config.Validate: backtest.test_window_days must be > 0, got %d", c.Backtest.TestWindowDays)
	}
	if c.Backtest.AssumedSpreadCents < 0 {
		return fmt.Errorf("config.Validate: backtest.assumed_spread_cents must be >= 0, got %d", c.Backtest.AssumedSpreadCents)
	}
	if c.Live.MaxIterations <= 0 {
		return fmt.Errorf("config.Validate: live.max_iterations must be > 0, got %d", c.Live.MaxIterations)
	}
	if c.Live.IterationSleepSeconds < 0 {
		return fmt.Errorf("config.Validate: live.iteration_sleep_seconds must be >= 0, got %d", c.Live.IterationSleepSeconds)
	}
	return nil
}

// TrainWindow returns the train window length as a duration.
func (c *Config) TrainWindow() time.Duration {
	return time.Duration(c.Backtest.TrainWindowDays) * 24 * time.Hour
}

// TestWindow returns the test window length as a duration.
func (c *Config) TestWindow() time.Duration {
	return time.Duration(c.Backtest.TestWindowDays) * 24 * time.Hour
}

// SleepInterval returns the live inter-iteration sleep.
func (c *Config) SleepInterval() time.Duration {
	return time.Duration(c.Live.IterationSleepSeconds) * time.Second
}

// ErrorBackoff returns the live cycle-failure backoff.
func (c *Config) ErrorBackoff() time.Duration {
	return time.Duration(c.Live.ErrorBackoffSeconds) * time.Second
}

// applyEnvOverrides overrides values from the environment when present.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KALSHI_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("FORECAST_URL"); v != "" {
		cfg.Live.ForecastURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults fills sensible values for knobs that do not bound risk.
// Risk thresholds get no defaults, see Validate.
func setDefaults(cfg *Config) {
	if cfg.Live.ErrorBackoffSeconds <= 0 {
		cfg.Live.ErrorBackoffSeconds = 60
	}
	if cfg.Backtest.NoiseStdCents <= 0 {
		cfg.Backtest.NoiseStdCents = 1.0
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api.elections.kalshi.com/trade-api/v2"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "kalshibot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
