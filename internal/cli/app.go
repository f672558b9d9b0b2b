package cli

import (
	"context"
	"fmt"
	"log/slog"

	"MarketAdvisor/internal/advisor"
	"MarketAdvisor/internal/calculator"
	"MarketAdvisor/internal/collector"
	"MarketAdvisor/internal/config"
	"MarketAdvisor/internal/holdings"
	"MarketAdvisor/internal/metrics"
	"MarketAdvisor/internal/recorder"
	"MarketAdvisor/internal/strategy"
	"MarketAdvisor/internal/target"
)

// App holds the components every command is built from.
type App struct {
	Config   *config.Config
	Metrics  *metrics.Metrics
	Advisor  *advisor.Advisor
	Book     *holdings.Book
	Recorder recorder.Recorder

	closers []func() error
}

// NewApp wires the pipeline from cfg. Redis and SQLite are optional: failures
// to reach them are logged and the app continues without them. Connections
// opened before a wiring error are closed.
func NewApp(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	app := &App{Config: cfg, Metrics: metrics.NewMetrics()}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	fetcher, err := app.newFetcher(ctx)
	if err != nil {
		return nil, err
	}
	lb, err := cfg.Lookback()
	if err != nil {
		return nil, err
	}

	strat, err := calculator.NewStrategy(calculator.StrategyName(cfg.Indicators.Strategy))
	if err != nil {
		return nil, err
	}
	engine, err := calculator.NewEngine(cfg.Indicators.Params, strat)
	if err != nil {
		return nil, err
	}

	app.Advisor = advisor.New(
		collector.NewCollector(fetcher, lb, app.Metrics),
		engine,
		strategy.NewGenerator(cfg.Signals, cfg.Indicators.SMAShort, cfg.Indicators.SMALong),
		target.NewCalculator(cfg.Targets),
		app.Metrics,
	)

	app.Book, err = holdings.NewBook(cfg.Holdings.File)
	if err != nil {
		return nil, err
	}

	app.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			slog.Warn("init sqlite recorder failed, using noop", "err", err)
		} else {
			app.Recorder = sr
			app.closers = append(app.closers, sr.Close)
		}
	}
	return app, nil
}

func (a *App) newFetcher(ctx context.Context) (collector.Fetcher, error) {
	cfg := a.Config
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "yahoo":
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	case "rest":
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		fetcher = &collector.MockFetcher{Price: 100}
	default:
		return nil, fmt.Errorf("unknown data provider %q", cfg.DataSource.Provider)
	}

	if cfg.Redis.Addr != "" {
		rdb, err := collector.NewRedisClient(ctx, collector.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			slog.Warn("redis unavailable, bar cache disabled", "addr", cfg.Redis.Addr, "err", err)
		} else {
			a.closers = append(a.closers, rdb.Close)
			fetcher = collector.NewCachedFetcher(fetcher, rdb, cfg.Redis.TTL, a.Metrics)
		}
	}
	_, cached := fetcher.(*collector.CachedFetcher)
	slog.Info("data source ready", "provider", fetcher.Name(), "cached", cached)
	return fetcher, nil
}

// Close releases the recorder and cache connections.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
