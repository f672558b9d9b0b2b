// Package cli implements the market-advisor command line.
package cli

import (
	"context"
	"os"

	"MarketAdvisor/internal/config"
	"MarketAdvisor/internal/logger"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	strategy   string
	lookback   string
	provider   string
	logLevel   string

	cfg *config.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "advisor",
		Short: "Technical-indicator trading advisor",
		Long: `Advisor turns a symbol's price history into a BUY / SELL / NEUTRAL
recommendation from moving averages, RSI, MACD and Bollinger Bands, with
suggested entry and exit prices.

It runs one-off analyses from the command line or as a Telegram bot that
scans a watchlist on a schedule.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", defaultConfig, "path to YAML config")
	pf.StringVarP(&opts.strategy, "strategy", "s", "", "indicator strategy (manual, precise)")
	pf.StringVarP(&opts.lookback, "lookback", "l", "", "history to fetch, e.g. 6mo, 1y, 90d")
	pf.StringVar(&opts.provider, "provider", "", "data provider (yahoo, rest, mock)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newExportCmd(opts),
		newHistoryCmd(opts),
		newBotCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line with ctx cancelled on shutdown.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (o *rootOptions) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.strategy != "" {
		cfg.Indicators.Strategy = o.strategy
	}
	if o.lookback != "" {
		cfg.DataSource.Lookback = o.lookback
	}
	if o.provider != "" {
		cfg.DataSource.Provider = o.provider
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Init("market-advisor", cfg.Log.Level, cfg.Log.Format)
	o.cfg = cfg
	return nil
}

func (o *rootOptions) app(ctx context.Context) (*App, error) {
	return NewApp(ctx, o.cfg)
}
