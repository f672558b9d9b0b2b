// Package config loads the advisor configuration from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"MarketAdvisor/internal/calculator"
	"MarketAdvisor/internal/collector"
	"MarketAdvisor/internal/strategy"
	"MarketAdvisor/internal/target"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider string `yaml:"provider"` // yahoo, rest or mock
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		Lookback string `yaml:"lookback"`
	} `yaml:"data_source"`
	Watchlist []string `yaml:"watchlist"`
	Schedule  struct {
		ScanCron     string `yaml:"scan_cron"`
		HoldingsCron string `yaml:"holdings_cron"`
	} `yaml:"schedule"`
	Indicators struct {
		Strategy          string `yaml:"strategy"`
		calculator.Params `yaml:",inline"`
	} `yaml:"indicators"`
	Signals  strategy.Thresholds `yaml:"signals"`
	Targets  target.Config       `yaml:"targets"`
	Holdings struct {
		File string `yaml:"file"`
	} `yaml:"holdings"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"redis"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Default returns a configuration with every default filled in.
func Default() *Config {
	cfg := base()
	applyDefaults(cfg)
	return cfg
}

func base() *Config {
	cfg := &Config{}
	cfg.Indicators.Params = calculator.DefaultParams()
	cfg.Signals = strategy.DefaultThresholds()
	cfg.Targets = target.DefaultConfig()
	return cfg
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := base()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	set(&cfg.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	set(&cfg.DataSource.Provider, "DATA_PROVIDER")
	set(&cfg.DataSource.BaseURL, "DATA_BASE_URL")
	set(&cfg.DataSource.APIKey, "DATA_API_KEY")
	set(&cfg.DataSource.Lookback, "LOOKBACK")
	set(&cfg.Indicators.Strategy, "INDICATOR_STRATEGY")
	set(&cfg.Schedule.ScanCron, "CRON_SCAN")
	set(&cfg.Holdings.File, "HOLDINGS_FILE")
	set(&cfg.Database.SQLitePath, "SQLITE_PATH")
	set(&cfg.Redis.Addr, "REDIS_ADDR")
	set(&cfg.Redis.Password, "REDIS_PASSWORD")
	set(&cfg.Metrics.Addr, "METRICS_ADDR")
	set(&cfg.Log.Level, "LOG_LEVEL")
	set(&cfg.Log.Format, "LOG_FORMAT")
	set(&cfg.Proxy, "HTTPS_PROXY")

	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.Watchlist = append(cfg.Watchlist, s)
			}
		}
	}
	if v := os.Getenv("REDIS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Redis.TTL = d
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Lookback == "" {
		cfg.DataSource.Lookback = collector.DefaultLookback.Raw
	}
	if cfg.Indicators.Strategy == "" {
		cfg.Indicators.Strategy = string(calculator.StrategyManual)
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 30 16 * * 1-5"
	}
	if cfg.Schedule.HoldingsCron == "" {
		cfg.Schedule.HoldingsCron = "0 0 9 * * 1-5"
	}
	if cfg.Holdings.File == "" {
		cfg.Holdings.File = "data/holdings.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/market_advisor.db"
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = 15 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	for i, s := range cfg.Watchlist {
		cfg.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}
}

// Lookback parses the configured data_source.lookback.
func (c *Config) Lookback() (collector.Lookback, error) {
	return collector.ParseLookback(c.DataSource.Lookback)
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, rest, mock", c.DataSource.Provider)
	}
	if _, err := c.Lookback(); err != nil {
		return fmt.Errorf("data_source.lookback: %w", err)
	}
	if _, err := calculator.NewStrategy(calculator.StrategyName(c.Indicators.Strategy)); err != nil {
		return fmt.Errorf("indicators.strategy: %w", err)
	}
	if err := c.Indicators.Params.Validate(); err != nil {
		return fmt.Errorf("indicators: %w", err)
	}
	if c.Signals.RSIOversold >= c.Signals.RSIOverbought {
		return fmt.Errorf("signals.rsi_oversold must be below signals.rsi_overbought")
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl must not be negative")
	}
	return nil
}

// ValidateBot additionally checks what the Telegram bot needs.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
