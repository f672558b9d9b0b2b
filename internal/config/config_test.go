package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, "6mo", cfg.DataSource.Lookback)
	assert.Equal(t, "manual", cfg.Indicators.Strategy)
	assert.Equal(t, 20, cfg.Indicators.SMAShort)
	assert.Equal(t, 50, cfg.Indicators.SMALong)
	assert.Equal(t, 2.0, cfg.Indicators.BollingerK)
	assert.Equal(t, 30.0, cfg.Signals.RSIOversold)
	assert.Equal(t, 0.98, cfg.Targets.SupportDiscount)
	assert.Equal(t, 15*time.Minute, cfg.Redis.TTL)
	require.NoError(t, cfg.Validate())
}

func TestLoad_PartialOverrideKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
data_source:
  provider: rest
  base_url: http://bars.local
  lookback: 1y
watchlist: [aapl, " msft "]
indicators:
  strategy: precise
  rsi_window: 10
signals:
  rsi_overbought: 80
targets:
  take_profit: 1.2
redis:
  addr: localhost:6379
  ttl: 5m
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "rest", cfg.DataSource.Provider)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Watchlist)
	assert.Equal(t, "precise", cfg.Indicators.Strategy)
	assert.Equal(t, 10, cfg.Indicators.RSIWindow)
	assert.Equal(t, 20, cfg.Indicators.SMAShort)
	assert.Equal(t, 80.0, cfg.Signals.RSIOverbought)
	assert.Equal(t, 30.0, cfg.Signals.RSIOversold)
	assert.Equal(t, 1.2, cfg.Targets.TakeProfitFactor)
	assert.Equal(t, 0.95, cfg.Targets.StopLossFactor)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)

	lb, err := cfg.Lookback()
	require.NoError(t, err)
	assert.Equal(t, 365, lb.Days)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "99")
	t.Setenv("WATCHLIST", "spy, qqq,,")
	t.Setenv("INDICATOR_STRATEGY", "precise")
	t.Setenv("REDIS_TTL", "90s")

	cfg, err := Load(writeConfig(t, "telegram:\n  bot_token: from-file\n"))
	require.NoError(t, err)

	assert.Equal(t, "tok", cfg.Telegram.BotToken)
	assert.Equal(t, []string{"SPY", "QQQ"}, cfg.Watchlist)
	assert.Equal(t, "precise", cfg.Indicators.Strategy)
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)
	assert.NoError(t, cfg.ValidateBot())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "watchlist: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }, "data_source.provider"},
		{"rest without url", func(c *Config) { c.DataSource.Provider = "rest" }, "base_url"},
		{"bad lookback", func(c *Config) { c.DataSource.Lookback = "forever" }, "lookback"},
		{"unknown strategy", func(c *Config) { c.Indicators.Strategy = "magic" }, "indicators.strategy"},
		{"zero window", func(c *Config) { c.Indicators.RSIWindow = 0 }, "rsi_window"},
		{"inverted thresholds", func(c *Config) { c.Signals.RSIOversold = 75 }, "rsi_oversold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateBot_RequiresTelegram(t *testing.T) {
	cfg := Default()
	assert.ErrorContains(t, cfg.ValidateBot(), "telegram.bot_token")
	cfg.Telegram.BotToken = "x"
	assert.ErrorContains(t, cfg.ValidateBot(), "telegram.chat_id")
}
