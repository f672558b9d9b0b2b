package calculator

import "fmt"

// Params holds the window parameters of every indicator.
type Params struct {
	SMAShort        int     `yaml:"sma_short"`
	SMALong         int     `yaml:"sma_long"`
	EMAFast         int     `yaml:"ema_fast"`
	EMASlow         int     `yaml:"ema_slow"`
	MACDSignal      int     `yaml:"macd_signal"`
	RSIWindow       int     `yaml:"rsi_window"`
	BollingerWindow int     `yaml:"bollinger_window"`
	BollingerK      float64 `yaml:"bollinger_k"`
	LevelWindow     int     `yaml:"level_window"`
}

// DefaultParams returns the standard windows: SMA 20/50, EMA 12/26, MACD
// signal 9, RSI 14, Bollinger 20 with k=2, support/resistance 20.
func DefaultParams() Params {
	return Params{
		SMAShort:        20,
		SMALong:         50,
		EMAFast:         12,
		EMASlow:         26,
		MACDSignal:      9,
		RSIWindow:       14,
		BollingerWindow: 20,
		BollingerK:      2,
		LevelWindow:     20,
	}
}

// Validate checks that every window is usable.
func (p Params) Validate() error {
	windows := []struct {
		name string
		v    int
	}{
		{"sma_short", p.SMAShort},
		{"sma_long", p.SMALong},
		{"ema_fast", p.EMAFast},
		{"ema_slow", p.EMASlow},
		{"macd_signal", p.MACDSignal},
		{"rsi_window", p.RSIWindow},
		{"level_window", p.LevelWindow},
	}
	for _, w := range windows {
		if w.v < 1 {
			return fmt.Errorf("%s must be positive, got %d", w.name, w.v)
		}
	}
	if p.BollingerWindow < 2 {
		return fmt.Errorf("bollinger_window must be at least 2, got %d", p.BollingerWindow)
	}
	if p.BollingerK < 0 {
		return fmt.Errorf("bollinger_k must not be negative, got %g", p.BollingerK)
	}
	return nil
}
