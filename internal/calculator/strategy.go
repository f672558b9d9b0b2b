package calculator

import "fmt"

// StrategyName identifies an indicator computation strategy.
type StrategyName string

const (
	StrategyManual  StrategyName = "manual"
	StrategyPrecise StrategyName = "precise"
)

// IndicatorStrategy computes indicator columns over a slice of prices. Every
// method returns slices the length of its input with NaN where the window
// has insufficient history.
type IndicatorStrategy interface {
	Name() StrategyName
	SMA(values []float64, window int) []float64
	EMA(values []float64, span int) []float64
	RSI(values []float64, window int) []float64
	MACD(values []float64, fast, slow, signal int) (macd, signalLine, hist []float64)
	Bollinger(values []float64, window int, k float64) (upper, middle, lower []float64)
	RollingMin(values []float64, window int) []float64
	RollingMax(values []float64, window int) []float64
}

// NewStrategy returns the strategy registered under name.
func NewStrategy(name StrategyName) (IndicatorStrategy, error) {
	switch name {
	case StrategyManual, "":
		return Manual{}, nil
	case StrategyPrecise:
		return Precise{}, nil
	default:
		return nil, fmt.Errorf("unknown indicator strategy %q", name)
	}
}

// Manual is the hand-written strategy. RSI uses simple rolling means of gains
// and losses.
type Manual struct{}

func (Manual) Name() StrategyName { return StrategyManual }

func (Manual) SMA(values []float64, window int) []float64 { return SMA(values, window) }

func (Manual) EMA(values []float64, span int) []float64 { return EMA(values, span) }

func (Manual) RSI(values []float64, window int) []float64 { return RSI(values, window) }

func (Manual) MACD(values []float64, fast, slow, signal int) ([]float64, []float64, []float64) {
	return MACD(values, fast, slow, signal)
}

func (Manual) Bollinger(values []float64, window int, k float64) ([]float64, []float64, []float64) {
	return Bollinger(values, window, k)
}

func (Manual) RollingMin(values []float64, window int) []float64 { return RollingMin(values, window) }

func (Manual) RollingMax(values []float64, window int) []float64 { return RollingMax(values, window) }
