package calculator

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

// Precise computes indicators with TA-Lib. RSI uses Wilder smoothing and MACD
// uses TA-Lib's SMA-seeded EMAs, so both differ slightly from Manual during
// warm-up. EMA columns come from the embedded Manual recurrence because TA-Lib
// seeds its EMA with an SMA instead of the first close. Bollinger σ uses the
// shared SampleStdDev kernel; talib.StdDev loses precision at high price levels.
//
// TA-Lib indexes past the end of short inputs, so every call is guarded and
// windows below 2 fall back to Manual.
type Precise struct {
	Manual
}

func (Precise) Name() StrategyName { return StrategyPrecise }

func (p Precise) SMA(values []float64, window int) []float64 {
	if window < 2 {
		return p.Manual.SMA(values, window)
	}
	if len(values) < window {
		return nanSlice(len(values))
	}
	return pinFlat(masked(talib.Sma(values, window), window-1), values, window)
}

func (p Precise) RSI(values []float64, window int) []float64 {
	if window < 2 {
		return p.Manual.RSI(values, window)
	}
	if len(values) <= window {
		return nanSlice(len(values))
	}
	out := masked(talib.Rsi(values, window), window)

	// TA-Lib reports 0 when there has been no movement at all; the flat
	// convention is 50.
	moved := false
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1] {
			moved = true
		}
		if i >= window && !moved {
			out[i] = 50.0
		}
	}
	return out
}

// MACD is talib.Ema(fast) - talib.Ema(slow), defined once the slower EMA is.
// The signal EMA is seeded on defined MACD values only; talib.Macd feeds the
// zero-filled warm-up into it.
func (p Precise) MACD(values []float64, fast, slow, signal int) ([]float64, []float64, []float64) {
	if fast < 2 || slow < 2 || signal < 2 {
		return p.Manual.MACD(values, fast, slow, signal)
	}
	n := len(values)
	macd, sig, hist := nanSlice(n), nanSlice(n), nanSlice(n)
	start := max(fast, slow) - 1
	if n <= start {
		return macd, sig, hist
	}

	fastEMA := talib.Ema(values, fast)
	slowEMA := talib.Ema(values, slow)
	for i := start; i < n; i++ {
		macd[i] = fastEMA[i] - slowEMA[i]
	}

	defined := macd[start:]
	if len(defined) < signal {
		return macd, sig, hist
	}
	signalEMA := talib.Ema(defined, signal)
	for i := start + signal - 1; i < n; i++ {
		sig[i] = signalEMA[i-start]
		hist[i] = macd[i] - sig[i]
	}
	return macd, sig, hist
}

func (p Precise) Bollinger(values []float64, window int, k float64) ([]float64, []float64, []float64) {
	if window < 2 {
		return p.Manual.Bollinger(values, window, k)
	}
	n := len(values)
	if n < window {
		return nanSlice(n), nanSlice(n), nanSlice(n)
	}
	middle := p.SMA(values, window)
	sd := SampleStdDev(values, window)

	upper := make([]float64, n)
	lower := make([]float64, n)
	for i := range values {
		upper[i] = middle[i] + k*sd[i]
		lower[i] = middle[i] - k*sd[i]
	}
	return upper, middle, lower
}

func (p Precise) RollingMin(values []float64, window int) []float64 {
	if window < 2 {
		return p.Manual.RollingMin(values, window)
	}
	if len(values) < window {
		return nanSlice(len(values))
	}
	return masked(talib.Min(values, window), window-1)
}

func (p Precise) RollingMax(values []float64, window int) []float64 {
	if window < 2 {
		return p.Manual.RollingMax(values, window)
	}
	if len(values) < window {
		return nanSlice(len(values))
	}
	return masked(talib.Max(values, window), window-1)
}

// masked replaces the lookback prefix TA-Lib fills with zeros by NaN.
func masked(out []float64, lookback int) []float64 {
	for i := 0; i < lookback && i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}
