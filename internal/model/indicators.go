package model

import "math"

// Indicator names a column of the enriched series.
type Indicator string

const (
	SMAShort   Indicator = "sma_short"
	SMALong    Indicator = "sma_long"
	EMAFast    Indicator = "ema_fast"
	EMASlow    Indicator = "ema_slow"
	RSI        Indicator = "rsi"
	MACD       Indicator = "macd"
	MACDSignal Indicator = "macd_signal"
	MACDHist   Indicator = "macd_hist"
	BBUpper    Indicator = "bb_upper"
	BBMiddle   Indicator = "bb_middle"
	BBLower    Indicator = "bb_lower"
	Support    Indicator = "support"
	Resistance Indicator = "resistance"
)

// AllIndicators lists every column in export order.
var AllIndicators = []Indicator{
	SMAShort, SMALong, EMAFast, EMASlow,
	RSI, MACD, MACDSignal, MACDHist,
	BBUpper, BBMiddle, BBLower,
	Support, Resistance,
}

// EnrichedBar is a bar plus its indicator values. Indicators without enough
// history are absent from Values; present values are always finite.
type EnrichedBar struct {
	OHLCV
	Values map[Indicator]float64
}

// Value returns the indicator value and whether it is defined for this bar.
func (b EnrichedBar) Value(name Indicator) (float64, bool) {
	v, ok := b.Values[name]
	return v, ok
}

// Set stores v under name unless v is NaN or infinite.
func (b *EnrichedBar) Set(name Indicator, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if b.Values == nil {
		b.Values = make(map[Indicator]float64)
	}
	b.Values[name] = v
}

// EnrichedSeries is the indicator-annotated copy of a PriceSeries.
type EnrichedSeries struct {
	Symbol   string
	Strategy string
	Bars     []EnrichedBar
}

// Latest returns the most recent bar. ok is false for an empty series.
func (s EnrichedSeries) Latest() (EnrichedBar, bool) {
	if len(s.Bars) == 0 {
		return EnrichedBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}
