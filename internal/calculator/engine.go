package calculator

import (
	"errors"

	"MarketAdvisor/internal/model"
)

// Engine enriches a price series with the configured indicators. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	params   Params
	strategy IndicatorStrategy
}

// NewEngine validates params and binds the computation strategy.
func NewEngine(params Params, strategy IndicatorStrategy) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if strategy == nil {
		return nil, errors.New("indicator strategy is required")
	}
	return &Engine{params: params, strategy: strategy}, nil
}

// Strategy reports which computation strategy is active.
func (e *Engine) Strategy() StrategyName { return e.strategy.Name() }

// Params returns the window parameters.
func (e *Engine) Params() Params { return e.params }

// Compute returns one enriched bar per input bar, in the same order. The input
// is not modified. Indicators without enough history are left undefined; only
// an empty series is an error.
func (e *Engine) Compute(series model.PriceSeries) (model.EnrichedSeries, error) {
	if len(series.Bars) == 0 {
		return model.EnrichedSeries{}, model.ErrEmptySeries
	}

	p, s := e.params, e.strategy
	closes := series.Closes()

	macd, signal, hist := s.MACD(closes, p.EMAFast, p.EMASlow, p.MACDSignal)
	upper, middle, lower := s.Bollinger(closes, p.BollingerWindow, p.BollingerK)

	columns := map[model.Indicator][]float64{
		model.SMAShort:   s.SMA(closes, p.SMAShort),
		model.SMALong:    s.SMA(closes, p.SMALong),
		model.EMAFast:    s.EMA(closes, p.EMAFast),
		model.EMASlow:    s.EMA(closes, p.EMASlow),
		model.RSI:        s.RSI(closes, p.RSIWindow),
		model.MACD:       macd,
		model.MACDSignal: signal,
		model.MACDHist:   hist,
		model.BBUpper:    upper,
		model.BBMiddle:   middle,
		model.BBLower:    lower,
		model.Support:    s.RollingMin(series.Lows(), p.LevelWindow),
		model.Resistance: s.RollingMax(series.Highs(), p.LevelWindow),
	}

	bars := make([]model.EnrichedBar, len(series.Bars))
	for i, b := range series.Bars {
		eb := model.EnrichedBar{OHLCV: b, Values: make(map[model.Indicator]float64, len(columns))}
		for name, col := range columns {
			eb.Set(name, col[i])
		}
		bars[i] = eb
	}

	return model.EnrichedSeries{
		Symbol:   series.Symbol,
		Strategy: string(s.Name()),
		Bars:     bars,
	}, nil
}
