package strategy

import (
	"fmt"

	"MarketAdvisor/internal/model"
)

// scoreMovingAverage requires strict alignment of price and both SMAs.
// Bull alignment: price > short SMA > long SMA
// Bear alignment: price < short SMA < long SMA
func (g *Generator) scoreMovingAverage(bar model.EnrichedBar) model.Signal {
	short, okShort := bar.Value(model.SMAShort)
	long, okLong := bar.Value(model.SMALong)
	if !okShort || !okLong {
		return insufficient(model.FamilyMovingAverage, "moving averages")
	}

	price := bar.Close
	switch {
	case price > short && short > long:
		return model.Signal{
			Family:    model.FamilyMovingAverage,
			Verdict:   model.Buy,
			Rationale: fmt.Sprintf("Price above both SMA%d and SMA%d", g.shortWindow, g.longWindow),
		}
	case price < short && short < long:
		return model.Signal{
			Family:    model.FamilyMovingAverage,
			Verdict:   model.Sell,
			Rationale: fmt.Sprintf("Price below both SMA%d and SMA%d", g.shortWindow, g.longWindow),
		}
	default:
		return model.Signal{
			Family:    model.FamilyMovingAverage,
			Verdict:   model.Neutral,
			Rationale: "Mixed moving average signals",
		}
	}
}

// scoreRSI flags oversold and overbought momentum.
func (g *Generator) scoreRSI(bar model.EnrichedBar) model.Signal {
	rsi, ok := bar.Value(model.RSI)
	if !ok {
		return insufficient(model.FamilyRSI, "RSI")
	}

	switch {
	case rsi < g.thresholds.RSIOversold:
		return model.Signal{Family: model.FamilyRSI, Verdict: model.Buy, Rationale: fmt.Sprintf("Oversold condition (RSI: %.1f)", rsi)}
	case rsi > g.thresholds.RSIOverbought:
		return model.Signal{Family: model.FamilyRSI, Verdict: model.Sell, Rationale: fmt.Sprintf("Overbought condition (RSI: %.1f)", rsi)}
	default:
		return model.Signal{Family: model.FamilyRSI, Verdict: model.Neutral, Rationale: fmt.Sprintf("Neutral RSI (%.1f)", rsi)}
	}
}

// scoreMACD is binary: MACD strictly above its signal line is BUY, anything
// else, including equality, is SELL.
func (g *Generator) scoreMACD(bar model.EnrichedBar) model.Signal {
	macd, okMACD := bar.Value(model.MACD)
	signal, okSignal := bar.Value(model.MACDSignal)
	if !okMACD || !okSignal {
		return insufficient(model.FamilyMACD, "MACD")
	}

	if macd > signal {
		return model.Signal{Family: model.FamilyMACD, Verdict: model.Buy, Rationale: "MACD above signal line"}
	}
	return model.Signal{Family: model.FamilyMACD, Verdict: model.Sell, Rationale: "MACD below signal line"}
}

// scoreBollinger compares the close to the band envelope.
func (g *Generator) scoreBollinger(bar model.EnrichedBar) model.Signal {
	upper, okUpper := bar.Value(model.BBUpper)
	lower, okLower := bar.Value(model.BBLower)
	if !okUpper || !okLower {
		return insufficient(model.FamilyBollinger, "Bollinger Bands")
	}

	switch {
	case bar.Close < lower:
		return model.Signal{Family: model.FamilyBollinger, Verdict: model.Buy, Rationale: "Price below lower band"}
	case bar.Close > upper:
		return model.Signal{Family: model.FamilyBollinger, Verdict: model.Sell, Rationale: "Price above upper band"}
	default:
		return model.Signal{Family: model.FamilyBollinger, Verdict: model.Neutral, Rationale: "Price within bands"}
	}
}

func insufficient(family model.Family, what string) model.Signal {
	return model.Signal{
		Family:    family,
		Verdict:   model.Neutral,
		Rationale: "Insufficient history for " + what,
	}
}
