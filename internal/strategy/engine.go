package strategy

import (
	"fmt"

	"MarketAdvisor/internal/model"
)

// Thresholds are the RSI levels that trigger BUY and SELL.
type Thresholds struct {
	RSIOversold   float64 `yaml:"rsi_oversold"`
	RSIOverbought float64 `yaml:"rsi_overbought"`
}

// DefaultThresholds returns oversold 30 and overbought 70.
func DefaultThresholds() Thresholds {
	return Thresholds{RSIOversold: 30, RSIOverbought: 70}
}

// Generator turns the latest enriched bar into one signal per indicator family.
type Generator struct {
	thresholds  Thresholds
	shortWindow int
	longWindow  int
}

// NewGenerator creates a Generator. shortWindow and longWindow only label the
// moving-average rationale.
func NewGenerator(thresholds Thresholds, shortWindow, longWindow int) *Generator {
	return &Generator{thresholds: thresholds, shortWindow: shortWindow, longWindow: longWindow}
}

// Evaluate scores the four families in a fixed order (moving average, RSI,
// MACD, Bollinger) and aggregates them.
func (g *Generator) Evaluate(bar model.EnrichedBar) model.Recommendation {
	signals := []model.Signal{
		g.scoreMovingAverage(bar),
		g.scoreRSI(bar),
		g.scoreMACD(bar),
		g.scoreBollinger(bar),
	}
	overall, buys, sells := Aggregate(signals)
	return model.Recommendation{
		Signals:   signals,
		Overall:   overall,
		BuyCount:  buys,
		SellCount: sells,
	}
}

// Aggregate is a strict majority vote of BUY against SELL; a tie, including
// no votes at all, is NEUTRAL.
func Aggregate(signals []model.Signal) (overall model.Verdict, buys, sells int) {
	for _, s := range signals {
		switch s.Verdict {
		case model.Buy:
			buys++
		case model.Sell:
			sells++
		}
	}
	switch {
	case buys > sells:
		return model.Buy, buys, sells
	case sells > buys:
		return model.Sell, buys, sells
	default:
		return model.Neutral, buys, sells
	}
}

// SellScore counts SELL signals minus BUY signals; positive means the
// indicators lean towards exiting a position.
func SellScore(signals []model.Signal) int {
	score := 0
	for _, s := range signals {
		switch s.Verdict {
		case model.Sell:
			score++
		case model.Buy:
			score--
		}
	}
	return score
}

// SellScoreSummary describes a sell score for reports.
func SellScoreSummary(score int) string {
	switch {
	case score > 0:
		return fmt.Sprintf("%d indicators suggest selling", score)
	case score < 0:
		return fmt.Sprintf("%d indicators suggest holding", -score)
	default:
		return "Mixed signals - consider market conditions"
	}
}
