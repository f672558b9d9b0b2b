// Package advisor runs the full pipeline for one symbol: collect prices,
// compute indicators, score signals and derive price plans.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"MarketAdvisor/internal/calculator"
	"MarketAdvisor/internal/collector"
	"MarketAdvisor/internal/metrics"
	"MarketAdvisor/internal/model"
	"MarketAdvisor/internal/strategy"
	"MarketAdvisor/internal/target"
)

// Analysis is the result of one pipeline run.
type Analysis struct {
	Symbol         string
	Series         model.PriceSeries
	Enriched       model.EnrichedSeries
	Latest         model.EnrichedBar
	Recommendation model.Recommendation
	Levels         target.Levels
	Insights       Insights
	AnalyzedAt     time.Time
}

// Insights summarize recent price behaviour next to the recommendation.
type Insights struct {
	Change        float64
	ChangePct     float64
	HasChange     bool
	Volatility    float64
	HasVolatility bool
	Risk          calculator.RiskLevel
	PeriodHigh    float64
	PeriodLow     float64
	SellScore     int
	SellSummary   string
}

// Advisor is safe for concurrent use; it holds no mutable state of its own.
type Advisor struct {
	collector *collector.Collector
	engine    *calculator.Engine
	generator *strategy.Generator
	targets   *target.Calculator
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// New wires the pipeline stages. m may be nil.
func New(c *collector.Collector, e *calculator.Engine, g *strategy.Generator, t *target.Calculator, m *metrics.Metrics) *Advisor {
	return &Advisor{
		collector: c,
		engine:    e,
		generator: g,
		targets:   t,
		metrics:   m,
		log:       slog.Default().With("component", "advisor"),
	}
}

// Strategy reports the indicator strategy in use.
func (a *Advisor) Strategy() calculator.StrategyName { return a.engine.Strategy() }

// Analyze fetches symbol and evaluates its latest bar.
func (a *Advisor) Analyze(ctx context.Context, symbol string) (*Analysis, error) {
	series, err := a.collector.Collect(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeSeries(series)
}

// AnalyzeSeries evaluates an already collected series.
func (a *Advisor) AnalyzeSeries(series model.PriceSeries) (*Analysis, error) {
	start := time.Now()
	enriched, err := a.engine.Compute(series)
	if err != nil {
		return nil, fmt.Errorf("compute indicators for %s: %w", series.Symbol, err)
	}
	a.metrics.ObserveCompute(string(a.engine.Strategy()), time.Since(start))

	latest, ok := enriched.Latest()
	if !ok {
		return nil, fmt.Errorf("analyze %s: %w", series.Symbol, model.ErrEmptySeries)
	}
	rec := a.generator.Evaluate(latest)

	analysis := &Analysis{
		Symbol:         series.Symbol,
		Series:         series,
		Enriched:       enriched,
		Latest:         latest,
		Recommendation: rec,
		Levels:         target.LevelsFromBar(latest),
		Insights:       buildInsights(series, rec),
		AnalyzedAt:     time.Now(),
	}

	a.metrics.ObserveAnalysis(string(rec.Overall))
	a.log.Info("analysis complete",
		"symbol", series.Symbol,
		"bars", len(series.Bars),
		"strategy", a.engine.Strategy(),
		"verdict", rec.Overall,
		"buy", rec.BuyCount,
		"sell", rec.SellCount,
	)
	return analysis, nil
}

// PlanBuy computes an entry plan from the analysis levels.
func (a *Advisor) PlanBuy(an *Analysis) (model.BuyPlan, error) {
	plan, err := a.targets.PlanForBuy(an.Levels)
	if err != nil {
		a.metrics.ObservePlanError(string(model.ActionBuy))
		return model.BuyPlan{}, fmt.Errorf("buy plan for %s: %w", an.Symbol, err)
	}
	return plan, nil
}

// PlanSell computes an exit plan for a position bought at basis.
func (a *Advisor) PlanSell(an *Analysis, basis *float64) (model.SellPlan, error) {
	plan, err := a.targets.PlanForSell(an.Levels, basis)
	if err != nil {
		a.metrics.ObservePlanError(string(model.ActionSell))
		return model.SellPlan{}, fmt.Errorf("sell plan for %s: %w", an.Symbol, err)
	}
	return plan, nil
}

func buildInsights(series model.PriceSeries, rec model.Recommendation) Insights {
	closes := series.Closes()
	in := Insights{PeriodHigh: math.Inf(-1), PeriodLow: math.Inf(1)}

	in.Change, in.ChangePct, in.HasChange = calculator.DailyChange(closes)
	if vol, ok := calculator.AnnualizedVolatility(closes); ok {
		in.Volatility, in.HasVolatility = vol, true
		in.Risk = calculator.ClassifyRisk(vol)
	}
	for _, b := range series.Bars {
		in.PeriodHigh = math.Max(in.PeriodHigh, b.High)
		in.PeriodLow = math.Min(in.PeriodLow, b.Low)
	}
	in.SellScore = strategy.SellScore(rec.Signals)
	in.SellSummary = strategy.SellScoreSummary(in.SellScore)
	return in
}
