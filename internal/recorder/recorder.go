// Package recorder keeps a history of analyses and price plans.
package recorder

import (
	"time"

	"MarketAdvisor/internal/model"
)

// AnalysisRecord is one persisted evaluation of a symbol's latest bar.
type AnalysisRecord struct {
	ID        string
	Symbol    string
	Strategy  string
	BarTime   time.Time
	Close     float64
	Verdict   model.Verdict
	BuyCount  int
	SellCount int
	Values    map[model.Indicator]float64 // undefined indicators are absent
	Signals   []model.Signal
	CreatedAt time.Time
}

// NewAnalysisRecord builds a record from the evaluated bar.
func NewAnalysisRecord(symbol, strategy string, bar model.EnrichedBar, rec model.Recommendation) *AnalysisRecord {
	values := make(map[model.Indicator]float64, len(bar.Values))
	for k, v := range bar.Values {
		values[k] = v
	}
	return &AnalysisRecord{
		Symbol:    symbol,
		Strategy:  strategy,
		BarTime:   bar.Time,
		Close:     bar.Close,
		Verdict:   rec.Overall,
		BuyCount:  rec.BuyCount,
		SellCount: rec.SellCount,
		Values:    values,
		Signals:   rec.Signals,
	}
}

// PlanRecord is a persisted buy or sell plan. Fields that do not apply to the
// action are zero.
type PlanRecord struct {
	ID         string
	AnalysisID string
	Symbol     string
	Action     model.Action
	Price      float64 // entry price for BUY, sell price for SELL
	StopLoss   float64
	TakeProfit float64
	RiskReward float64
	BasisPrice float64
	ProfitLoss float64
	ProfitPct  float64
	Advice     model.SellAdvice
	CreatedAt  time.Time
}

// BuyPlanRecord builds a record for a buy plan.
func BuyPlanRecord(analysisID, symbol string, p model.BuyPlan) *PlanRecord {
	return &PlanRecord{
		AnalysisID: analysisID,
		Symbol:     symbol,
		Action:     model.ActionBuy,
		Price:      p.EntryPrice,
		StopLoss:   p.StopLoss,
		TakeProfit: p.TakeProfit,
		RiskReward: p.RiskReward,
	}
}

// SellPlanRecord builds a record for a sell plan.
func SellPlanRecord(analysisID, symbol string, p model.SellPlan) *PlanRecord {
	return &PlanRecord{
		AnalysisID: analysisID,
		Symbol:     symbol,
		Action:     model.ActionSell,
		Price:      p.SellPrice,
		BasisPrice: p.BasisPrice,
		ProfitLoss: p.ProfitLoss,
		ProfitPct:  p.ProfitPercentage,
		Advice:     p.Advice,
	}
}

// Recorder persists historical data for later review.
type Recorder interface {
	RecordAnalysis(rec *AnalysisRecord) (string, error)
	RecordPlan(rec *PlanRecord) error
	RecentAnalyses(symbol string, limit int) ([]AnalysisRecord, error)
	Close() error
}
