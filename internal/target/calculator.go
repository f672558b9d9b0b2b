// Package target computes entry and exit price plans from the latest support,
// resistance and market price.
package target

import (
	"fmt"
	"math"

	"MarketAdvisor/internal/model"
)

// Config holds the price-target multipliers and sell-advice thresholds.
type Config struct {
	SupportDiscount   float64 `yaml:"support_discount"`
	PriceFloor        float64 `yaml:"price_floor"`
	StopLossFactor    float64 `yaml:"stop_loss"`
	TakeProfitFactor  float64 `yaml:"take_profit"`
	ResistancePremium float64 `yaml:"resistance_premium"`
	PriceCeiling      float64 `yaml:"price_ceiling"`
	ProfitThreshold   float64 `yaml:"profit_threshold"`
	LossThreshold     float64 `yaml:"loss_threshold"`
}

// DefaultConfig returns the standard multipliers: buy 2% under support or 5%
// under market, stop 5% under entry, target 15% over entry; sell 2% over
// resistance or 5% over market; sell for profit above +5%, cut losses below -10%.
func DefaultConfig() Config {
	return Config{
		SupportDiscount:   0.98,
		PriceFloor:        0.95,
		StopLossFactor:    0.95,
		TakeProfitFactor:  1.15,
		ResistancePremium: 1.02,
		PriceCeiling:      1.05,
		ProfitThreshold:   5,
		LossThreshold:     -10,
	}
}

// Levels are the market levels a plan is computed from. Undefined support or
// resistance is NaN.
type Levels struct {
	Support    float64
	Resistance float64
	Current    float64
}

// LevelsFromBar takes support, resistance and close from an enriched bar.
func LevelsFromBar(bar model.EnrichedBar) Levels {
	lv := Levels{Support: math.NaN(), Resistance: math.NaN(), Current: bar.Close}
	if v, ok := bar.Value(model.Support); ok {
		lv.Support = v
	}
	if v, ok := bar.Value(model.Resistance); ok {
		lv.Resistance = v
	}
	return lv
}

// Calculator computes price plans. It is stateless.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a Calculator with the given multipliers.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// PlanForBuy suggests an entry with stop-loss and take-profit:
//
//	entry = max(support*discount, current*floor)
//	stop = entry*stopLoss, target = entry*takeProfit
//	riskReward = (target-entry) / (entry-stop)
//
// Without a support level the entry is current*floor. A non-positive risk
// (entry at or below zero, or a stop at or above entry) is
// ErrDegenerateArithmetic.
func (c *Calculator) PlanForBuy(lv Levels) (model.BuyPlan, error) {
	entry := lv.Current * c.cfg.PriceFloor
	if !math.IsNaN(lv.Support) {
		entry = math.Max(lv.Support*c.cfg.SupportDiscount, entry)
	}
	stop := entry * c.cfg.StopLossFactor
	takeProfit := entry * c.cfg.TakeProfitFactor

	risk := entry - stop
	if !(risk > 0) || math.IsInf(risk, 0) {
		return model.BuyPlan{}, fmt.Errorf("%w: entry %.4f, stop-loss %.4f", model.ErrDegenerateArithmetic, entry, stop)
	}

	return model.BuyPlan{
		EntryPrice: entry,
		StopLoss:   stop,
		TakeProfit: takeProfit,
		RiskReward: (takeProfit - entry) / risk,
	}, nil
}

// PlanForSell suggests an exit for a position bought at basis:
//
//	sell = min(resistance*premium, current*ceiling)
//	profitLoss = sell - basis, profitPct = profitLoss / basis * 100
//
// Without a resistance level the sell price is current*ceiling. A nil basis is
// ErrMissingBasis and a non-positive one ErrInvalidBasis.
func (c *Calculator) PlanForSell(lv Levels, basis *float64) (model.SellPlan, error) {
	if basis == nil {
		return model.SellPlan{}, model.ErrMissingBasis
	}
	if !(*basis > 0) {
		return model.SellPlan{}, fmt.Errorf("%w: got %v", model.ErrInvalidBasis, *basis)
	}

	sell := lv.Current * c.cfg.PriceCeiling
	if !math.IsNaN(lv.Resistance) {
		sell = math.Min(lv.Resistance*c.cfg.ResistancePremium, sell)
	}
	profitLoss := sell - *basis
	pct := profitLoss / *basis * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return model.SellPlan{}, fmt.Errorf("%w: profit percentage for basis %v", model.ErrDegenerateArithmetic, *basis)
	}

	return model.SellPlan{
		SellPrice:        sell,
		ProfitLoss:       profitLoss,
		ProfitPercentage: pct,
		ReferencePrice:   lv.Current,
		BasisPrice:       *basis,
		Advice:           c.AdviseSell(pct),
	}, nil
}

// AdviseSell maps a profit percentage to a recommendation.
func (c *Calculator) AdviseSell(profitPct float64) model.SellAdvice {
	switch {
	case profitPct > c.cfg.ProfitThreshold:
		return model.SellForProfit
	case profitPct < c.cfg.LossThreshold:
		return model.CutLosses
	default:
		return model.Hold
	}
}
