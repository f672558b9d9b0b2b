package target

import (
	"math"
	"testing"

	"MarketAdvisor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestPlanForBuy(t *testing.T) {
	c := NewCalculator(DefaultConfig())

	plan, err := c.PlanForBuy(Levels{Support: 100, Resistance: math.NaN(), Current: 105})
	require.NoError(t, err)

	assert.InDelta(t, 99.75, plan.EntryPrice, 1e-9)
	assert.InDelta(t, 94.7625, plan.StopLoss, 1e-9)
	assert.InDelta(t, 114.7125, plan.TakeProfit, 1e-9)
	assert.InDelta(t, 3.0, plan.RiskReward, 1e-9)
}

func TestPlanForBuy_SupportDominates(t *testing.T) {
	c := NewCalculator(DefaultConfig())

	plan, err := c.PlanForBuy(Levels{Support: 100, Current: 100})
	require.NoError(t, err)
	assert.InDelta(t, 98.0, plan.EntryPrice, 1e-9)
}

func TestPlanForBuy_WithoutSupport(t *testing.T) {
	c := NewCalculator(DefaultConfig())

	plan, err := c.PlanForBuy(Levels{Support: math.NaN(), Resistance: math.NaN(), Current: 200})
	require.NoError(t, err)
	assert.InDelta(t, 190.0, plan.EntryPrice, 1e-9)
}

func TestPlanForBuy_Degenerate(t *testing.T) {
	c := NewCalculator(DefaultConfig())

	tests := []struct {
		name string
		lv   Levels
	}{
		{"zero prices", Levels{Support: 0, Current: 0}},
		{"negative prices", Levels{Support: -10, Current: -5}},
		{"no support and zero price", Levels{Support: math.NaN(), Current: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.PlanForBuy(tt.lv)
			assert.ErrorIs(t, err, model.ErrDegenerateArithmetic)
		})
	}
}

func TestPlanForBuy_StopAtEntryIsDegenerate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StopLossFactor = 1
	_, err := NewCalculator(cfg).PlanForBuy(Levels{Support: 100, Current: 105})
	assert.ErrorIs(t, err, model.ErrDegenerateArithmetic)
}

func TestPlanForSell(t *testing.T) {
	c := NewCalculator(DefaultConfig())

	plan, err := c.PlanForSell(Levels{Support: 90, Resistance: 120, Current: 115}, ptr(100))
	require.NoError(t, err)

	assert.InDelta(t, 120.75, plan.SellPrice, 1e-9)
	assert.InDelta(t, 20.75, plan.ProfitLoss, 1e-9)
	assert.InDelta(t, 20.75, plan.ProfitPercentage, 1e-9)
	assert.Equal(t, 115.0, plan.ReferencePrice)
	assert.Equal(t, 100.0, plan.BasisPrice)
	assert.Equal(t, model.SellForProfit, plan.Advice)
}

func TestPlanForSell_ResistanceDominates(t *testing.T) {
	c := NewCalculator(DefaultConfig())

	plan, err := c.PlanForSell(Levels{Resistance: 100, Current: 100}, ptr(100))
	require.NoError(t, err)
	assert.InDelta(t, 102.0, plan.SellPrice, 1e-9)
	assert.Equal(t, model.Hold, plan.Advice)
}

func TestPlanForSell_WithoutResistance(t *testing.T) {
	c := NewCalculator(DefaultConfig())

	plan, err := c.PlanForSell(Levels{Support: math.NaN(), Resistance: math.NaN(), Current: 80}, ptr(100))
	require.NoError(t, err)
	assert.InDelta(t, 84.0, plan.SellPrice, 1e-9)
	assert.InDelta(t, -16.0, plan.ProfitPercentage, 1e-9)
	assert.Equal(t, model.CutLosses, plan.Advice)
}

func TestPlanForSell_BasisErrors(t *testing.T) {
	c := NewCalculator(DefaultConfig())
	lv := Levels{Resistance: 120, Current: 115}

	_, err := c.PlanForSell(lv, nil)
	assert.ErrorIs(t, err, model.ErrMissingBasis)

	_, err = c.PlanForSell(lv, ptr(0))
	assert.ErrorIs(t, err, model.ErrInvalidBasis)

	_, err = c.PlanForSell(lv, ptr(-3))
	assert.ErrorIs(t, err, model.ErrInvalidBasis)
}

func TestAdviseSell(t *testing.T) {
	c := NewCalculator(DefaultConfig())
	assert.Equal(t, model.SellForProfit, c.AdviseSell(5.01))
	assert.Equal(t, model.Hold, c.AdviseSell(5))
	assert.Equal(t, model.Hold, c.AdviseSell(-10))
	assert.Equal(t, model.CutLosses, c.AdviseSell(-10.01))
}

func TestLevelsFromBar(t *testing.T) {
	bar := model.EnrichedBar{
		OHLCV:  model.OHLCV{Close: 42},
		Values: map[model.Indicator]float64{model.Support: 40},
	}
	lv := LevelsFromBar(bar)
	assert.Equal(t, 40.0, lv.Support)
	assert.True(t, math.IsNaN(lv.Resistance))
	assert.Equal(t, 42.0, lv.Current)
}
