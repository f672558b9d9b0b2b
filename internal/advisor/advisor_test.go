package advisor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"MarketAdvisor/internal/calculator"
	"MarketAdvisor/internal/collector"
	"MarketAdvisor/internal/metrics"
	"MarketAdvisor/internal/model"
	"MarketAdvisor/internal/strategy"
	"MarketAdvisor/internal/target"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdvisor(t *testing.T, f collector.Fetcher, m *metrics.Metrics) *Advisor {
	t.Helper()
	params := calculator.DefaultParams()
	engine, err := calculator.NewEngine(params, calculator.Manual{})
	require.NoError(t, err)
	lb, err := collector.ParseLookback("120d")
	require.NoError(t, err)
	return New(
		collector.NewCollector(f, lb, m),
		engine,
		strategy.NewGenerator(strategy.DefaultThresholds(), params.SMAShort, params.SMALong),
		target.NewCalculator(target.DefaultConfig()),
		m,
	)
}

func mockFetcher() *collector.MockFetcher {
	return &collector.MockFetcher{Price: 100, Now: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
}

func TestAnalyze(t *testing.T) {
	m := metrics.NewMetrics()
	adv := newAdvisor(t, mockFetcher(), m)

	an, err := adv.Analyze(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", an.Symbol)
	assert.Len(t, an.Enriched.Bars, len(an.Series.Bars))
	require.Len(t, an.Recommendation.Signals, 4)
	assert.Contains(t, []model.Verdict{model.Buy, model.Sell, model.Neutral}, an.Recommendation.Overall)
	assert.Equal(t, an.Series.CurrentPrice, an.Levels.Current)

	for _, ind := range model.AllIndicators {
		_, ok := an.Latest.Value(ind)
		assert.True(t, ok, "indicator %s defined after 120 bars", ind)
	}

	assert.True(t, an.Insights.HasChange)
	assert.True(t, an.Insights.HasVolatility)
	assert.NotEmpty(t, an.Insights.Risk)
	assert.GreaterOrEqual(t, an.Insights.PeriodHigh, an.Insights.PeriodLow)
	assert.Equal(t, strategy.SellScore(an.Recommendation.Signals), an.Insights.SellScore)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues(string(an.Recommendation.Overall))))
}

func TestAnalyze_ShortHistory(t *testing.T) {
	f := mockFetcher()
	f.Bars = []model.OHLCV{
		{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Open: 10, High: 11, Low: 9, Close: 10, Volume: 1},
		{Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 10, High: 12, Low: 9, Close: 11, Volume: 1},
	}
	adv := newAdvisor(t, f, nil)

	an, err := adv.Analyze(context.Background(), "NEW")
	require.NoError(t, err)
	signals := an.Recommendation.Signals
	require.Len(t, signals, 4)
	assert.Equal(t, model.Neutral, signals[0].Verdict)
	assert.Equal(t, model.Neutral, signals[1].Verdict)
	assert.Equal(t, model.Buy, signals[2].Verdict, "MACD is defined from the first bar")
	assert.Equal(t, model.Neutral, signals[3].Verdict)
	assert.False(t, an.Insights.HasVolatility)

	plan, err := adv.PlanBuy(an)
	require.NoError(t, err)
	assert.InDelta(t, 11*0.95, plan.EntryPrice, 1e-9)
}

func TestAnalyze_FetchError(t *testing.T) {
	f := mockFetcher()
	f.Err = errors.New("provider down")
	adv := newAdvisor(t, f, nil)

	_, err := adv.Analyze(context.Background(), "AAPL")
	assert.ErrorContains(t, err, "provider down")
}

func TestAnalyze_EmptySeries(t *testing.T) {
	f := mockFetcher()
	f.Bars = []model.OHLCV{}
	adv := newAdvisor(t, f, nil)

	_, err := adv.Analyze(context.Background(), "AAPL")
	assert.ErrorIs(t, err, model.ErrEmptySeries)
}

func TestPlans(t *testing.T) {
	m := metrics.NewMetrics()
	adv := newAdvisor(t, mockFetcher(), m)
	an, err := adv.Analyze(context.Background(), "AAPL")
	require.NoError(t, err)

	buy, err := adv.PlanBuy(an)
	require.NoError(t, err)
	assert.Less(t, buy.StopLoss, buy.EntryPrice)
	assert.Greater(t, buy.TakeProfit, buy.EntryPrice)

	basis := 90.0
	sell, err := adv.PlanSell(an, &basis)
	require.NoError(t, err)
	assert.Equal(t, basis, sell.BasisPrice)
	assert.LessOrEqual(t, sell.SellPrice, an.Levels.Current*1.05+1e-9)

	_, err = adv.PlanSell(an, nil)
	assert.ErrorIs(t, err, model.ErrMissingBasis)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlanErrorsTotal.WithLabelValues("SELL")))
}

func TestAnalyze_Concurrent(t *testing.T) {
	adv := newAdvisor(t, mockFetcher(), metrics.NewMetrics())

	var wg sync.WaitGroup
	verdicts := make([]model.Verdict, 8)
	for i := range verdicts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			an, err := adv.Analyze(context.Background(), "AAPL")
			if assert.NoError(t, err) {
				verdicts[i] = an.Recommendation.Overall
			}
		}(i)
	}
	wg.Wait()

	for _, v := range verdicts[1:] {
		assert.Equal(t, verdicts[0], v)
	}
}
