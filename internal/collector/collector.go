// Package collector retrieves and validates market data.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"MarketAdvisor/internal/metrics"
	"MarketAdvisor/internal/model"
)

// Collector fetches a price series and enforces the invariants the indicator
// engine relies on: non-empty, strictly increasing timestamps, finite prices
// and non-negative volume.
type Collector struct {
	Fetcher  Fetcher
	Lookback Lookback
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, lb Lookback, m *metrics.Metrics) *Collector {
	return &Collector{Fetcher: fetcher, Lookback: lb, Metrics: m, Now: time.Now}
}

// Collect fetches and validates the series for symbol.
func (c *Collector) Collect(ctx context.Context, symbol string) (model.PriceSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.PriceSeries{}, fmt.Errorf("collect: symbol is required")
	}

	bars, err := c.Fetcher.FetchBars(ctx, symbol, c.Lookback)
	if err != nil {
		c.Metrics.ObserveFetchError(c.Fetcher.Name())
		return model.PriceSeries{}, fmt.Errorf("fetch %s from %s: %w", symbol, c.Fetcher.Name(), err)
	}

	bars, err = Normalize(bars)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("collect %s: %w", symbol, err)
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	series := model.PriceSeries{
		Symbol:       symbol,
		Bars:         bars,
		CurrentPrice: bars[len(bars)-1].Close,
		FetchedAt:    now(),
	}
	slog.Debug("series collected", "component", "collector", "symbol", symbol,
		"provider", c.Fetcher.Name(), "bars", len(bars))
	return series, nil
}

// Normalize sorts bars by time, keeps the last bar for duplicate timestamps and
// rejects empty input, negative volume and non-finite prices.
func Normalize(bars []model.OHLCV) ([]model.OHLCV, error) {
	if len(bars) == 0 {
		return nil, model.ErrEmptySeries
	}

	sorted := make([]model.OHLCV, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	out := sorted[:0]
	for _, b := range sorted {
		if b.Volume < 0 {
			return nil, fmt.Errorf("bar at %s: negative volume %v", b.Time.Format(time.RFC3339), b.Volume)
		}
		for _, p := range [...]float64{b.Open, b.High, b.Low, b.Close} {
			if math.IsNaN(p) || math.IsInf(p, 0) {
				return nil, fmt.Errorf("bar at %s: non-finite price", b.Time.Format(time.RFC3339))
			}
		}
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out, nil
}
