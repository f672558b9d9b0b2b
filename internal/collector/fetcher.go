package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"MarketAdvisor/internal/model"
)

// Fetcher retrieves a time-ordered daily OHLCV series for one symbol.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, lb Lookback) ([]model.OHLCV, error)
	Name() string
}

// Lookback is a trailing window of calendar days.
type Lookback struct {
	Raw  string
	Days int
}

// DefaultLookback is six months of history.
var DefaultLookback = Lookback{Raw: "6mo", Days: 182}

// ParseLookback accepts "<n>d", "<n>w", "<n>mo" and "<n>y", e.g. "90d" or "1y".
func ParseLookback(s string) (Lookback, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultLookback, nil
	}

	var unit string
	var perUnit float64
	switch {
	case strings.HasSuffix(s, "mo"):
		unit, perUnit = "mo", 365.0/12
	case strings.HasSuffix(s, "d"):
		unit, perUnit = "d", 1
	case strings.HasSuffix(s, "w"):
		unit, perUnit = "w", 7
	case strings.HasSuffix(s, "y"):
		unit, perUnit = "y", 365
	default:
		return Lookback{}, fmt.Errorf("lookback %q: unknown unit (use d, w, mo or y)", s)
	}

	n, err := strconv.Atoi(strings.TrimSuffix(s, unit))
	if err != nil || n <= 0 {
		return Lookback{}, fmt.Errorf("lookback %q: count must be a positive integer", s)
	}
	return Lookback{Raw: s, Days: int(float64(n) * perUnit)}, nil
}

// YahooRange returns the smallest Yahoo chart range covering the lookback.
func (lb Lookback) YahooRange() string {
	switch {
	case lb.Days <= 5:
		return "5d"
	case lb.Days <= 31:
		return "1mo"
	case lb.Days <= 92:
		return "3mo"
	case lb.Days <= 183:
		return "6mo"
	case lb.Days <= 366:
		return "1y"
	case lb.Days <= 731:
		return "2y"
	case lb.Days <= 1827:
		return "5y"
	default:
		return "10y"
	}
}

// Since returns the oldest timestamp inside the lookback, relative to now.
func (lb Lookback) Since(now time.Time) time.Time {
	return now.AddDate(0, 0, -lb.Days)
}

func (lb Lookback) String() string { return lb.Raw }

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
