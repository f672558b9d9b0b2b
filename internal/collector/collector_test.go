package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketAdvisor/internal/metrics"
	"MarketAdvisor/internal/model"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestParseLookback(t *testing.T) {
	tests := []struct {
		in    string
		days  int
		yahoo string
	}{
		{"90d", 90, "3mo"},
		{"2w", 14, "1mo"},
		{"6mo", 182, "6mo"},
		{"1y", 365, "1y"},
		{"2Y", 730, "2y"},
		{"", 182, "6mo"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lb, err := ParseLookback(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.days, lb.Days)
			assert.Equal(t, tt.yahoo, lb.YahooRange())
		})
	}
}

func TestParseLookback_Invalid(t *testing.T) {
	for _, in := range []string{"6", "abc", "0d", "-3w", "1.5y", "mo"} {
		_, err := ParseLookback(in)
		assert.Error(t, err, in)
	}
}

func TestNormalize(t *testing.T) {
	bars := []model.OHLCV{
		{Time: day(2), Close: 12, Volume: 1},
		{Time: day(0), Close: 10, Volume: 1},
		{Time: day(1), Close: 11, Volume: 1},
		{Time: day(1), Close: 11.5, Volume: 2},
	}
	out, err := Normalize(bars)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []float64{10, 11.5, 12}, []float64{out[0].Close, out[1].Close, out[2].Close})
	assert.Equal(t, 12.0, bars[0].Close, "input must not be reordered")
}

func TestNormalize_Rejects(t *testing.T) {
	_, err := Normalize(nil)
	assert.ErrorIs(t, err, model.ErrEmptySeries)

	_, err = Normalize([]model.OHLCV{{Time: day(0), Close: 1, Volume: -1}})
	assert.ErrorContains(t, err, "negative volume")
}

func TestCollector_Collect(t *testing.T) {
	fixed := day(10)
	c := NewCollector(&MockFetcher{Bars: []model.OHLCV{
		{Time: day(1), Close: 101, Volume: 5},
		{Time: day(0), Close: 100, Volume: 5},
	}}, DefaultLookback, nil)
	c.Now = func() time.Time { return fixed }

	series, err := c.Collect(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", series.Symbol)
	assert.Len(t, series.Bars, 2)
	assert.Equal(t, 101.0, series.CurrentPrice)
	assert.Equal(t, fixed, series.FetchedAt)
}

func TestCollector_FetchErrorCounted(t *testing.T) {
	m := metrics.NewMetrics()
	c := NewCollector(&MockFetcher{Err: errors.New("boom")}, DefaultLookback, m)

	_, err := c.Collect(context.Background(), "AAPL")
	require.ErrorContains(t, err, "boom")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchErrorsTotal.WithLabelValues("mock")))
}

func TestCollector_EmptySeries(t *testing.T) {
	c := NewCollector(&MockFetcher{Bars: []model.OHLCV{}}, DefaultLookback, nil)
	_, err := c.Collect(context.Background(), "AAPL")
	assert.ErrorIs(t, err, model.ErrEmptySeries)
}

func TestMockFetcher_Generates(t *testing.T) {
	lb, _ := ParseLookback("30d")
	bars, err := (&MockFetcher{Price: 50, Now: day(100)}).FetchBars(context.Background(), "X", lb)
	require.NoError(t, err)
	require.Len(t, bars, 30)
	assert.Equal(t, day(100), bars[29].Time)
	for i := 1; i < len(bars); i++ {
		assert.True(t, bars[i].Time.After(bars[i-1].Time))
	}
}

func TestYahooFetcher(t *testing.T) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	ts := []int64{now.AddDate(0, 0, -1).Unix(), now.AddDate(0, 0, -3).Unix(), now.AddDate(0, 0, -2).Unix()}

	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		fmt.Fprintf(w, `{"chart":{"result":[{"timestamp":[%d,%d,%d],
			"indicators":{"quote":[{
				"open":[10,8,null],"high":[11,9,null],"low":[9,7,null],
				"close":[10.5,8.5,null],"volume":[100,200,null]}]}}],"error":null}}`,
			ts[0], ts[1], ts[2])
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	bars, err := f.FetchBars(context.Background(), "SPX", DefaultLookback)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/^GSPC", gotPath)
	assert.Equal(t, "interval=1d&range=6mo", gotQuery)
	require.Len(t, bars, 2)
	assert.Equal(t, 8.5, bars[0].Close)
	assert.Equal(t, 10.5, bars[1].Close)
	assert.Equal(t, 100.0, bars[1].Volume)
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchBars(context.Background(), "NOPE", DefaultLookback)
	assert.ErrorContains(t, err, "symbol may be delisted")
}

func TestRESTFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/bars/daily", r.URL.Path)
		assert.Equal(t, "MSFT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "90", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]restBar{
			{Timestamp: day(1).Unix(), Close: 2, Volume: 1},
			{Timestamp: day(0).Unix(), Close: 1, Volume: 1},
		})
	}))
	defer srv.Close()

	lb, _ := ParseLookback("90d")
	bars, err := NewRESTFetcher(srv.URL, "secret", "").FetchBars(context.Background(), "MSFT", lb)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, day(0), bars[0].Time)
	assert.Equal(t, 2.0, bars[1].Close)
}

func TestRESTFetcher_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewRESTFetcher(srv.URL, "", "").FetchBars(context.Background(), "MSFT", DefaultLookback)
	assert.ErrorContains(t, err, "status 429")
}

type fakeRedis struct {
	data   map[string]string
	getErr error
	setErr error
	ttl    time.Duration
}

func (f *fakeRedis) Get(_ context.Context, key string) *goredis.StringCmd {
	if f.getErr != nil {
		return goredis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *goredis.StatusCmd {
	if f.setErr != nil {
		return goredis.NewStatusResult("", f.setErr)
	}
	f.data[key] = string(value.([]byte))
	f.ttl = ttl
	return goredis.NewStatusResult("OK", nil)
}

type countingFetcher struct {
	MockFetcher
	calls int
}

func (c *countingFetcher) FetchBars(ctx context.Context, symbol string, lb Lookback) ([]model.OHLCV, error) {
	c.calls++
	return c.MockFetcher.FetchBars(ctx, symbol, lb)
}

func TestCachedFetcher_HitAfterMiss(t *testing.T) {
	rdb := &fakeRedis{data: map[string]string{}}
	next := &countingFetcher{MockFetcher: MockFetcher{Bars: []model.OHLCV{{Time: day(0), Close: 3, Volume: 1}}}}
	m := metrics.NewMetrics()
	cf := NewCachedFetcher(next, rdb, time.Minute, m)

	first, err := cf.FetchBars(context.Background(), "aapl", DefaultLookback)
	require.NoError(t, err)
	second, err := cf.FetchBars(context.Background(), "AAPL", DefaultLookback)
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, time.Minute, rdb.ttl)
	assert.Contains(t, rdb.data, "advisor:bars:mock:AAPL:6mo")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses))
}

func TestCachedFetcher_RedisDown(t *testing.T) {
	down := errors.New("connection refused")
	rdb := &fakeRedis{data: map[string]string{}, getErr: down, setErr: down}
	next := &countingFetcher{MockFetcher: MockFetcher{Bars: []model.OHLCV{{Time: day(0), Close: 3, Volume: 1}}}}
	cf := NewCachedFetcher(next, rdb, time.Minute, nil)

	bars, err := cf.FetchBars(context.Background(), "AAPL", DefaultLookback)
	require.NoError(t, err)
	assert.Len(t, bars, 1)
	assert.Equal(t, 1, next.calls)
}

func TestCachedFetcher_CorruptEntry(t *testing.T) {
	rdb := &fakeRedis{data: map[string]string{"advisor:bars:mock:AAPL:6mo": "not json"}}
	next := &countingFetcher{MockFetcher: MockFetcher{Bars: []model.OHLCV{{Time: day(0), Close: 3, Volume: 1}}}}
	cf := NewCachedFetcher(next, rdb, time.Minute, nil)

	_, err := cf.FetchBars(context.Background(), "AAPL", DefaultLookback)
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)
}
