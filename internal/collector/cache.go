package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"MarketAdvisor/internal/metrics"
	"MarketAdvisor/internal/model"

	goredis "github.com/go-redis/redis/v8"
)

// RedisCmdable is the subset of the go-redis client the cache needs.
type RedisCmdable interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

// RedisConfig configures the bar cache connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and pings the server.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// CachedFetcher serves bars from Redis when present and fills the cache from
// the wrapped fetcher otherwise. Cache failures never fail a fetch.
type CachedFetcher struct {
	next    Fetcher
	redis   RedisCmdable
	ttl     time.Duration
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewCachedFetcher wraps next with a Redis cache whose entries live for ttl.
func NewCachedFetcher(next Fetcher, rdb RedisCmdable, ttl time.Duration, m *metrics.Metrics) *CachedFetcher {
	return &CachedFetcher{
		next:    next,
		redis:   rdb,
		ttl:     ttl,
		metrics: m,
		log:     slog.Default().With("component", "bar-cache", "provider", next.Name()),
	}
}

func (c *CachedFetcher) Name() string { return c.next.Name() }

func cacheKey(provider, symbol string, lb Lookback) string {
	return fmt.Sprintf("advisor:bars:%s:%s:%s", provider, strings.ToUpper(symbol), lb.Raw)
}

func (c *CachedFetcher) FetchBars(ctx context.Context, symbol string, lb Lookback) ([]model.OHLCV, error) {
	key := cacheKey(c.next.Name(), symbol, lb)

	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var bars []model.OHLCV
		jsonErr := json.Unmarshal(raw, &bars)
		if jsonErr == nil {
			c.metrics.ObserveCache(true)
			return bars, nil
		}
		c.log.Warn("discarding undecodable cache entry", "key", key, "err", jsonErr)
	case errors.Is(err, goredis.Nil):
	default:
		c.log.Warn("cache read failed", "key", key, "err", err)
	}
	c.metrics.ObserveCache(false)

	bars, err := c.next.FetchBars(ctx, symbol, lb)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(bars)
	if err != nil {
		c.log.Warn("encode bars for cache", "key", key, "err", err)
		return bars, nil
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", "key", key, "err", err)
	}
	return bars, nil
}
