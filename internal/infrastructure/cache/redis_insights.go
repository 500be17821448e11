package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/port"
)

// keyPrefix is bumped whenever the cached report layout changes.
const keyPrefix = "loan-default:insights:v1:"

// DefaultTTL applies when the configured TTL is zero.
const DefaultTTL = 24 * time.Hour

var _ port.InsightsCache = (*RedisInsightsCache)(nil)

// Client is the subset of redis.Cmdable used by the cache.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisInsightsCache stores insight reports as JSON keyed by the content
// hash of the dataset they were computed from.
type RedisInsightsCache struct {
	client Client
	ttl    time.Duration
}

// NewRedisInsightsCache wraps client. A zero ttl means DefaultTTL.
func NewRedisInsightsCache(client Client, ttl time.Duration) *RedisInsightsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisInsightsCache{client: client, ttl: ttl}
}

// NewClient opens a go-redis client and pings it.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (c *RedisInsightsCache) Get(ctx context.Context, fingerprint string) (model.InsightsReport, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.InsightsReport{}, false, nil
	}
	if err != nil {
		return model.InsightsReport{}, false, fmt.Errorf("redis get insights: %w", err)
	}

	var report model.InsightsReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return model.InsightsReport{}, false, fmt.Errorf("decode cached insights: %w", err)
	}
	return report, true, nil
}

func (c *RedisInsightsCache) Set(ctx context.Context, fingerprint string, report model.InsightsReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode insights: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+fingerprint, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set insights: %w", err)
	}
	return nil
}
