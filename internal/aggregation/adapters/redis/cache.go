package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"event-aggregation-bot/internal/aggregation/core/domain"
	"event-aggregation-bot/internal/aggregation/core/ports"
)

const keyPrefix = "series:"

// Client is the subset of *redis.Client used by SeriesCache.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// SeriesCache keeps aggregated series in Redis as JSON for ttl.
type SeriesCache struct {
	client Client
	ttl    time.Duration
}

func NewSeriesCache(client Client, ttl time.Duration) *SeriesCache {
	return &SeriesCache{client: client, ttl: ttl}
}

func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

var _ ports.SeriesCachePort = (*SeriesCache)(nil)

func (c *SeriesCache) Get(ctx context.Context, key string) (*domain.Series, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var s domain.Series
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal series: %w", err)
	}
	return &s, true, nil
}

func (c *SeriesCache) Set(ctx context.Context, key string, s *domain.Series) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal series: %w", err)
	}
	return c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err()
}
