package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tourvista/service-tours/internal/application"
	"github.com/tourvista/service-tours/internal/config"
)

const activeToursKey = "cache:tours:active"

// RedisTourCache caches the active tour catalog in Redis.
type RedisTourCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTourCache creates a tour cache with the given TTL.
func NewRedisTourCache(cfg config.RedisConfig, ttl time.Duration) *RedisTourCache {
	return &RedisTourCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: ttl,
	}
}

// GetActiveTours returns the cached catalog, or nil on a miss.
func (c *RedisTourCache) GetActiveTours(ctx context.Context) ([]application.TourDTO, error) {
	data, err := c.client.Get(ctx, activeToursKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var tours []application.TourDTO
	if err := json.Unmarshal(data, &tours); err != nil {
		return nil, err
	}
	return tours, nil
}

// SetActiveTours stores the catalog with the configured TTL.
func (c *RedisTourCache) SetActiveTours(ctx context.Context, tours []application.TourDTO) error {
	payload, err := json.Marshal(tours)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, activeToursKey, payload, c.ttl).Err()
}

// Invalidate drops the cached catalog.
func (c *RedisTourCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, activeToursKey).Err()
}

// Close closes the Redis client.
func (c *RedisTourCache) Close() error {
	return c.client.Close()
}
