package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     redis.Cmdable
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL,
	)
}

func NewRedisCacheWithClient(client redis.Cmdable, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL}
}

// GetFlights returns the cached inventory snapshot. A miss is (nil, nil).
func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get flights: %w", err)
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, fmt.Errorf("decode flights: %w", err)
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

// InvalidateFlights drops the snapshot after seat counts change.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	return c.client.Del(ctx, flightsKey()).Err()
}

// GetWatermark returns the last "mark as seen" instant for scope, or nil if
// the scope was never marked.
func (c *RedisCache) GetWatermark(ctx context.Context, scope string) (*time.Time, error) {
	raw, err := c.client.Get(ctx, watermarkKey(scope)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get watermark %s: %w", scope, err)
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("parse watermark %s: %w", scope, err)
	}
	return &t, nil
}

// SetWatermark stores the instant without expiry.
func (c *RedisCache) SetWatermark(ctx context.Context, scope string, t time.Time) error {
	return c.client.Set(ctx, watermarkKey(scope), t.UTC().Format(time.RFC3339Nano), 0).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func watermarkKey(scope string) string {
	return fmt.Sprintf("watermark:stats:%s", scope)
}
