package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/flyncarry/flyncarry/config"
	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client         *redis.Client
	itinerariesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, itinerariesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:         redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		itinerariesTTL: itinerariesTTL,
	}
}

// GetItineraries returns the cached unfiltered active listing, or nil
// on a miss. Filtered searches bypass the cache.
func (c *RedisCache) GetItineraries(ctx context.Context) ([]domain.Itinerary, error) {
	data, err := c.client.Get(ctx, itinerariesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var itineraries []domain.Itinerary
	if err := json.Unmarshal(data, &itineraries); err != nil {
		return nil, err
	}
	return itineraries, nil
}

func (c *RedisCache) SetItineraries(ctx context.Context, itineraries []domain.Itinerary) error {
	payload, err := json.Marshal(itineraries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, itinerariesKey(), payload, c.itinerariesTTL).Err()
}

func (c *RedisCache) InvalidateItineraries(ctx context.Context) error {
	return c.client.Del(ctx, itinerariesKey()).Err()
}

// ClaimWebhookEvent records a provider event id and reports whether
// this is the first time it was seen. Duplicate webhook deliveries
// are dropped by the caller.
func (c *RedisCache) ClaimWebhookEvent(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, webhookEventKey(eventID), "seen", ttl).Result()
}

func itinerariesKey() string {
	return "cache:itineraries:active"
}

func webhookEventKey(eventID string) string {
	return "webhook:event:" + eventID
}
