package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-tours/internal/models"
)

// CatalogKey holds the JSON encoded public tour catalog.
const CatalogKey = "tours:catalog"

type CatalogCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{Client: client, TTL: ttl}
}

// Get reports false on a cache miss.
func (c *CatalogCache) Get(ctx context.Context) ([]models.CatalogTour, bool, error) {
	raw, err := c.Client.Get(ctx, CatalogKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read catalog from Redis: %w", err)
	}

	var tours []models.CatalogTour
	if err := json.Unmarshal(raw, &tours); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached catalog: %w", err)
	}
	return tours, true, nil
}

func (c *CatalogCache) Set(ctx context.Context, tours []models.CatalogTour) error {
	raw, err := json.Marshal(tours)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := c.Client.Set(ctx, CatalogKey, raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store catalog in Redis: %w", err)
	}
	return nil
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.Client.Del(ctx, CatalogKey).Err()
}
