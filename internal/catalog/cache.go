package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotCacheKey = "catalog:snapshot:v1"

// Cache stores the serialized catalog snapshot in Redis so concurrent API
// instances share one load.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetSnapshot returns a cached snapshot. It reports whether the key existed.
func (c *Cache) GetSnapshot(ctx context.Context) (*Snapshot, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, snapshotCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, err
	}
	return NewSnapshot(items), true, nil
}

// SetSnapshot serialises the snapshot's items and stores them with the configured TTL.
func (c *Cache) SetSnapshot(ctx context.Context, snapshot *Snapshot) error {
	if c == nil || c.client == nil || snapshot == nil {
		return nil
	}
	data, err := json.Marshal(snapshot.Items())
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotCacheKey, data, c.ttl).Err()
}

// Invalidate drops the cached snapshot, forcing the next read to hit Postgres.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, snapshotCacheKey).Err()
}
