// Package rediscache puts a Redis read-through cache in front of a catalog.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"foodorder/pkg/catalog"
	"foodorder/pkg/logger"
)

const keyPrefix = "menuitem:"

// Cache implements catalog.Lookup by consulting Redis before next.
// Redis failures are logged and fall through to next; misses in next are not cached.
type Cache struct {
	rdb  redis.Cmdable
	next catalog.Lookup
	ttl  time.Duration
	log  *logger.Logger
}

// New wraps next with a cache whose entries live for ttl.
func New(rdb redis.Cmdable, next catalog.Lookup, ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{rdb: rdb, next: next, ttl: ttl, log: log}
}

// Get retrieves a menu item by ID.
func (c *Cache) Get(ctx context.Context, id string) (catalog.Item, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+id).Bytes()
	switch {
	case err == nil:
		var it catalog.Item
		if err := json.Unmarshal(raw, &it); err == nil {
			return it, nil
		}
		c.log.Warn(ctx, "discarding corrupt cache entry", "itemId", id)
	case !errors.Is(err, redis.Nil):
		c.log.Warn(ctx, "catalog cache read", "itemId", id, "error", err)
	}

	it, err := c.next.Get(ctx, id)
	if err != nil {
		return catalog.Item{}, err
	}

	if data, err := json.Marshal(it); err == nil {
		if err := c.rdb.Set(ctx, keyPrefix+id, data, c.ttl).Err(); err != nil {
			c.log.Warn(ctx, "catalog cache write", "itemId", id, "error", err)
		}
	}
	return it, nil
}
