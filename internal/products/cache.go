package products

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/suryakv/ecommerce-backend/pkg/db/models"
	"github.com/suryakv/ecommerce-backend/pkg/logger"
	"github.com/suryakv/ecommerce-backend/pkg/redis"
)

const catalogCacheKeyPart = "products"

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(parts ...string) string
}

// Cache is the cache-aside layer for the unfiltered catalog listing. Every
// operation is best effort: Redis being down degrades reads to the database
// and never surfaces to callers.
type Cache struct {
	store cacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

// NewCache builds the catalog cache. A nil store disables caching entirely.
func NewCache(store *redis.Client, ttl time.Duration, logg *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c := &Cache{ttl: ttl, logg: logg}
	if store != nil {
		c.store = store
	}
	return c
}

// Key returns the namespaced catalog cache key.
func (c *Cache) Key() string {
	if c == nil || c.store == nil {
		return ""
	}
	return c.store.CacheKey(catalogCacheKeyPart)
}

// Get returns the cached listing and true on a hit.
func (c *Cache) Get(ctx context.Context) ([]models.Product, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}
	raw, err := c.store.Get(ctx, c.Key())
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "cache_key", c.Key()), "catalog cache read failed, falling back to database")
		return nil, false
	}
	var rows []models.Product
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		c.logg.Error(ctx, "catalog cache entry corrupt, dropping it", err)
		c.Invalidate(ctx)
		return nil, false
	}
	return rows, true
}

// Set stores the listing with the configured TTL.
func (c *Cache) Set(ctx context.Context, rows []models.Product) {
	if c == nil || c.store == nil {
		return
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		c.logg.Error(ctx, "marshal catalog listing for cache", err)
		return
	}
	if err := c.store.Set(ctx, c.Key(), payload, c.ttl); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "cache_key", c.Key()), "catalog cache write failed")
	}
}

// Invalidate deletes the catalog entry. Called on product writes and after a
// checkout commits; the TTL bounds staleness when the delete fails.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.store == nil {
		return
	}
	if err := c.store.Del(ctx, c.Key()); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "cache_key", c.Key()), "catalog cache invalidation failed")
	}
}
