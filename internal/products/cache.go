package product

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	pkgredis "github.com/angelmondragon/catalog-pricing/pkg/redis"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	CacheKey(parts ...string) string
}

// Cache keeps the serialized product list in redis. A Cache without a store
// behaves as a permanent miss.
//
// Lists are stored under a generation number. Invalidate bumps the
// generation, so a list loaded before the bump is written under a key that
// is never read again.
type Cache struct {
	store cacheStore
	ttl   time.Duration
}

// NewCache constructs a cache helper. Pass a nil store to disable caching.
func NewCache(store cacheStore, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.store != nil
}

func (c *Cache) generationKey() string {
	return c.store.CacheKey("products", "generation")
}

func (c *Cache) listKey(generation string) string {
	return c.store.CacheKey("products", "list", generation)
}

// Generation returns the current list generation. Read it before loading the
// rows that will be passed to SetList. An empty generation disables both
// GetList and SetList.
func (c *Cache) Generation(ctx context.Context) (string, error) {
	if !c.enabled() {
		return "", nil
	}
	value, err := c.store.Get(ctx, c.generationKey())
	if err != nil {
		if pkgredis.IsNil(err) {
			return "0", nil
		}
		return "", err
	}
	if _, err := strconv.ParseInt(value, 10, 64); err != nil {
		return "", err
	}
	return value, nil
}

// GetList returns the product list cached for generation and whether it was present.
func (c *Cache) GetList(ctx context.Context, generation string) ([]ProductDTO, bool, error) {
	if !c.enabled() || generation == "" {
		return nil, false, nil
	}
	data, err := c.store.Get(ctx, c.listKey(generation))
	if err != nil {
		if pkgredis.IsNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var products []ProductDTO
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		return nil, false, err
	}
	return products, true, nil
}

// SetList stores the product list for generation with the configured TTL.
func (c *Cache) SetList(ctx context.Context, generation string, products []ProductDTO) error {
	if !c.enabled() || generation == "" {
		return nil
	}
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.listKey(generation), data, c.ttl)
}

// Invalidate retires every list cached so far by bumping the generation.
func (c *Cache) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	_, err := c.store.Incr(ctx, c.generationKey())
	return err
}
