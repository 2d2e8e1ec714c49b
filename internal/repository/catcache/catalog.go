// Package catcache caches catalog category lookups in memory and, when a
// key-value store is configured, in the store shared by every replica.
package catcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bizsearch/internal/db"
	"github.com/kailas-cloud/bizsearch/internal/domain"
)

const cacheKeyPrefix = "bizsearch:category:"

// Defaults applied when Config leaves them unset.
const (
	DefaultSize = 1024
	DefaultTTL  = 10 * time.Minute
)

// CatalogClient is the decorated lookup client.
type CatalogClient interface {
	Category(ctx context.Context, id domain.ID) (domain.Category, error)
	OfferingDetail(ctx context.Context, href string) (domain.OfferingDetail, error)
}

// Store is the consumer interface of the shared tier.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Config sizes the in-memory tier. A negative Size disables caching.
type Config struct {
	Size int
	TTL  time.Duration
}

// CachedCatalog caches categories. Offering details are not cached.
type CachedCatalog struct {
	inner      CatalogClient
	local      *expirable.LRU[domain.ID, domain.Category]
	store      Store
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. s may be nil.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner CatalogClient,
	cfg Config,
	s Store,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &CachedCatalog{
		inner:      inner,
		store:      s,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
	if cfg.Size >= 0 {
		size, ttl := cfg.Size, cfg.TTL
		if size == 0 {
			size = DefaultSize
		}
		if ttl <= 0 {
			ttl = DefaultTTL
		}
		c.local = expirable.NewLRU[domain.ID, domain.Category](size, nil, ttl)
	}
	return c
}

// Category returns a cached category or fetches it from the inner client.
func (c *CachedCatalog) Category(ctx context.Context, id domain.ID) (domain.Category, error) {
	if c.local != nil {
		if cat, ok := c.local.Get(id); ok {
			c.incCache("hit")
			return cat, nil
		}
	}
	if cat, ok := c.getFromStore(ctx, id); ok {
		c.incCache("hit")
		c.addLocal(id, cat)
		return cat, nil
	}

	c.incCache("miss")

	cat, err := c.inner.Category(ctx, id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("category %s: %w", id, err)
	}

	c.addLocal(id, cat)
	c.putToStore(ctx, id, cat)
	return cat, nil
}

// OfferingDetail delegates to the inner client.
func (c *CachedCatalog) OfferingDetail(ctx context.Context, href string) (domain.OfferingDetail, error) {
	return c.inner.OfferingDetail(ctx, href)
}

// Purge drops the in-memory tier.
func (c *CachedCatalog) Purge() {
	if c.local != nil {
		c.local.Purge()
	}
}

func (c *CachedCatalog) addLocal(id domain.ID, cat domain.Category) {
	if c.local != nil {
		c.local.Add(id, cat)
	}
}

func (c *CachedCatalog) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(id domain.ID) string {
	return cacheKeyPrefix + id.String()
}

func (c *CachedCatalog) getFromStore(ctx context.Context, id domain.ID) (domain.Category, bool) {
	if c.store == nil {
		return domain.Category{}, false
	}
	key := cacheKey(id)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached category", zap.String("key", key), zap.Error(err))
		}
		return domain.Category{}, false
	}

	var cat domain.Category
	if err := json.Unmarshal(data, &cat); err != nil {
		c.logger.Warn("Failed to parse cached category", zap.String("key", key), zap.Error(err))
		return domain.Category{}, false
	}
	return cat, true
}

func (c *CachedCatalog) putToStore(ctx context.Context, id domain.ID, cat domain.Category) {
	if c.store == nil {
		return
	}
	data, err := json.Marshal(cat)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, cacheKey(id), data); err != nil {
		c.logger.Warn("Failed to cache category", zap.String("key", cacheKey(id)), zap.Error(err))
	}
}
