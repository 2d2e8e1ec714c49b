package bizsearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kailas-cloud/bizsearch/internal/db"
	"github.com/kailas-cloud/bizsearch/internal/db/embedded"
	dbRedis "github.com/kailas-cloud/bizsearch/internal/db/redis"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
	"github.com/kailas-cloud/bizsearch/internal/metrics"
	"github.com/kailas-cloud/bizsearch/internal/repository/catcache"
	"github.com/kailas-cloud/bizsearch/internal/repository/table"
	"github.com/kailas-cloud/bizsearch/internal/transport/overlay"
	"github.com/kailas-cloud/bizsearch/internal/transport/upstream"
	healthuc "github.com/kailas-cloud/bizsearch/internal/usecase/health"
	indexuc "github.com/kailas-cloud/bizsearch/internal/usecase/index"
	"github.com/kailas-cloud/bizsearch/internal/usecase/transform"
)

const (
	driverBleve = "bleve"
	driverRedis = "redis"

	defaultKeyPrefix     = "bizsearch:"
	defaultLookupTimeout = 5 * time.Second
)

// Внутренние интерфейсы для подмены в тестах.
type indexUseCase interface {
	SaveCatalogs(ctx context.Context, items []Catalog) error
	SaveProducts(ctx context.Context, items []Product) error
	SaveOfferings(ctx context.Context, items []Offering, owner *RelatedParty) error
	SaveInventory(ctx context.Context, items []InventoryItem) error
	SaveOrders(ctx context.Context, items []Order) error
	Remove(ctx context.Context, family, key string) error
	Search(ctx context.Context, f Family, q *query.Query) ([]document.Hit, error)
	SearchOwned(ctx context.Context, f Family, ownerID string) ([]document.Hit, error)
}

// Client is the bizsearch SDK entry point.
type Client struct {
	registry  *table.Registry
	index     indexUseCase
	overlay   *overlay.Middleware
	healthSvc healthUseCase
	closers   []io.Closer
	obs       *observer
}

// New opens the index tables and wires the client.
// The provided context bounds opening the tables.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:     defaultKeyPrefix,
		lookupTimeout: defaultLookupTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("bizsearch: storage required (use WithEmbedded or WithRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	driver, err := createDriver(cfg)
	if err != nil {
		return nil, err
	}
	registry := table.NewRegistry(driver, "", nil)
	if err := registry.Init(ctx); err != nil {
		return nil, fmt.Errorf("bizsearch: open tables: %w", err)
	}

	c, err := wireClient(ctx, registry, cfg, obs)
	if err != nil {
		_ = registry.Close(ctx)
		return nil, err
	}
	return c, nil
}

func createDriver(cfg *clientConfig) (db.Driver, error) {
	switch cfg.driver {
	case driverBleve:
		d, err := embedded.NewDriver(embedded.Config{Root: cfg.root, BatchSize: cfg.batchSize})
		if err != nil {
			return nil, fmt.Errorf("bizsearch: create embedded driver: %w", err)
		}
		return d, nil
	case driverRedis:
		d, err := dbRedis.NewDriver(redisConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("bizsearch: create redis driver: %w", err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("bizsearch: unknown driver %q", cfg.driver)
	}
}

func redisConfig(cfg *clientConfig) dbRedis.Config {
	return dbRedis.Config{Addrs: cfg.addrs, Password: cfg.password, KeyPrefix: cfg.keyPrefix}
}

func wireClient(ctx context.Context, registry *table.Registry, cfg *clientConfig, obs *observer) (*Client, error) {
	c := &Client{registry: registry, obs: obs}

	// Without a catalog, catalogs, products and orders still index; offerings
	// and inventory fail on lookup.
	var catalog CatalogClient = noopCatalog{}
	var checker healthuc.CatalogChecker
	switch {
	case cfg.catalogClient != nil:
		catalog = cfg.catalogClient
		checker, _ = cfg.catalogClient.(healthuc.CatalogChecker)
	case cfg.catalog != nil:
		hc := upstream.NewClient(upstream.Config{Catalog: *cfg.catalog, Timeout: cfg.lookupTimeout})
		catalog, checker = hc, hc
	}

	var shared catcache.Store
	if cfg.driver == driverRedis {
		kv, err := dbRedis.NewKVStore(ctx, redisConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("bizsearch: category cache store: %w", err)
		}
		c.closers = append(c.closers, kv)
		shared = kv
	}
	cached := catcache.New(catalog, catcache.Config{Size: cfg.cacheSize, TTL: cfg.cacheTTL},
		shared, metrics.EnrichmentCacheTotal, nil)

	svc := indexuc.New(registry, indexuc.NewWriter(cfg.bufferSize))
	svc.WithConverter(transform.New(svc, cached))
	c.index = svc
	c.overlay = newOverlay(svc)
	c.healthSvc = healthuc.New(registry, checker)
	return c, nil
}

// Close releases the tables and connections.
func (c *Client) Close() error {
	var errs []error
	if c.registry != nil {
		errs = append(errs, c.registry.Close(context.Background()))
	}
	for _, cl := range c.closers {
		errs = append(errs, cl.Close())
	}
	return errors.Join(errs...)
}

// Ping checks that every table is open and reachable.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(opPing, "", 0, start, err) }()

	if err = c.registry.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
