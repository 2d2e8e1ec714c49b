package bizsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver    string // "bleve" or "redis"
	root      string
	addrs     []string
	password  string
	keyPrefix string

	catalog       *Endpoint
	catalogClient CatalogClient
	lookupTimeout time.Duration
	cacheSize     int
	cacheTTL      time.Duration

	bufferSize int
	batchSize  int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithEmbedded keeps the tables in bleve indexes and bbolt files under root.
func WithEmbedded(root string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverBleve
		c.root = root
	})
}

// WithRedis keeps the tables in a Redis instance with the search and JSON
// modules.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix namespaces Redis keys and indexes. Default: "bizsearch:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithCatalog resolves categories and offering details against the catalog
// API at ep. Required to index offerings and inventory.
func WithCatalog(ep Endpoint) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalog = &ep
	})
}

// WithCatalogClient resolves categories and offering details with cc
// instead of the HTTP client. Overrides WithCatalog.
func WithCatalogClient(cc CatalogClient) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogClient = cc
	})
}

// WithLookupTimeout bounds each catalog lookup. Default: 5s.
func WithLookupTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.lookupTimeout = d
	})
}

// WithCategoryCache sizes the in-memory category cache.
// A negative size disables it. Defaults: 1024 entries, 10 minutes.
func WithCategoryCache(size int, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheSize = size
		c.cacheTTL = ttl
	})
}

// WithBuffer sets how many converted documents may wait for the engine,
// and how many the embedded engine commits at once. Defaults: 64 and 100.
func WithBuffer(bufferSize, batchSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.bufferSize = bufferSize
		c.batchSize = batchSize
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
