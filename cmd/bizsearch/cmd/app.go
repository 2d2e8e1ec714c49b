package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bizsearch/internal/config"
	"github.com/kailas-cloud/bizsearch/internal/db"
	"github.com/kailas-cloud/bizsearch/internal/db/embedded"
	dbRedis "github.com/kailas-cloud/bizsearch/internal/db/redis"
	"github.com/kailas-cloud/bizsearch/internal/metrics"
	"github.com/kailas-cloud/bizsearch/internal/repository/catcache"
	"github.com/kailas-cloud/bizsearch/internal/repository/table"
	"github.com/kailas-cloud/bizsearch/internal/transport/upstream"
	indexuc "github.com/kailas-cloud/bizsearch/internal/usecase/index"
	"github.com/kailas-cloud/bizsearch/internal/usecase/transform"
)

// app is the composition root shared by the commands: the index tables,
// the catalog client and the index service on top of them.
type app struct {
	registry *table.Registry
	catalog  *upstream.Client
	index    *indexuc.Service
	closers  []io.Closer
	logger   *zap.Logger
}

func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	driver, err := newDriver(cfg.Index)
	if err != nil {
		return nil, fmt.Errorf("index driver: %w", err)
	}

	registry := table.NewRegistry(driver, "", logger)
	if err := registry.Init(ctx); err != nil {
		return nil, fmt.Errorf("open index tables: %w", err)
	}
	a := &app{registry: registry, logger: logger}

	ep := cfg.Endpoints.Catalog
	a.catalog = upstream.NewClient(upstream.Config{
		Catalog:   upstream.Endpoint{Host: ep.Host, Port: ep.Port, Path: ep.Path, SSL: ep.SSL},
		Timeout:   cfg.Enrichment.Timeout(),
		RateLimit: cfg.Enrichment.RateLimit,
		Burst:     cfg.Enrichment.Burst,
		Logger:    logger,
	})

	// Replicas sharing a redis index also share resolved categories.
	var shared *dbRedis.Store
	if cfg.Index.Driver == config.DriverRedis {
		shared, err = dbRedis.NewKVStore(ctx, redisConfig(cfg.Index.Redis))
		if err != nil {
			_ = registry.Close(ctx)
			return nil, fmt.Errorf("category cache store: %w", err)
		}
		a.closers = append(a.closers, shared)
	}
	var cacheStore catcache.Store
	if shared != nil {
		cacheStore = shared
	}
	catalog := catcache.New(a.catalog, catcache.Config{
		Size: cfg.Enrichment.CacheSize,
		TTL:  cfg.Enrichment.CacheTTL(),
	}, cacheStore, metrics.EnrichmentCacheTotal, logger)

	svc := indexuc.New(registry, indexuc.NewWriter(cfg.Index.BufferSize))
	a.index = svc.WithConverter(transform.New(svc, catalog))
	return a, nil
}

// Close releases the index tables and the shared cache store.
func (a *app) Close(ctx context.Context) error {
	errs := []error{a.registry.Close(ctx)}
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func newDriver(cfg config.IndexConfig) (db.Driver, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		return dbRedis.NewDriver(redisConfig(cfg.Redis))
	case config.DriverBleve, "":
		return embedded.NewDriver(embedded.Config{Root: cfg.Root, BatchSize: cfg.BatchSize})
	default:
		return nil, fmt.Errorf("unknown index driver %q", cfg.Driver)
	}
}

func redisConfig(cfg config.RedisConfig) dbRedis.Config {
	return dbRedis.Config{
		Addrs:     cfg.Addrs,
		Username:  cfg.Username,
		Password:  cfg.Password,
		DB:        cfg.DB,
		KeyPrefix: cfg.KeyPrefix,
	}
}
