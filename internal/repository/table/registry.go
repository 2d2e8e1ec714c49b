// Package table manages the index tables: one store and engine pair per
// family, opened and closed together.
package table

import (
	"context"
	"fmt"
	"path"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bizsearch/internal/db"
	"github.com/kailas-cloud/bizsearch/internal/domain"
)

// Table is the open store and engine of one family.
type Table struct {
	Family domain.Family
	Path   string
	Store  db.Store
	Engine db.Engine
}

// Registry owns the index tables of the process. It is constructed once and
// injected; tables are published by Init and released by Close.
type Registry struct {
	driver db.Driver
	root   string
	logger *zap.Logger

	mu     sync.RWMutex
	tables map[domain.Family]*Table
}

// NewRegistry creates a registry whose table paths are relative to root.
// Root is empty when the driver resolves paths itself.
func NewRegistry(driver db.Driver, root string, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{driver: driver, root: root, logger: logger}
}

// Init opens the store and then the engine of every family, in family
// order, stopping at the first failure. The failing error is returned as
// is; handles opened by this attempt are released and nothing is published.
// Init on an initialized registry fails with domain.ErrAlreadyInitialized.
func (r *Registry) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tables != nil {
		return domain.ErrAlreadyInitialized
	}

	opened := make([]*Table, 0, len(domain.Families))
	for _, f := range domain.Families {
		p := path.Join(r.root, f.Path())

		store, err := r.driver.OpenStore(ctx, p, db.StoreOptions{Encoding: db.EncodingJSON})
		if err != nil {
			r.release(opened, nil)
			return err
		}
		engine, err := r.driver.OpenEngine(ctx, store)
		if err != nil {
			r.release(opened, store)
			return err
		}
		opened = append(opened, &Table{Family: f, Path: p, Store: store, Engine: engine})
	}

	tables := make(map[domain.Family]*Table, len(opened))
	for _, t := range opened {
		tables[t.Family] = t
	}

	r.tables = tables
	r.logger.Info("Index tables opened", zap.Int("tables", len(tables)))
	return nil
}

// release closes the handles of a failed Init, best effort.
func (r *Registry) release(opened []*Table, orphan db.Store) {
	for _, t := range opened {
		if err := t.Engine.Close(); err != nil {
			r.logger.Warn("Failed to release table", zap.String("family", t.Family.String()), zap.Error(err))
		}
	}
	if orphan == nil {
		return
	}
	if err := orphan.Close(); err != nil {
		r.logger.Warn("Failed to release store", zap.String("path", orphan.Path()), zap.Error(err))
	}
}

// Close closes every table engine in family order, stopping at the first
// error, which is returned as is. Tables after the failing one stay open.
// On success the registry is emptied and may be initialized again.
func (r *Registry) Close(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range domain.Families {
		t, ok := r.tables[f]
		if !ok {
			continue
		}
		if err := t.Engine.Close(); err != nil {
			return err
		}
	}
	r.tables = nil
	r.logger.Info("Index tables closed")
	return nil
}

// Tables returns a copy of the table map.
func (r *Registry) Tables() map[domain.Family]*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[domain.Family]*Table, len(r.tables))
	for f, t := range r.tables {
		out[f] = t
	}
	return out
}

// Table returns the table of family, or ErrNoIndexForPath.
func (r *Registry) Table(f domain.Family) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[f]
	if !ok {
		return nil, domain.ErrNoIndexForPath
	}
	return t, nil
}

// Ping reports whether every table is open and its store reachable.
func (r *Registry) Ping(ctx context.Context) error {
	tables := r.Tables()
	if len(tables) == 0 {
		return domain.ErrNotInitialized
	}
	for _, f := range domain.Families {
		t, ok := tables[f]
		if !ok {
			return fmt.Errorf("table %s: %w", f, domain.ErrNotInitialized)
		}
		if err := t.Store.Ping(ctx); err != nil {
			return fmt.Errorf("table %s: %w", f, err)
		}
	}
	return nil
}

// Engine returns the search engine of family, or ErrNoIndexForPath.
func (r *Registry) Engine(f domain.Family) (db.Engine, error) {
	t, err := r.Table(f)
	if err != nil {
		return nil, err
	}
	return t.Engine, nil
}
