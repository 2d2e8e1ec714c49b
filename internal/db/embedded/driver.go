// Package embedded implements the index tables on local disk: documents are
// kept in a bbolt file and indexed by a bleve index next to it.
package embedded

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/bizsearch/internal/db"
)

// Compile-time check: Driver implements db.Driver.
var _ db.Driver = (*Driver)(nil)

// DefaultBatchSize is the number of documents committed per batch.
const DefaultBatchSize = 100

// Config holds the embedded driver settings.
type Config struct {
	// Root is the directory holding every table directory.
	Root string
	// BatchSize is the number of documents per commit.
	BatchSize int
}

// Driver opens bbolt stores and bleve engines under a root directory.
type Driver struct {
	root      string
	batchSize int
}

// NewDriver creates an embedded driver.
func NewDriver(cfg Config) (*Driver, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("root directory is required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Driver{root: cfg.Root, batchSize: cfg.BatchSize}, nil
}

// OpenStore opens (or creates) the bbolt store of a table.
func (d *Driver) OpenStore(ctx context.Context, path string, opts db.StoreOptions) (db.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Encoding != "" && opts.Encoding != db.EncodingJSON {
		return nil, &db.Error{Op: db.OpOpenStore, Err: fmt.Errorf("unsupported encoding %q", opts.Encoding)}
	}

	dir := filepath.Join(d.root, filepath.FromSlash(path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &db.Error{Op: db.OpOpenStore, Err: err}
	}
	s, err := openStore(path, dir)
	if err != nil {
		return nil, &db.Error{Op: db.OpOpenStore, Err: err}
	}
	return s, nil
}

// OpenEngine opens (or creates) the bleve index bound to store.
func (d *Driver) OpenEngine(ctx context.Context, store db.Store) (db.Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, ok := store.(*Store)
	if !ok {
		return nil, &db.Error{Op: db.OpOpenEngine, Err: db.ErrWrongStore}
	}
	e, err := openEngine(s, d.batchSize)
	if err != nil {
		return nil, &db.Error{Op: db.OpOpenEngine, Err: err}
	}
	return e, nil
}
