package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/bizsearch/internal/db"
)

// Compile-time check: Driver implements db.Driver.
var _ db.Driver = (*Driver)(nil)

// Driver opens one rueidis client per table store and binds an FT index
// to it.
type Driver struct {
	cfg       Config
	newClient func(rueidis.ClientOption) (rueidis.Client, error)
}

// NewDriver creates a Redis driver.
func NewDriver(cfg Config) (*Driver, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	return &Driver{cfg: cfg, newClient: rueidis.NewClient}, nil
}

// OpenStore connects a client for the table at path.
func (d *Driver) OpenStore(ctx context.Context, path string, opts db.StoreOptions) (db.Store, error) {
	if opts.Encoding != "" && opts.Encoding != db.EncodingJSON {
		return nil, &db.Error{Op: db.OpOpenStore, Err: fmt.Errorf("unsupported encoding %q", opts.Encoding)}
	}
	client, err := d.newClient(d.cfg.clientOption())
	if err != nil {
		return nil, &db.Error{Op: db.OpOpenStore, Err: fmt.Errorf("failed to create client: %w", err)}
	}
	s := newStore(client, path, d.cfg.KeyPrefix)
	if err := s.Ping(ctx); err != nil {
		client.Close()
		return nil, &db.Error{Op: db.OpOpenStore, Err: err}
	}
	return s, nil
}

// OpenEngine ensures the FT index of store exists and loads its field options.
func (d *Driver) OpenEngine(ctx context.Context, store db.Store) (db.Engine, error) {
	s, ok := store.(*Store)
	if !ok {
		return nil, &db.Error{Op: db.OpOpenEngine, Err: db.ErrWrongStore}
	}
	e, err := openEngine(ctx, s)
	if err != nil {
		return nil, &db.Error{Op: db.OpOpenEngine, Err: err}
	}
	return e, nil
}
