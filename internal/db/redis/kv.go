package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/bizsearch/internal/db"
)

// kvPath names the store used for plain key-value access.
const kvPath = "kv"

// NewKVStore connects a store used only for Get, Set and Del. Keys are
// used as given, without the table prefix.
func NewKVStore(ctx context.Context, cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	client, err := rueidis.NewClient(cfg.clientOption())
	if err != nil {
		return nil, &db.Error{Op: db.OpOpenStore, Err: fmt.Errorf("failed to create client: %w", err)}
	}
	s := newStore(client, kvPath, cfg.KeyPrefix)
	if err := s.Ping(ctx); err != nil {
		client.Close()
		return nil, &db.Error{Op: db.OpOpenStore, Err: err}
	}
	return s, nil
}

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// Set stores a value at the given key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.b().Set().Key(key).Value(string(value)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// Del deletes keys.
func (s *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	cmd := s.b().Del().Key(keys...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}
