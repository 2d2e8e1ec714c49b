package embedded

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/kailas-cloud/bizsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

var (
	bucketDocuments = []byte("documents")
	bucketMeta      = []byte("meta")
)

const storeFile = "docs.db"

// Store keeps the JSON records of a table in a bbolt file.
type Store struct {
	path string
	dir  string

	mu     sync.RWMutex
	bolt   *bolt.DB
	closed bool
}

type record struct {
	key   string
	value []byte
}

func openStore(path, dir string) (*Store, error) {
	bdb, err := bolt.Open(filepath.Join(dir, storeFile), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", storeFile, err)
	}
	err = bdb.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketDocuments, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}
	return &Store{path: path, dir: dir, bolt: bdb}, nil
}

// Path returns the table path the store was opened at.
func (s *Store) Path() string { return s.path }

// Ping checks the store is open.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return db.ErrClosed
	}
	return s.bolt.View(func(*bolt.Tx) error { return nil })
}

// Close closes the bbolt file. Closing twice is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.bolt.Close(); err != nil {
		return &db.Error{Op: db.OpClose, Err: err}
	}
	return nil
}

func (s *Store) put(records []record) error {
	return s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		for _, r := range records {
			if err := b.Put([]byte(r.key), r.value); err != nil {
				return fmt.Errorf("put %s: %w", r.key, err)
			}
		}
		return nil
	})
}

func (s *Store) delete(keys []string) error {
	return s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return fmt.Errorf("delete %s: %w", k, err)
			}
		}
		return nil
	})
}

// load returns the records of keys in order. Keys missing from the store
// are skipped.
func (s *Store) load(keys []string) ([]record, error) {
	out := make([]record, 0, len(keys))
	err := s.view(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		for _, k := range keys {
			v := b.Get([]byte(k))
			if v == nil {
				continue
			}
			// bbolt values are only valid inside the transaction.
			out = append(out, record{key: k, value: append([]byte(nil), v...)})
		}
		return nil
	})
	return out, err
}

func (s *Store) getMeta(key string, v any) (bool, error) {
	var raw []byte
	err := s.view(func(tx *bolt.Tx) error {
		if data := tx.Bucket(bucketMeta).Get([]byte(key)); data != nil {
			raw = append([]byte(nil), data...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode meta %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) setMeta(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode meta %s: %w", key, err)
	}
	return s.update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Put([]byte(key), raw)
	})
}

func (s *Store) view(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return db.ErrClosed
	}
	return s.bolt.View(fn)
}

func (s *Store) update(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return db.ErrClosed
	}
	return s.bolt.Update(fn)
}
