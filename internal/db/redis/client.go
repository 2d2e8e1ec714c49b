package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/bizsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a Redis store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	// KeyPrefix namespaces every key and index, e.g. "bizsearch:".
	KeyPrefix string
}

func (c Config) clientOption() rueidis.ClientOption {
	return rueidis.ClientOption{
		InitAddress:  c.Addrs,
		Username:     c.Username,
		Password:     c.Password,
		SelectDB:     c.DB,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH result parsing expects RESP2 array format
	}
}

// Store is the document store of one table, kept as RedisJSON documents
// under "<prefix><path>:doc:".
type Store struct {
	client rueidis.Client
	path   string
	prefix string
}

func newStore(client rueidis.Client, path, prefix string) *Store {
	return &Store{client: client, path: path, prefix: prefix}
}

// Path returns the table path.
func (s *Store) Path() string { return s.path }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() error {
	s.client.Close()
	return nil
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// indexName is the FT index of the table.
func (s *Store) indexName() string { return s.prefix + s.path }

// docPrefix is the key prefix of the table's documents.
func (s *Store) docPrefix() string { return s.prefix + s.path + ":doc:" }

func (s *Store) docKey(key string) string { return s.docPrefix() + key }

func (s *Store) metaKey(name string) string { return s.prefix + s.path + ":meta:" + name }

// isRedisErr checks if err is a Redis server error containing substr (case-insensitive).
func isRedisErr(err error, substr string) bool {
	re, ok := rueidis.IsRedisErr(err)
	if !ok {
		return false
	}
	return containsIgnoreCase(re.Error(), substr)
}

func containsIgnoreCase(s, substr string) bool {
	ls := len(s)
	lsub := len(substr)
	if lsub > ls {
		return false
	}
	for i := 0; i <= ls-lsub; i++ {
		match := true
		for j := 0; j < lsub; j++ {
			sc := s[i+j]
			tc := substr[j]
			if sc >= 'A' && sc <= 'Z' {
				sc += 'a' - 'A'
			}
			if tc >= 'A' && tc <= 'Z' {
				tc += 'a' - 'A'
			}
			if sc != tc {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
