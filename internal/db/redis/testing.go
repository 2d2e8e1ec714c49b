package redis

import "github.com/redis/rueidis"

// NewStoreForTest creates a Store with an injected client (for unit tests).
func NewStoreForTest(c rueidis.Client, path, prefix string) *Store {
	return newStore(c, path, prefix)
}

// NewDriverForTest creates a Driver whose stores all use c (for unit tests).
func NewDriverForTest(c rueidis.Client, cfg Config) *Driver {
	return &Driver{
		cfg:       cfg,
		newClient: func(rueidis.ClientOption) (rueidis.Client, error) { return c, nil },
	}
}
