package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/bizsearch/internal/db"
)

// jsonSetItem holds a single key+data pair for pipelined JSON.SET.
type jsonSetItem struct {
	Key  string
	Data []byte
}

// jsonSetMulti stores multiple documents at their root in a single DoMulti round-trip.
func (s *Store) jsonSetMulti(ctx context.Context, items []jsonSetItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, len(items))
	for i, item := range items {
		cmds[i] = s.b().Arbitrary("JSON.SET").Keys(item.Key).Args("$", string(item.Data)).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpJSONSet, Err: fmt.Errorf("key %s: %w", items[i].Key, err)}
		}
	}
	return nil
}
