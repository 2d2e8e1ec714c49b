package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/bizsearch/internal/usecase/index"
)

// Applier applies change notifications to the index tables.
type Applier interface {
	Apply(ctx context.Context, c index.Change) error
}

// NewChangeHandler decodes change notifications and applies them.
func NewChangeHandler(a Applier) MessageHandler {
	return func(ctx context.Context, _, value []byte) error {
		var c index.Change
		if err := json.Unmarshal(value, &c); err != nil {
			return fmt.Errorf("decode change: %w", err)
		}
		return a.Apply(ctx, c)
	}
}
