package index

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/bizsearch/internal/db"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
)

// DefaultBufferSize is the capacity of the channel between the producer
// and the engine.
const DefaultBufferSize = 64

// Emit hands one document to the engine, blocking while the buffer is full.
type Emit func(d document.Document) error

// Producer converts entities and emits their documents. Returning an error
// cancels the write and nothing is committed.
type Producer func(ctx context.Context, emit Emit) error

// Writer streams documents from a producer into an engine.
type Writer struct {
	bufferSize int
}

// NewWriter creates a Writer. A non-positive size selects DefaultBufferSize.
func NewWriter(bufferSize int) *Writer {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Writer{bufferSize: bufferSize}
}

// Write runs produce and engine.Index concurrently over a bounded channel
// and returns the first error of either side.
func (w *Writer) Write(ctx context.Context, engine db.Indexer, opts document.FieldOptions, produce Producer) error {
	docs := make(chan document.Document, w.bufferSize)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		emit := func(d document.Document) error {
			select {
			case docs <- d:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		if err := produce(gctx, emit); err != nil {
			// docs stays open: the engine must see the cancellation,
			// not a clean end of input.
			return err
		}
		close(docs)
		return nil
	})

	g.Go(func() error {
		return engine.Index(gctx, opts, docs)
	})

	return g.Wait()
}
