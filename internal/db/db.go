package db

import (
	"context"

	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
)

// Encoding selects how a store serializes document values.
type Encoding string

// EncodingJSON stores documents as structured JSON records.
const EncodingJSON Encoding = "json"

// StoreOptions configures a store when it is opened.
type StoreOptions struct {
	Encoding Encoding
}

// Driver opens the store and engine pair of an index table.
type Driver interface {
	// OpenStore opens the persistent document store at path.
	OpenStore(ctx context.Context, path string, opts StoreOptions) (Store, error)
	// OpenEngine opens a search engine bound to store.
	OpenEngine(ctx context.Context, store Store) (Engine, error)
}

// Store is a persistent ordered key-value store of documents.
type Store interface {
	Pinger
	Path() string
	Close() error
}

// Pinger checks backend availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Engine is an inverted-index search engine bound to a store.
type Engine interface {
	Indexer
	Searcher
	Deleter
	// Close releases the engine and the store it is bound to.
	Close() error
}

// Indexer stages the documents read from docs and commits them together
// once docs is closed. A cancelled ctx discards the staged documents and
// nothing is written.
type Indexer interface {
	Index(ctx context.Context, opts document.FieldOptions, docs <-chan document.Document) error
}

// Searcher runs a query against the index.
type Searcher interface {
	Search(ctx context.Context, q *query.Query) ([]document.Hit, error)
}

// Deleter removes documents by key.
type Deleter interface {
	Delete(ctx context.Context, keys ...string) error
}
