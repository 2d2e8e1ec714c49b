package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/kailas-cloud/bizsearch/internal/db"
	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
)

// Compile-time check: Engine implements db.Engine.
var _ db.Engine = (*Engine)(nil)

const metaFieldOpts = "fieldOptions"

// stored is the JSON record of a document: the document itself and the
// normalized values the FT index reads.
type stored struct {
	Doc json.RawMessage     `json:"doc"`
	Idx map[string][]string `json:"idx"`
}

// Engine searches a table through its FT index.
type Engine struct {
	store *Store

	mu   sync.RWMutex
	opts document.FieldOptions
}

func openEngine(ctx context.Context, s *Store) (*Engine, error) {
	family, err := domain.ParseFamily(path.Base(s.path))
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", s.path, err)
	}

	if err := s.ensureIndex(ctx, family); err != nil {
		return nil, err
	}

	opts := document.FieldOptions{}
	raw, err := s.Get(ctx, s.metaKey(metaFieldOpts))
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(raw, &opts); err != nil {
			return nil, fmt.Errorf("decode field options: %w", err)
		}
	}

	return &Engine{store: s, opts: opts}, nil
}

// Index stages documents from docs and writes all of them in one pipeline
// once docs is closed. A cancelled ctx returns without writing anything.
func (e *Engine) Index(ctx context.Context, opts document.FieldOptions, docs <-chan document.Document) error {
	var pending []document.Document
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case doc, ok := <-docs:
			if !ok {
				merged, err := e.rememberOptions(ctx, opts)
				if err != nil {
					return err
				}
				return e.commit(ctx, merged, pending)
			}
			pending = append(pending, doc)
		}
	}
}

func (e *Engine) rememberOptions(ctx context.Context, opts document.FieldOptions) (document.FieldOptions, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(opts) == 0 {
		return e.opts, nil
	}
	merged := e.opts.Merge(opts)
	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encode field options: %w", err)
	}
	if err := e.store.Set(ctx, e.store.metaKey(metaFieldOpts), raw); err != nil {
		return nil, err
	}
	e.opts = merged
	return merged, nil
}

func (e *Engine) commit(ctx context.Context, opts document.FieldOptions, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	items := make([]jsonSetItem, len(docs))
	for i, doc := range docs {
		raw, err := json.Marshal(doc)
		if err != nil {
			return &db.Error{Op: db.OpIndex, Err: fmt.Errorf("encode %s: %w", doc.Key(), err)}
		}
		data, err := json.Marshal(stored{Doc: raw, Idx: opts.Normalize(doc.IndexFields())})
		if err != nil {
			return &db.Error{Op: db.OpIndex, Err: fmt.Errorf("encode %s: %w", doc.Key(), err)}
		}
		items[i] = jsonSetItem{Key: e.store.docKey(doc.Key()), Data: data}
	}
	return e.store.jsonSetMulti(ctx, items)
}

// Search runs q through FT.SEARCH and returns the stored documents in order.
func (e *Engine) Search(ctx context.Context, q *query.Query) ([]document.Hit, error) {
	e.mu.RLock()
	opts := e.opts
	e.mu.RUnlock()

	qs, ok := buildQuery(q, opts)
	if !ok {
		return []document.Hit{}, nil
	}

	sort := query.Sort{Field: query.DefaultSortField, Direction: query.Asc}
	if q.Sort != nil {
		if q.Sort.Field != "" {
			sort.Field = q.Sort.Field
		}
		if q.Sort.Direction != "" {
			sort.Direction = q.Sort.Direction
		}
	}
	offset, limit := 0, maxResults
	if q.Offset != nil {
		offset = *q.Offset
	}
	if q.PageSize != nil {
		limit = *q.PageSize
	}

	res, err := e.store.searchList(ctx, qs, sort, offset, limit)
	if err != nil {
		return nil, err
	}

	hits := make([]document.Hit, 0, len(res.Entries))
	prefix := e.store.docPrefix()
	for _, entry := range res.Entries {
		raw, ok := entry.Fields[docField]
		if !ok {
			continue
		}
		hits = append(hits, document.Hit{
			Key:      strings.TrimPrefix(entry.Key, prefix),
			Document: unwrapDoc(raw),
		})
	}
	return hits, nil
}

// unwrapDoc strips the array some dialects wrap JSONPath results in.
func unwrapDoc(raw string) json.RawMessage {
	if !strings.HasPrefix(raw, "[") {
		return json.RawMessage(raw)
	}
	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &arr); err != nil || len(arr) == 0 {
		return json.RawMessage(raw)
	}
	return arr[0]
}

// Delete removes documents by key.
func (e *Engine) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = e.store.docKey(k)
	}
	return e.store.Del(ctx, full...)
}

// Close releases the store's client.
func (e *Engine) Close() error {
	return e.store.Close()
}
