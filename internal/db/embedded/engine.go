package embedded

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/kailas-cloud/bizsearch/internal/db"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
)

// Compile-time check: Engine implements db.Engine.
var _ db.Engine = (*Engine)(nil)

const (
	indexDir         = "search.bleve"
	metaFieldOpts    = "fieldOptions"
	descendingPrefix = "-"

	// bodyAnalyzer splits body text into lowercased words.
	bodyAnalyzer = "body_words"
)

// Engine indexes the documents of a Store with bleve. A write is staged in
// full and then committed: records go to the store in one transaction and
// into the index in batches of batchSize.
type Engine struct {
	store     *Store
	index     bleve.Index
	batchSize int

	mu   sync.RWMutex
	opts document.FieldOptions
}

func openEngine(s *Store, batchSize int) (*Engine, error) {
	path := filepath.Join(s.dir, indexDir)
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		var m *mapping.IndexMappingImpl
		if m, err = newMapping(); err == nil {
			idx, err = bleve.New(path, m)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", indexDir, err)
	}

	opts := document.FieldOptions{}
	if _, err := s.getMeta(metaFieldOpts, &opts); err != nil {
		_ = idx.Close()
		return nil, err
	}

	return &Engine{store: s, index: idx, batchSize: batchSize, opts: opts}, nil
}

// newMapping indexes every field as exact keyword terms, except body which
// is split into words. Values are not stored in bleve; the records live in
// the bbolt store.
func newMapping() (*mapping.IndexMappingImpl, error) {
	m := bleve.NewIndexMapping()
	err := m.AddCustomAnalyzer(bodyAnalyzer, map[string]any{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("add body analyzer: %w", err)
	}
	m.DefaultAnalyzer = keyword.Name
	m.StoreDynamic = false
	m.DocValuesDynamic = true

	body := bleve.NewTextFieldMapping()
	body.Analyzer = bodyAnalyzer
	body.Store = false
	body.IncludeInAll = false
	m.DefaultMapping.AddFieldMappingsAt(document.FieldBody, body)
	return m, nil
}

// Index stages documents from docs and commits all of them once docs is
// closed. A cancelled ctx returns without writing anything.
func (e *Engine) Index(ctx context.Context, opts document.FieldOptions, docs <-chan document.Document) error {
	var pending []document.Document
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case doc, ok := <-docs:
			if !ok {
				merged, err := e.rememberOptions(opts)
				if err != nil {
					return err
				}
				return e.commit(ctx, merged, pending)
			}
			pending = append(pending, doc)
		}
	}
}

func (e *Engine) rememberOptions(opts document.FieldOptions) (document.FieldOptions, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(opts) == 0 {
		return e.opts, nil
	}
	merged := e.opts.Merge(opts)
	if err := e.store.setMeta(metaFieldOpts, merged); err != nil {
		return nil, &db.Error{Op: db.OpIndex, Err: err}
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

	records := make([]record, len(docs))
	batches := make([]*bleve.Batch, 0, len(docs)/e.batchSize+1)
	var batch *bleve.Batch
	for i, doc := range docs {
		raw, err := json.Marshal(doc)
		if err != nil {
			return &db.Error{Op: db.OpIndex, Err: fmt.Errorf("encode %s: %w", doc.Key(), err)}
		}
		records[i] = record{key: doc.Key(), value: raw}
		if batch == nil || batch.Size() >= e.batchSize {
			batch = e.index.NewBatch()
			batches = append(batches, batch)
		}
		if err := batch.Index(doc.Key(), indexable(opts.Normalize(doc.IndexFields()))); err != nil {
			return &db.Error{Op: db.OpIndex, Err: fmt.Errorf("index %s: %w", doc.Key(), err)}
		}
	}

	if err := e.store.put(records); err != nil {
		return &db.Error{Op: db.OpCommit, Err: err}
	}
	for _, b := range batches {
		if err := e.index.Batch(b); err != nil {
			return &db.Error{Op: db.OpCommit, Err: err}
		}
	}
	return nil
}

func indexable(fields map[string][]string) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// Search runs q and loads the matching records in result order.
func (e *Engine) Search(ctx context.Context, q *query.Query) ([]document.Hit, error) {
	e.mu.RLock()
	opts := e.opts
	e.mu.RUnlock()

	req, err := e.request(q, opts)
	if err != nil {
		return nil, err
	}
	res, err := e.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	keys := make([]string, len(res.Hits))
	for i, h := range res.Hits {
		keys[i] = h.ID
	}
	records, err := e.store.load(keys)
	if err != nil {
		return nil, &db.Error{Op: db.OpLoad, Err: err}
	}

	hits := make([]document.Hit, len(records))
	for i, r := range records {
		hits[i] = document.Hit{Key: r.key, Document: r.value}
	}
	return hits, nil
}

func (e *Engine) request(q *query.Query, opts document.FieldOptions) (*bleve.SearchRequest, error) {
	from := 0
	if q.Offset != nil {
		from = *q.Offset
	}
	var size int
	if q.PageSize != nil {
		size = *q.PageSize
	} else {
		count, err := e.index.DocCount()
		if err != nil {
			return nil, &db.Error{Op: db.OpSearch, Err: err}
		}
		size = int(count)
	}

	req := bleve.NewSearchRequestOptions(translate(q, opts), size, from, false)

	field, desc := query.DefaultSortField, false
	if q.Sort != nil {
		if q.Sort.Field != "" {
			field = q.Sort.Field
		}
		desc = q.Sort.Direction == query.Desc
	}
	if desc {
		field = descendingPrefix + field
	}
	req.SortBy([]string{field})
	return req, nil
}

// Delete removes keys from the store and the index.
func (e *Engine) Delete(_ context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := e.store.delete(keys); err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	batch := e.index.NewBatch()
	for _, k := range keys {
		batch.Delete(k)
	}
	if err := e.index.Batch(batch); err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	return nil
}

// Close closes the bleve index and then the store.
func (e *Engine) Close() error {
	idxErr := e.index.Close()
	storeErr := e.store.Close()
	if idxErr != nil {
		return &db.Error{Op: db.OpClose, Err: idxErr}
	}
	return storeErr
}
