package table

import (
	"context"
	"path"
	"sync"

	"github.com/kailas-cloud/bizsearch/internal/db"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
)

// mockDriver records every call in order and fails on demand.
type mockDriver struct {
	mu    sync.Mutex
	calls []string

	openStoreFn  func(path string) error
	openEngineFn func(path string) error
	closeFn      func(path string) error
	closed       []string
}

func (d *mockDriver) record(call string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, call)
}

func (d *mockDriver) OpenStore(_ context.Context, p string, opts db.StoreOptions) (db.Store, error) {
	d.record("store:" + path.Base(p))
	if opts.Encoding != db.EncodingJSON {
		panic("store opened without JSON encoding")
	}
	if d.openStoreFn != nil {
		if err := d.openStoreFn(p); err != nil {
			return nil, err
		}
	}
	return &mockStore{driver: d, path: p}, nil
}

func (d *mockDriver) OpenEngine(_ context.Context, s db.Store) (db.Engine, error) {
	d.record("engine:" + path.Base(s.Path()))
	if d.openEngineFn != nil {
		if err := d.openEngineFn(s.Path()); err != nil {
			return nil, err
		}
	}
	return &mockEngine{driver: d, path: s.Path()}, nil
}

type mockStore struct {
	driver *mockDriver
	path   string
	pingFn func() error
}

func (s *mockStore) Ping(context.Context) error {
	if s.pingFn != nil {
		return s.pingFn()
	}
	return nil
}

func (s *mockStore) Path() string { return s.path }

func (s *mockStore) Close() error {
	s.driver.record("close-store:" + path.Base(s.path))
	return nil
}

type mockEngine struct {
	driver *mockDriver
	path   string
}

func (e *mockEngine) Index(context.Context, document.FieldOptions, <-chan document.Document) error {
	return nil
}

func (e *mockEngine) Search(context.Context, *query.Query) ([]document.Hit, error) {
	return nil, nil
}

func (e *mockEngine) Delete(context.Context, ...string) error { return nil }

func (e *mockEngine) Close() error {
	e.driver.record("close:" + path.Base(e.path))
	if e.driver.closeFn != nil {
		return e.driver.closeFn(e.path)
	}
	return nil
}
