package catcache

import (
	"context"

	"github.com/kailas-cloud/bizsearch/internal/db"
	"github.com/kailas-cloud/bizsearch/internal/domain"
)

type mockCatalog struct {
	calls int
	err   error
}

func (m *mockCatalog) Category(_ context.Context, id domain.ID) (domain.Category, error) {
	m.calls++
	if m.err != nil {
		return domain.Category{}, m.err
	}
	return domain.Category{ID: id, Name: "testcat" + id.String()}, nil
}

func (m *mockCatalog) OfferingDetail(context.Context, string) (domain.OfferingDetail, error) {
	return domain.OfferingDetail{Name: "detail"}, nil
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}
