package bizsearch

import (
	"context"

	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
	healthuc "github.com/kailas-cloud/bizsearch/internal/usecase/health"
)

// --- indexUseCase mock ---

type mockIndexUC struct {
	saveCatalogsFn  func(ctx context.Context, items []Catalog) error
	saveOfferingsFn func(ctx context.Context, items []Offering, owner *RelatedParty) error
	removeFn        func(ctx context.Context, family, key string) error
	searchFn        func(ctx context.Context, f Family, q *query.Query) ([]document.Hit, error)
	searchOwnedFn   func(ctx context.Context, f Family, ownerID string) ([]document.Hit, error)
}

func (m *mockIndexUC) SaveCatalogs(ctx context.Context, items []Catalog) error {
	return m.saveCatalogsFn(ctx, items)
}

func (m *mockIndexUC) SaveProducts(context.Context, []Product) error { return nil }

func (m *mockIndexUC) SaveOfferings(ctx context.Context, items []Offering, owner *RelatedParty) error {
	return m.saveOfferingsFn(ctx, items, owner)
}

func (m *mockIndexUC) SaveInventory(context.Context, []InventoryItem) error { return nil }

func (m *mockIndexUC) SaveOrders(context.Context, []Order) error { return nil }

func (m *mockIndexUC) Remove(ctx context.Context, family, key string) error {
	return m.removeFn(ctx, family, key)
}

func (m *mockIndexUC) Search(ctx context.Context, f Family, q *query.Query) ([]document.Hit, error) {
	return m.searchFn(ctx, f, q)
}

func (m *mockIndexUC) SearchOwned(ctx context.Context, f Family, ownerID string) ([]document.Hit, error) {
	return m.searchOwnedFn(ctx, f, ownerID)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- CatalogClient mock ---

type mockCatalog struct {
	categoryFn func(ctx context.Context, id ID) (Category, error)
	healthErr  error
}

func (m *mockCatalog) Category(ctx context.Context, id ID) (Category, error) {
	return m.categoryFn(ctx, id)
}

func (m *mockCatalog) OfferingDetail(context.Context, string) (OfferingDetail, error) {
	return OfferingDetail{}, nil
}

func (m *mockCatalog) HealthCheck(context.Context) error { return m.healthErr }
