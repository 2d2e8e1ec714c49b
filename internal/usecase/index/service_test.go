package index

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/bizsearch/internal/db"
	"github.com/kailas-cloud/bizsearch/internal/db/embedded"
	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
	"github.com/kailas-cloud/bizsearch/internal/repository/table"
	"github.com/kailas-cloud/bizsearch/internal/usecase/transform"
)

// --- mocks ---

type mockEngines struct {
	engines map[domain.Family]db.Engine
	calls   []domain.Family
}

func (m *mockEngines) Engine(f domain.Family) (db.Engine, error) {
	m.calls = append(m.calls, f)
	e, ok := m.engines[f]
	if !ok {
		return nil, domain.ErrNoIndexForPath
	}
	return e, nil
}

type mockEngine struct {
	stagingEngine
	deleteFn func(keys ...string) error
	searchFn func(q *query.Query) ([]document.Hit, error)
}

func (m *mockEngine) Search(_ context.Context, q *query.Query) ([]document.Hit, error) {
	return m.searchFn(q)
}

func (m *mockEngine) Delete(_ context.Context, keys ...string) error { return m.deleteFn(keys...) }

func (m *mockEngine) Close() error { return nil }

type mockCatalog struct {
	missing domain.ID
}

func (m mockCatalog) Category(_ context.Context, id domain.ID) (domain.Category, error) {
	if m.missing != 0 && id == m.missing {
		return domain.Category{}, domain.ErrLookupFailed
	}
	return domain.Category{ID: id, Name: "testcat" + id.String()}, nil
}

func (mockCatalog) OfferingDetail(context.Context, string) (domain.OfferingDetail, error) {
	return domain.OfferingDetail{Name: "fetched"}, nil
}

// newIndexed wires a service over real embedded tables in a temp dir.
func newIndexed(t *testing.T) *Service {
	t.Helper()
	return newIndexedWith(t, mockCatalog{})
}

func newIndexedWith(t *testing.T, catalog mockCatalog) *Service {
	t.Helper()
	d, err := embedded.NewDriver(embedded.Config{Root: t.TempDir(), BatchSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	reg := table.NewRegistry(d, "", nil)
	if err := reg.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _ = reg.Close(context.Background()) })

	svc := New(reg, NewWriter(4))
	return svc.WithConverter(transform.New(svc, catalog))
}

func originalIDs(t *testing.T, hits []document.Hit) []domain.ID {
	t.Helper()
	out := make([]domain.ID, len(hits))
	for i, h := range hits {
		id, err := h.OriginalID()
		if err != nil {
			t.Fatal(err)
		}
		out[i] = id
	}
	return out
}

// --- tests ---

func TestRemove_UnknownFamily(t *testing.T) {
	engines := &mockEngines{}
	svc := New(engines, nil)

	err := svc.Remove(context.Background(), "widgets", "widget:1")
	if !errors.Is(err, domain.ErrNoIndexForPath) {
		t.Fatalf("expected ErrNoIndexForPath, got %v", err)
	}
	if err.Error() != "There is not a search index for the given path" {
		t.Errorf("message = %q", err.Error())
	}
	if len(engines.calls) != 0 {
		t.Errorf("engine must not be touched, got %v", engines.calls)
	}
}

func TestRemove_SingleKeyList(t *testing.T) {
	var got []string
	e := &mockEngine{deleteFn: func(keys ...string) error { got = keys; return nil }}
	svc := New(&mockEngines{engines: map[domain.Family]db.Engine{domain.FamilyOrders: e}}, nil)

	if err := svc.Remove(context.Background(), "orders", "order:9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"order:9"}) {
		t.Errorf("Delete keys = %v", got)
	}
}

func TestSave_WithoutConverter(t *testing.T) {
	svc := New(&mockEngines{}, nil)
	err := svc.SaveCatalogs(context.Background(), []domain.Catalog{{ID: 1}})
	if !errors.Is(err, domain.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestSave_UninitializedTables(t *testing.T) {
	svc := New(&mockEngines{}, nil).WithConverter(transform.New(nil, mockCatalog{}))
	err := svc.SaveOrders(context.Background(), []domain.Order{{ID: 1}})
	if !errors.Is(err, domain.ErrNoIndexForPath) {
		t.Fatalf("expected ErrNoIndexForPath, got %v", err)
	}
}

func TestSearch_WrapsEngineError(t *testing.T) {
	down := errors.New("down")
	e := &mockEngine{searchFn: func(*query.Query) ([]document.Hit, error) { return nil, down }}
	svc := New(&mockEngines{engines: map[domain.Family]db.Engine{domain.FamilyCatalogs: e}}, nil)

	if _, err := svc.Search(context.Background(), domain.FamilyCatalogs, &query.Query{}); !errors.Is(err, down) {
		t.Fatalf("expected wrapped engine error, got %v", err)
	}
}

func TestSaveOfferings_BundleOwnerEndToEnd(t *testing.T) {
	ctx := context.Background()
	svc := newIndexed(t)

	err := svc.SaveProducts(ctx, []domain.Product{
		{ID: 8, Name: "Rock", RelatedParty: []domain.RelatedParty{{ID: "rock-8"}}},
	})
	if err != nil {
		t.Fatalf("SaveProducts: %v", err)
	}
	err = svc.SaveOfferings(ctx, []domain.Offering{
		{ID: 31, Name: "Component", ProductSpecification: &domain.Ref{ID: 8}},
	}, nil)
	if err != nil {
		t.Fatalf("SaveOfferings component: %v", err)
	}
	err = svc.SaveOfferings(ctx, []domain.Offering{{
		ID:                     30,
		Name:                   "Bundle",
		IsBundle:               true,
		BundledProductOffering: []domain.Ref{{ID: 31}},
		Category:               []domain.Ref{{ID: 13}, {ID: 14}},
	}}, nil)
	if err != nil {
		t.Fatalf("SaveOfferings bundle: %v", err)
	}

	hits, err := svc.SearchOwned(ctx, domain.FamilyOfferings, "rock-8")
	if err != nil {
		t.Fatalf("SearchOwned: %v", err)
	}
	if got := originalIDs(t, hits); !reflect.DeepEqual(got, []domain.ID{30, 31}) {
		t.Errorf("owned offerings = %v, want [30 31]", got)
	}

	var bundle document.Offering
	if err := hits[0].Decode(&bundle); err != nil {
		t.Fatal(err)
	}
	wantNames := []string{domain.HashID("testcat13"), domain.HashID("testcat14")}
	if !reflect.DeepEqual(bundle.CategoriesName, wantNames) {
		t.Errorf("categoriesName = %v", bundle.CategoriesName)
	}
}

func TestSaveCatalogs_RemoveAndSearch(t *testing.T) {
	ctx := context.Background()
	svc := newIndexed(t)

	err := svc.SaveCatalogs(ctx, []domain.Catalog{
		{ID: 1, Name: "A", LifecycleStatus: "Launched"},
		{ID: 2, Name: "B", LifecycleStatus: "Retired"},
		{ID: 3, Name: "C", LifecycleStatus: "launched"},
	})
	if err != nil {
		t.Fatalf("SaveCatalogs: %v", err)
	}

	q, err := query.Parse([]byte(`{"query":[{"AND":{"lifecycleStatus":["LAUNCHED"]}}]}`))
	if err != nil {
		t.Fatal(err)
	}
	hits, err := svc.Search(ctx, domain.FamilyCatalogs, q)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := originalIDs(t, hits); !reflect.DeepEqual(got, []domain.ID{1, 3}) {
		t.Errorf("launched = %v, want [1 3]", got)
	}

	if err := svc.Remove(ctx, "catalogs", "catalog:1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	hits, err = svc.Search(ctx, domain.FamilyCatalogs, q)
	if err != nil {
		t.Fatal(err)
	}
	if got := originalIDs(t, hits); !reflect.DeepEqual(got, []domain.ID{3}) {
		t.Errorf("after remove = %v, want [3]", got)
	}
}

func TestSaveOfferings_FailedItemCommitsNothing(t *testing.T) {
	ctx := context.Background()
	svc := newIndexedWith(t, mockCatalog{missing: 99})
	owner := &domain.RelatedParty{ID: "owner-1"}

	items := []domain.Offering{
		{ID: 1, Name: "One", Category: []domain.Ref{{ID: 13}}},
		{ID: 2, Name: "Two", Category: []domain.Ref{{ID: 13}}},
		{ID: 3, Name: "Three", Category: []domain.Ref{{ID: 14}}},
		{ID: 4, Name: "Four", Category: []domain.Ref{{ID: 99}}},
	}
	if err := svc.SaveOfferings(ctx, items, owner); !errors.Is(err, domain.ErrLookupFailed) {
		t.Fatalf("expected ErrLookupFailed, got %v", err)
	}

	hits, err := svc.Search(ctx, domain.FamilyOfferings, (&query.Query{}).WithMatchAll())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("committed %v after a failed save, want none", originalIDs(t, hits))
	}
}
