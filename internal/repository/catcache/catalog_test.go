package catcache

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/bizsearch/internal/domain"
)

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
}

func TestCategory_LocalHit(t *testing.T) {
	inner := &mockCatalog{}
	counter := newCounter()
	c := New(inner, Config{}, nil, counter, nil)
	ctx := context.Background()

	for range 3 {
		got, err := c.Category(ctx, 13)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "testcat13" {
			t.Fatalf("name = %q", got.Name)
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if hits := testutil.ToFloat64(counter.WithLabelValues("hit")); hits != 2 {
		t.Errorf("hits = %v, want 2", hits)
	}
}

func TestCategory_StoreHit(t *testing.T) {
	inner := &mockCatalog{}
	ms := &mockKVStore{
		getFn: func(_ context.Context, key string) ([]byte, error) {
			if key != "bizsearch:category:14" {
				t.Errorf("key = %q", key)
			}
			return []byte(`{"id":14,"name":"shared"}`), nil
		},
	}
	c := New(inner, Config{}, ms, nil, nil)

	got, err := c.Category(context.Background(), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "shared" || inner.calls != 0 {
		t.Errorf("got %+v with %d inner calls", got, inner.calls)
	}
}

func TestCategory_MissWritesStore(t *testing.T) {
	var stored []byte
	ms := &mockKVStore{
		setFn: func(_ context.Context, _ string, value []byte) error {
			stored = value
			return nil
		},
	}
	c := New(&mockCatalog{}, Config{}, ms, nil, nil)

	if _, err := c.Category(context.Background(), 13); err != nil {
		t.Fatal(err)
	}
	if string(stored) != `{"id":13,"name":"testcat13"}` {
		t.Errorf("stored %s", stored)
	}
}

func TestCategory_StoreFailureFallsThrough(t *testing.T) {
	ms := &mockKVStore{
		getFn: func(context.Context, string) ([]byte, error) { return nil, errors.New("down") },
		setFn: func(context.Context, string, []byte) error { return errors.New("down") },
	}
	inner := &mockCatalog{}
	c := New(inner, Config{Size: -1}, ms, nil, nil)

	if _, err := c.Category(context.Background(), 13); err != nil {
		t.Fatalf("store failures must not fail the lookup: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d", inner.calls)
	}
}

func TestCategory_Disabled(t *testing.T) {
	inner := &mockCatalog{}
	c := New(inner, Config{Size: -1}, nil, nil, nil)
	for range 2 {
		if _, err := c.Category(context.Background(), 13); err != nil {
			t.Fatal(err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("expected no caching, inner calls = %d", inner.calls)
	}
}

func TestCategory_InnerErrorNotCached(t *testing.T) {
	inner := &mockCatalog{err: domain.NewLookupError("u", 500)}
	c := New(inner, Config{}, nil, nil, nil)

	if _, err := c.Category(context.Background(), 13); !errors.Is(err, domain.ErrLookupFailed) {
		t.Fatalf("expected ErrLookupFailed, got %v", err)
	}
	inner.err = nil
	if _, err := c.Category(context.Background(), 13); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("failed lookup was cached")
	}
}
