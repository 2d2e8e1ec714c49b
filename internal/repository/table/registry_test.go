package table

import (
	"context"
	"errors"
	"path"
	"reflect"
	"testing"

	"github.com/kailas-cloud/bizsearch/internal/domain"
)

func TestInit_OpensInFamilyOrder(t *testing.T) {
	d := &mockDriver{}
	r := NewRegistry(d, "", nil)

	if err := r.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	want := []string{
		"store:offerings", "engine:offerings",
		"store:products", "engine:products",
		"store:catalogs", "engine:catalogs",
		"store:inventory", "engine:inventory",
		"store:orders", "engine:orders",
	}
	if !reflect.DeepEqual(d.calls, want) {
		t.Errorf("calls = %v\nwant %v", d.calls, want)
	}

	tables := r.Tables()
	if len(tables) != len(domain.Families) {
		t.Fatalf("tables = %d, want %d", len(tables), len(domain.Families))
	}
	if tables[domain.FamilyOrders].Path != "indexes/orders" {
		t.Errorf("orders path = %q", tables[domain.FamilyOrders].Path)
	}
}

func TestInit_StoreFailureHalts(t *testing.T) {
	for k, failing := range domain.Families {
		t.Run(string(failing), func(t *testing.T) {
			boom := errors.New("store boom")
			d := &mockDriver{openStoreFn: func(p string) error {
				if path.Base(p) == string(failing) {
					return boom
				}
				return nil
			}}
			r := NewRegistry(d, "", nil)

			err := r.Init(context.Background())
			if err != boom {
				t.Fatalf("Init error = %v, want the store error verbatim", err)
			}

			engines, failingEngine, stores := 0, 0, 0
			for _, c := range d.calls {
				switch {
				case c == "engine:"+string(failing):
					failingEngine++
				case len(c) > 7 && c[:7] == "engine:":
					engines++
				case len(c) > 6 && c[:6] == "store:":
					stores++
				}
			}
			if engines != k {
				t.Errorf("engine opens = %d, want %d", engines, k)
			}
			if failingEngine != 0 {
				t.Error("engine opened for the failing family")
			}
			if stores != k+1 {
				t.Errorf("store opens = %d, want %d", stores, k+1)
			}
			if len(r.Tables()) != 0 {
				t.Error("tables published after a failed init")
			}
		})
	}
}

func TestInit_EngineFailureReleasesHandles(t *testing.T) {
	boom := errors.New("engine boom")
	d := &mockDriver{openEngineFn: func(p string) error {
		if path.Base(p) == "catalogs" {
			return boom
		}
		return nil
	}}
	r := NewRegistry(d, "", nil)

	if err := r.Init(context.Background()); err != boom {
		t.Fatalf("Init error = %v, want the engine error verbatim", err)
	}

	want := []string{
		"store:offerings", "engine:offerings",
		"store:products", "engine:products",
		"store:catalogs", "engine:catalogs",
		"close:offerings", "close:products", "close-store:catalogs",
	}
	if !reflect.DeepEqual(d.calls, want) {
		t.Errorf("calls = %v\nwant %v", d.calls, want)
	}
	if _, err := r.Table(domain.FamilyOfferings); !errors.Is(err, domain.ErrNoIndexForPath) {
		t.Errorf("Table() after failed init = %v", err)
	}
}

func TestInit_Twice(t *testing.T) {
	d := &mockDriver{}
	r := NewRegistry(d, "", nil)
	if err := r.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := r.Tables()
	d.calls = nil

	if err := r.Init(context.Background()); !errors.Is(err, domain.ErrAlreadyInitialized) {
		t.Fatalf("second Init error = %v, want ErrAlreadyInitialized", err)
	}
	if len(d.calls) != 0 {
		t.Errorf("second Init opened handles: %v", d.calls)
	}
	after := r.Tables()
	for f, tbl := range before {
		if after[f] != tbl {
			t.Errorf("table %s replaced by second Init", f)
		}
	}
}

func TestClose_Sequential(t *testing.T) {
	d := &mockDriver{}
	r := NewRegistry(d, "", nil)
	if err := r.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	d.calls = nil

	if err := r.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := []string{"close:offerings", "close:products", "close:catalogs", "close:inventory", "close:orders"}
	if !reflect.DeepEqual(d.calls, want) {
		t.Errorf("calls = %v\nwant %v", d.calls, want)
	}
	if len(r.Tables()) != 0 {
		t.Error("tables still published after close")
	}

	// A closed registry can be initialized again.
	if err := r.Init(context.Background()); err != nil {
		t.Fatalf("re-Init: %v", err)
	}
}

func TestClose_HaltsOnFirstError(t *testing.T) {
	boom := errors.New("close boom")
	d := &mockDriver{closeFn: func(p string) error {
		if path.Base(p) == "products" {
			return boom
		}
		return nil
	}}
	r := NewRegistry(d, "", nil)
	if err := r.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	d.calls = nil

	if err := r.Close(context.Background()); err != boom {
		t.Fatalf("Close error = %v, want the close error verbatim", err)
	}
	want := []string{"close:offerings", "close:products"}
	if !reflect.DeepEqual(d.calls, want) {
		t.Errorf("calls = %v\nwant %v", d.calls, want)
	}
	if len(r.Tables()) != len(domain.Families) {
		t.Error("tables must stay published after a failed close")
	}
}

func TestTable_Unknown(t *testing.T) {
	r := NewRegistry(&mockDriver{}, "", nil)
	if err := r.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Table(domain.Family("widgets")); !errors.Is(err, domain.ErrNoIndexForPath) {
		t.Errorf("Table() error = %v, want ErrNoIndexForPath", err)
	}
	tbl, err := r.Table(domain.FamilyCatalogs)
	if err != nil || tbl.Family != domain.FamilyCatalogs {
		t.Errorf("Table(catalogs) = %+v, %v", tbl, err)
	}
	if _, err := r.Engine(domain.Family("widgets")); !errors.Is(err, domain.ErrNoIndexForPath) {
		t.Errorf("Engine() error = %v, want ErrNoIndexForPath", err)
	}
	if e, err := r.Engine(domain.FamilyCatalogs); err != nil || e != tbl.Engine {
		t.Errorf("Engine(catalogs) = %v, %v", e, err)
	}
}

func TestTables_ReturnsCopy(t *testing.T) {
	r := NewRegistry(&mockDriver{}, "", nil)
	if err := r.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	tables := r.Tables()
	delete(tables, domain.FamilyOrders)
	if _, err := r.Table(domain.FamilyOrders); err != nil {
		t.Error("mutating the returned map changed the registry")
	}
}

func TestPing(t *testing.T) {
	r := NewRegistry(&mockDriver{}, "", nil)
	if err := r.Ping(context.Background()); !errors.Is(err, domain.ErrNotInitialized) {
		t.Errorf("Ping before init = %v, want ErrNotInitialized", err)
	}
	if err := r.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := r.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}

	tbl, _ := r.Table(domain.FamilyInventory)
	down := errors.New("down")
	tbl.Store.(*mockStore).pingFn = func() error { return down }
	if err := r.Ping(context.Background()); !errors.Is(err, down) {
		t.Errorf("Ping = %v, want %v", err, down)
	}
}
