package index

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
)

func TestApply_SaveAndRemove(t *testing.T) {
	ctx := context.Background()
	svc := newIndexed(t)

	save := Change{
		Action: ActionSave,
		Family: "catalogs",
		Items:  json.RawMessage(`[{"id":"1","name":"A"},{"id":2,"name":"B"}]`),
	}
	if err := svc.Apply(ctx, save); err != nil {
		t.Fatalf("Apply save: %v", err)
	}
	single := Change{Action: ActionSave, Family: "orders", Items: json.RawMessage(`{"id":9,"state":"acknowledged"}`)}
	if err := svc.Apply(ctx, single); err != nil {
		t.Fatalf("Apply single: %v", err)
	}

	if err := svc.Apply(ctx, Change{Action: ActionRemove, Family: "catalogs", Key: "catalog:1"}); err != nil {
		t.Fatalf("Apply remove: %v", err)
	}

	hits, err := svc.Search(ctx, domain.FamilyCatalogs, &query.Query{})
	if err != nil {
		t.Fatal(err)
	}
	if got := originalIDs(t, hits); !reflect.DeepEqual(got, []domain.ID{2}) {
		t.Errorf("catalogs = %v, want [2]", got)
	}
	hits, err = svc.Search(ctx, domain.FamilyOrders, &query.Query{})
	if err != nil {
		t.Fatal(err)
	}
	if got := originalIDs(t, hits); !reflect.DeepEqual(got, []domain.ID{9}) {
		t.Errorf("orders = %v, want [9]", got)
	}
}

func TestApply_Errors(t *testing.T) {
	svc := New(&mockEngines{}, nil)
	tests := []struct {
		name   string
		change Change
		want   error
	}{
		{"unknown family", Change{Action: ActionSave, Family: "widgets", Items: json.RawMessage(`[]`)}, domain.ErrNoIndexForPath},
		{"unknown action", Change{Action: "merge", Family: "orders"}, domain.ErrInvalidEntity},
		{"missing items", Change{Action: ActionSave, Family: "orders"}, domain.ErrInvalidEntity},
		{"bad items", Change{Action: ActionSave, Family: "orders", Items: json.RawMessage(`[{"id":"x"}]`)}, domain.ErrInvalidEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Apply(context.Background(), tt.change); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
