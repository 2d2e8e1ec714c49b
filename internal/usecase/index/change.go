package index

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/bizsearch/internal/domain"
)

// Change actions.
const (
	ActionSave   = "save"
	ActionRemove = "remove"
)

// Change is an entity change notification. Save changes carry the changed
// entities of one family in Items, as one object or a list; remove changes
// name the document Key.
type Change struct {
	Action string               `json:"action"`
	Family string               `json:"family"`
	Key    string               `json:"key,omitempty"`
	Owner  *domain.RelatedParty `json:"owner,omitempty"`
	Items  json.RawMessage      `json:"items,omitempty"`
}

// Apply saves or removes the documents named by c.
func (s *Service) Apply(ctx context.Context, c Change) error {
	switch c.Action {
	case ActionRemove:
		return s.Remove(ctx, c.Family, c.Key)
	case ActionSave:
		return s.SaveRaw(ctx, c.Family, c.Items, c.Owner)
	default:
		return fmt.Errorf("change action %q: %w", c.Action, domain.ErrInvalidEntity)
	}
}

// SaveRaw decodes the upstream JSON of family entities and saves them.
func (s *Service) SaveRaw(ctx context.Context, family string, raw json.RawMessage, owner *domain.RelatedParty) error {
	f, err := domain.ParseFamily(family)
	if err != nil {
		return err
	}
	switch f {
	case domain.FamilyCatalogs:
		items, err := decodeItems[domain.Catalog](raw)
		if err != nil {
			return err
		}
		return s.SaveCatalogs(ctx, items)
	case domain.FamilyProducts:
		items, err := decodeItems[domain.Product](raw)
		if err != nil {
			return err
		}
		return s.SaveProducts(ctx, items)
	case domain.FamilyOfferings:
		items, err := decodeItems[domain.Offering](raw)
		if err != nil {
			return err
		}
		return s.SaveOfferings(ctx, items, owner)
	case domain.FamilyInventory:
		items, err := decodeItems[domain.InventoryItem](raw)
		if err != nil {
			return err
		}
		return s.SaveInventory(ctx, items)
	case domain.FamilyOrders:
		items, err := decodeItems[domain.Order](raw)
		if err != nil {
			return err
		}
		return s.SaveOrders(ctx, items)
	}
	return domain.ErrNoIndexForPath
}

// decodeItems accepts a single entity or a list of them.
func decodeItems[T any](raw json.RawMessage) ([]T, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("change without items: %w", domain.ErrInvalidEntity)
	}
	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode items: %w: %w", domain.ErrInvalidEntity, err)
		}
		return items, nil
	}
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode item: %w: %w", domain.ErrInvalidEntity, err)
	}
	return []T{item}, nil
}
