package bizsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/bizsearch/internal/domain/query"
)

// SaveCatalogs indexes catalogs. Existing documents with the same id are
// replaced.
func (c *Client) SaveCatalogs(ctx context.Context, items []Catalog) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(opSave, FamilyCatalogs, len(items), start, err) }()

	return c.index.SaveCatalogs(ctx, items)
}

// SaveProducts indexes product specifications.
func (c *Client) SaveProducts(ctx context.Context, items []Product) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(opSave, FamilyProducts, len(items), start, err) }()

	return c.index.SaveProducts(ctx, items)
}

// SaveOfferings indexes offerings. With an empty owner each offering's
// owner is resolved from the product table, through the first bundled
// offering for bundles.
func (c *Client) SaveOfferings(ctx context.Context, items []Offering, owner string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(opSave, FamilyOfferings, len(items), start, err) }()

	var party *RelatedParty
	if owner != "" {
		party = &RelatedParty{ID: owner}
	}
	return c.index.SaveOfferings(ctx, items, party)
}

// SaveInventory indexes inventory items.
func (c *Client) SaveInventory(ctx context.Context, items []InventoryItem) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(opSave, FamilyInventory, len(items), start, err) }()

	return c.index.SaveInventory(ctx, items)
}

// SaveOrders indexes product orders.
func (c *Client) SaveOrders(ctx context.Context, items []Order) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(opSave, FamilyOrders, len(items), start, err) }()

	return c.index.SaveOrders(ctx, items)
}

// Remove deletes the document with key, e.g. "catalog:1", from the table
// of f.
func (c *Client) Remove(ctx context.Context, f Family, key string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(opRemove, f, 1, start, err) }()

	return c.index.Remove(ctx, string(f), key)
}

// Search runs q against the table of f. A nil or empty query matches
// every document.
func (c *Client) Search(ctx context.Context, f Family, q *Query) (hits []Hit, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opSearch, f, len(hits), start, err) }()

	if q == nil {
		q = &query.Query{}
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("search %s: %w", f, err)
	}
	if q.IsEmpty() {
		q = q.WithMatchAll()
	}
	return c.index.Search(ctx, f, q)
}

// SearchOwned returns the documents of f owned by ownerID.
func (c *Client) SearchOwned(ctx context.Context, f Family, ownerID string) (hits []Hit, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opSearchOwned, f, len(hits), start, err) }()

	return c.index.SearchOwned(ctx, f, ownerID)
}
