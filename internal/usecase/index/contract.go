package index

import (
	"context"

	"github.com/kailas-cloud/bizsearch/internal/db"
	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
)

// Engines resolves the search engine of a family.
type Engines interface {
	Engine(f domain.Family) (db.Engine, error)
}

// Converter turns upstream entities into index documents.
type Converter interface {
	Catalog(ctx context.Context, c *domain.Catalog) (*document.Catalog, error)
	Product(ctx context.Context, p *domain.Product) (*document.Product, error)
	Offering(ctx context.Context, o *domain.Offering, owner *domain.RelatedParty) (*document.Offering, error)
	Inventory(ctx context.Context, item *domain.InventoryItem) (*document.Inventory, error)
	Order(ctx context.Context, o *domain.Order) (*document.Order, error)
}
