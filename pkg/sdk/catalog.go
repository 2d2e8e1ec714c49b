package bizsearch

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/bizsearch/internal/domain"
)

// CatalogClient resolves the catalog data offerings and inventory items
// are enriched with.
type CatalogClient interface {
	Category(ctx context.Context, id ID) (Category, error)
	OfferingDetail(ctx context.Context, href string) (OfferingDetail, error)
}

// noopCatalog fails every lookup (used when no catalog is configured).
type noopCatalog struct{}

func (noopCatalog) Category(_ context.Context, id ID) (Category, error) {
	return Category{}, fmt.Errorf(
		"bizsearch: category %s: catalog not configured (use WithCatalog): %w", id, domain.ErrLookupFailed,
	)
}

func (noopCatalog) OfferingDetail(_ context.Context, href string) (OfferingDetail, error) {
	return OfferingDetail{}, fmt.Errorf(
		"bizsearch: offering %s: catalog not configured (use WithCatalog): %w", href, domain.ErrLookupFailed,
	)
}
