package transform

import (
	"context"

	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
)

// Searcher runs queries against other index tables for cross-index resolution.
type Searcher interface {
	Search(ctx context.Context, family domain.Family, q *query.Query) ([]document.Hit, error)
}

// CatalogClient fetches enrichment data from the catalog API.
type CatalogClient interface {
	Category(ctx context.Context, id domain.ID) (domain.Category, error)
	OfferingDetail(ctx context.Context, href string) (domain.OfferingDetail, error)
}
