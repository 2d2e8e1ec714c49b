// Package transform converts upstream entities into index documents,
// resolving owners and enrichment data across tables and the catalog API.
package transform

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
)

// Transformer builds the document of each family.
type Transformer struct {
	searcher Searcher
	catalog  CatalogClient
}

// New creates a Transformer.
func New(searcher Searcher, catalog CatalogClient) *Transformer {
	return &Transformer{searcher: searcher, catalog: catalog}
}

// Catalog converts a catalog.
func (t *Transformer) Catalog(_ context.Context, c *domain.Catalog) (*document.Catalog, error) {
	return document.NewCatalog(c), nil
}

// Product converts a product specification.
func (t *Transformer) Product(_ context.Context, p *domain.Product) (*document.Product, error) {
	return document.NewProduct(p), nil
}

// Offering converts an offering. The owner is owner when given, otherwise
// it is resolved from the product tables; categories are enriched from the
// catalog API. Any lookup failure fails the conversion.
func (t *Transformer) Offering(ctx context.Context, o *domain.Offering, owner *domain.RelatedParty) (*document.Offering, error) {
	d := document.NewOffering(o)

	if owner != nil {
		d.UserID = domain.HashID(owner.ID)
	} else {
		ownerID, err := t.resolveOwner(ctx, o)
		if err != nil {
			return nil, fmt.Errorf("offering %s owner: %w", o.ID, err)
		}
		if ownerID != "" {
			d.UserID = domain.HashID(ownerID)
		}
	}

	categories, err := t.categories(ctx, o.Category)
	if err != nil {
		return nil, fmt.Errorf("offering %s categories: %w", o.ID, err)
	}
	d.SetCategories(categories)
	return d, nil
}

// resolveOwner returns the first related party of the offering's product.
// A bundle is resolved through its first bundled offering. An empty id
// means no owner was found.
func (t *Transformer) resolveOwner(ctx context.Context, o *domain.Offering) (string, error) {
	if !o.IsBundle {
		if o.ProductSpecification == nil {
			return "", nil
		}
		return t.productOwner(ctx, o.ProductSpecification.ID.Sorted())
	}

	if len(o.BundledProductOffering) == 0 {
		return "", nil
	}
	hits, err := t.searcher.Search(ctx, domain.FamilyOfferings,
		query.BySortedID(o.BundledProductOffering[0].ID.Sorted()))
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "", nil
	}
	var component struct {
		ProductSpecification string `json:"productSpecification"`
	}
	if err := hits[0].Decode(&component); err != nil {
		return "", err
	}
	if component.ProductSpecification == "" {
		return "", nil
	}
	return t.productOwner(ctx, domain.PadID(component.ProductSpecification))
}

func (t *Transformer) productOwner(ctx context.Context, sortedID string) (string, error) {
	hits, err := t.searcher.Search(ctx, domain.FamilyProducts, query.BySortedID(sortedID))
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "", nil
	}
	var product struct {
		RelatedParty []string `json:"relatedParty"`
	}
	if err := hits[0].Decode(&product); err != nil {
		return "", err
	}
	if len(product.RelatedParty) == 0 {
		return "", nil
	}
	return product.RelatedParty[0], nil
}

// categories fetches the category names concurrently, keeping input order.
func (t *Transformer) categories(ctx context.Context, refs []domain.Ref) ([]domain.Category, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	out := make([]domain.Category, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			c, err := t.catalog.Category(gctx, ref.ID)
			if err != nil {
				return err
			}
			// Keep the requested id; the name is the enriched part.
			out[i] = domain.Category{ID: ref.ID, Name: c.Name}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Inventory converts an inventory item, fetching the offering's name and
// description from its href when the reference does not embed them.
func (t *Transformer) Inventory(ctx context.Context, item *domain.InventoryItem) (*document.Inventory, error) {
	ref := item.ProductOffering
	detail := domain.OfferingDetail{Name: ref.Name, Description: ref.Description}
	if !ref.HasDetail() {
		var err error
		detail, err = t.catalog.OfferingDetail(ctx, ref.Href)
		if err != nil {
			return nil, fmt.Errorf("inventory %s offering: %w", item.ID, err)
		}
	}
	return document.NewInventory(item, detail), nil
}

// Order converts a product order.
func (t *Transformer) Order(_ context.Context, o *domain.Order) (*document.Order, error) {
	return document.NewOrder(o), nil
}
