// Package index is the write and read entry point of the index tables.
package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
	"github.com/kailas-cloud/bizsearch/internal/logger"
	"github.com/kailas-cloud/bizsearch/internal/metrics"
)

// Service saves, removes and searches documents of every family.
type Service struct {
	engines Engines
	convert Converter
	writer  *Writer
}

// New creates a Service. The converter is attached with WithConverter
// because it searches through the service it feeds.
func New(engines Engines, writer *Writer) *Service {
	if writer == nil {
		writer = NewWriter(DefaultBufferSize)
	}
	return &Service{engines: engines, writer: writer}
}

// WithConverter sets the entity converter used by the Save methods.
func (s *Service) WithConverter(c Converter) *Service {
	s.convert = c
	return s
}

// SaveCatalogs indexes catalogs.
func (s *Service) SaveCatalogs(ctx context.Context, items []domain.Catalog) error {
	return save(ctx, s, domain.FamilyCatalogs, items, func(ctx context.Context, c *domain.Catalog) (document.Document, error) {
		return s.convert.Catalog(ctx, c)
	})
}

// SaveProducts indexes product specifications.
func (s *Service) SaveProducts(ctx context.Context, items []domain.Product) error {
	return save(ctx, s, domain.FamilyProducts, items, func(ctx context.Context, p *domain.Product) (document.Document, error) {
		return s.convert.Product(ctx, p)
	})
}

// SaveOfferings indexes offerings. When owner is nil each offering's owner
// is resolved from the product tables.
func (s *Service) SaveOfferings(ctx context.Context, items []domain.Offering, owner *domain.RelatedParty) error {
	return save(ctx, s, domain.FamilyOfferings, items, func(ctx context.Context, o *domain.Offering) (document.Document, error) {
		return s.convert.Offering(ctx, o, owner)
	})
}

// SaveInventory indexes inventory items.
func (s *Service) SaveInventory(ctx context.Context, items []domain.InventoryItem) error {
	return save(ctx, s, domain.FamilyInventory, items, func(ctx context.Context, i *domain.InventoryItem) (document.Document, error) {
		return s.convert.Inventory(ctx, i)
	})
}

// SaveOrders indexes product orders.
func (s *Service) SaveOrders(ctx context.Context, items []domain.Order) error {
	return save(ctx, s, domain.FamilyOrders, items, func(ctx context.Context, o *domain.Order) (document.Document, error) {
		return s.convert.Order(ctx, o)
	})
}

func save[T any](
	ctx context.Context, s *Service, f domain.Family, items []T,
	convert func(context.Context, *T) (document.Document, error),
) error {
	if s.convert == nil {
		return fmt.Errorf("save %s: converter: %w", f, domain.ErrNotInitialized)
	}
	engine, err := s.engines.Engine(f)
	if err != nil {
		return err
	}

	produce := func(ctx context.Context, emit Emit) error {
		for i := range items {
			d, err := convert(ctx, &items[i])
			if err != nil {
				return err
			}
			if err := emit(d); err != nil {
				return err
			}
		}
		return nil
	}

	if err := s.writer.Write(ctx, engine, document.DefaultFieldOptions(f), produce); err != nil {
		metrics.IndexErrorsTotal.WithLabelValues(f.String()).Inc()
		logger.FromContext(ctx).Error("Bulk index failed",
			zap.String("family", f.String()), zap.Int("items", len(items)), zap.Error(err))
		return fmt.Errorf("save %s: %w", f, err)
	}
	metrics.IndexDocumentsTotal.WithLabelValues(f.String()).Add(float64(len(items)))
	return nil
}

// Remove deletes the document stored under key from the table named family.
func (s *Service) Remove(ctx context.Context, family, key string) error {
	f, err := domain.ParseFamily(family)
	if err != nil {
		return err
	}
	engine, err := s.engines.Engine(f)
	if err != nil {
		return err
	}
	if err := engine.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove %s %s: %w", f, key, err)
	}
	return nil
}

// Search runs q against the table of family.
func (s *Service) Search(ctx context.Context, f domain.Family, q *query.Query) ([]document.Hit, error) {
	engine, err := s.engines.Engine(f)
	if err != nil {
		return nil, err
	}
	hits, err := engine.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", f, err)
	}
	return hits, nil
}

// SearchOwned returns every document of family owned by ownerID.
func (s *Service) SearchOwned(ctx context.Context, f domain.Family, ownerID string) ([]document.Hit, error) {
	return s.Search(ctx, f, query.ForOwner(ownerID))
}
