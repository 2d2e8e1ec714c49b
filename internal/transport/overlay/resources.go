package overlay

import (
	"context"

	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
	"github.com/kailas-cloud/bizsearch/internal/usecase/resource"
)

// Searcher searches the table of a family.
type Searcher interface {
	Search(ctx context.Context, f domain.Family, q *query.Query) ([]document.Hit, error)
}

// Resources binds every definition to the table of its family.
func Resources(defs []*resource.Definition, s Searcher) []Resource {
	out := make([]Resource, 0, len(defs))
	for _, d := range defs {
		out = append(out, Resource{
			Name:    d.Name,
			Family:  d.Family,
			Pattern: d.Pattern,
			Build:   d.Build,
			Search: func(ctx context.Context, q *query.Query) ([]document.Hit, error) {
				return s.Search(ctx, d.Family, q)
			},
			Passthrough: d.Passthrough,
		})
	}
	return out
}
