package health

import "context"

// IndexPinger checks that the index tables are open and reachable.
type IndexPinger interface {
	Ping(ctx context.Context) error
}

// CatalogChecker checks that the catalog API answers.
type CatalogChecker interface {
	HealthCheck(ctx context.Context) error
}
