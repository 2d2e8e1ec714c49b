package bizsearch

import (
	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
	"github.com/kailas-cloud/bizsearch/internal/transport/upstream"
)

// Family names one index table.
type Family = domain.Family

// Index families.
const (
	FamilyOfferings = domain.FamilyOfferings
	FamilyProducts  = domain.FamilyProducts
	FamilyCatalogs  = domain.FamilyCatalogs
	FamilyInventory = domain.FamilyInventory
	FamilyOrders    = domain.FamilyOrders
)

// Entities accepted by the Save methods.
type (
	ID             = domain.ID
	RelatedParty   = domain.RelatedParty
	Ref            = domain.Ref
	Catalog        = domain.Catalog
	Product        = domain.Product
	Offering       = domain.Offering
	InventoryItem  = domain.InventoryItem
	Order          = domain.Order
	Category       = domain.Category
	OfferingDetail = domain.OfferingDetail
)

// Query is a search request against one table. Build one with NewQuery or
// ParseQuery.
type Query = query.Query

// Hit is one matched document.
type Hit = document.Hit

// Endpoint locates the catalog API used to resolve categories and
// offering details.
type Endpoint = upstream.Endpoint

// NewQuery returns a builder of AND and OR constraints. Build the query
// with (*QueryBuilder).Query.
func NewQuery() *QueryBuilder {
	return &QueryBuilder{b: query.NewBuilder()}
}

// QueryBuilder accumulates the constraints of a query.
type QueryBuilder struct {
	b *query.Builder
}

// And requires field to match one of values. Repeated calls on a field
// must all hold.
func (qb *QueryBuilder) And(field string, values ...string) *QueryBuilder {
	qb.b.AddAnd(field, values...)
	return qb
}

// Or adds field=value alternatives. The query matches a document when any
// alternative of any Or call does.
func (qb *QueryBuilder) Or(field string, values ...string) *QueryBuilder {
	qb.b.AddOr(field, values...)
	return qb
}

// Query returns the built query, sorted by id.
func (qb *QueryBuilder) Query() *Query {
	return &Query{
		Sort:    &query.Sort{Field: query.DefaultSortField, Direction: query.Asc},
		Clauses: qb.b.Clauses(),
	}
}

// ParseQuery decodes a JSON query document.
func ParseQuery(raw []byte) (*Query, error) {
	return query.Parse(raw)
}
