package document

import "github.com/kailas-cloud/bizsearch/internal/domain"

// Product is the indexed form of a product specification.
type Product struct {
	Common
	Owned
	Body            []string      `json:"body"`
	Href            string        `json:"href,omitempty"`
	LifecycleStatus string        `json:"lifecycleStatus,omitempty"`
	IsBundle        bool          `json:"isBundle"`
	ProductNumber   domain.Scalar `json:"productNumber,omitempty"`
}

// NewProduct builds the document of p.
func NewProduct(p *domain.Product) *Product {
	return &Product{
		Common:          newCommon(domain.FamilyProducts, p.ID),
		Owned:           newOwned(p.RelatedParty),
		Body:            Body(p.Name, p.Brand, p.Description),
		Href:            p.Href,
		LifecycleStatus: p.LifecycleStatus,
		IsBundle:        p.IsBundle,
		ProductNumber:   p.ProductNumber,
	}
}

// Family implements Document.
func (*Product) Family() domain.Family { return domain.FamilyProducts }

// IndexFields implements Document.
func (d *Product) IndexFields() map[string][]string {
	m := d.Common.fields()
	d.Owned.fields(m)
	appendNonEmpty(m, FieldBody, d.Body...)
	appendNonEmpty(m, FieldLifecycleStatus, d.LifecycleStatus)
	appendNonEmpty(m, "href", d.Href)
	appendNonEmpty(m, "productNumber", string(d.ProductNumber))
	m[FieldIsBundle] = []string{boolTerm(d.IsBundle)}
	return m
}

func (*Product) sealed() {}
