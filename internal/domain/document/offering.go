package document

import "github.com/kailas-cloud/bizsearch/internal/domain"

// Offering is the indexed form of a product offering. It has no related
// party fields; ownership is carried by the hashed UserID.
type Offering struct {
	Common
	Body                 []string `json:"body"`
	Name                 string   `json:"name"`
	Href                 string   `json:"href,omitempty"`
	LifecycleStatus      string   `json:"lifecycleStatus,omitempty"`
	IsBundle             bool     `json:"isBundle"`
	Catalog              string   `json:"catalog"`
	ProductSpecification string   `json:"productSpecification,omitempty"`
	UserID               string   `json:"userId,omitempty"`
	CategoriesID         []string `json:"categoriesId,omitempty"`
	CategoriesName       []string `json:"categoriesName,omitempty"`
}

// NewOffering builds the document of o without owner or category data.
// The product specification is dropped for bundles.
func NewOffering(o *domain.Offering) *Offering {
	d := &Offering{
		Common:          newCommon(domain.FamilyOfferings, o.ID),
		Body:            Body(o.Name, o.Description),
		Name:            o.Name,
		Href:            o.Href,
		LifecycleStatus: o.LifecycleStatus,
		IsBundle:        o.IsBundle,
		Catalog:         o.Catalog.Sorted(),
	}
	if !o.IsBundle && o.ProductSpecification != nil {
		d.ProductSpecification = o.ProductSpecification.ID.Sorted()
	}
	return d
}

// SetCategories records the resolved categories, keeping input order.
func (d *Offering) SetCategories(categories []domain.Category) {
	if len(categories) == 0 {
		return
	}
	d.CategoriesID = make([]string, len(categories))
	d.CategoriesName = make([]string, len(categories))
	for i, c := range categories {
		d.CategoriesID[i] = c.ID.Sorted()
		d.CategoriesName[i] = domain.HashID(c.Name)
	}
}

// Family implements Document.
func (*Offering) Family() domain.Family { return domain.FamilyOfferings }

// IndexFields implements Document.
func (d *Offering) IndexFields() map[string][]string {
	m := d.Common.fields()
	appendNonEmpty(m, FieldBody, d.Body...)
	appendNonEmpty(m, "name", d.Name)
	appendNonEmpty(m, "href", d.Href)
	appendNonEmpty(m, FieldLifecycleStatus, d.LifecycleStatus)
	appendNonEmpty(m, FieldCatalog, d.Catalog)
	appendNonEmpty(m, FieldProductSpec, d.ProductSpecification)
	appendNonEmpty(m, FieldUserID, d.UserID)
	appendNonEmpty(m, FieldCategoriesID, d.CategoriesID...)
	appendNonEmpty(m, FieldCategoriesName, d.CategoriesName...)
	m[FieldIsBundle] = []string{boolTerm(d.IsBundle)}
	return m
}

func (*Offering) sealed() {}
