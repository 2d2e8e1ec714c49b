package document

import (
	"encoding/json"

	"github.com/kailas-cloud/bizsearch/internal/domain"
)

// Inventory is the indexed form of an inventory item.
type Inventory struct {
	Common
	Owned
	Body            []string        `json:"body"`
	ProductOffering domain.ID       `json:"productOffering"`
	Href            string          `json:"href,omitempty"`
	Name            string          `json:"name,omitempty"`
	Status          string          `json:"status,omitempty"`
	StartDate       json.RawMessage `json:"startDate,omitempty"`
	OrderDate       json.RawMessage `json:"orderDate,omitempty"`
	TerminationDate json.RawMessage `json:"terminationDate,omitempty"`
}

// NewInventory builds the document of item. The body comes from offering,
// the resolved detail of the referenced offering.
func NewInventory(item *domain.InventoryItem, offering domain.OfferingDetail) *Inventory {
	return &Inventory{
		Common:          newCommon(domain.FamilyInventory, item.ID),
		Owned:           newOwned(item.RelatedParty),
		Body:            Body(offering.Name, offering.Description),
		ProductOffering: item.ProductOffering.ID,
		Href:            item.Href,
		Name:            item.Name,
		Status:          item.Status,
		StartDate:       item.StartDate,
		OrderDate:       item.OrderDate,
		TerminationDate: item.TerminationDate,
	}
}

// Family implements Document.
func (*Inventory) Family() domain.Family { return domain.FamilyInventory }

// IndexFields implements Document.
func (d *Inventory) IndexFields() map[string][]string {
	m := d.Common.fields()
	d.Owned.fields(m)
	appendNonEmpty(m, FieldBody, d.Body...)
	appendNonEmpty(m, FieldProductOffering, d.ProductOffering.String())
	appendNonEmpty(m, "name", d.Name)
	appendNonEmpty(m, "href", d.Href)
	appendNonEmpty(m, FieldStatus, d.Status)
	return m
}

func (*Inventory) sealed() {}
