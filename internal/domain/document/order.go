package document

import (
	"encoding/json"

	"github.com/kailas-cloud/bizsearch/internal/domain"
)

// Order is the indexed form of a product order. Seller ids are hashed into
// SellerHash, every other party into RelatedPartyHash. Orders have no body.
type Order struct {
	Common
	RelatedParty        []string        `json:"relatedParty"`
	RelatedPartyHash    []string        `json:"relatedPartyHash"`
	SellerHash          []string        `json:"sellerHash"`
	Href                string          `json:"href,omitempty"`
	Priority            string          `json:"priority,omitempty"`
	Category            string          `json:"category,omitempty"`
	State               string          `json:"state,omitempty"`
	NotificationContact string          `json:"notificationContact,omitempty"`
	Note                json.RawMessage `json:"note,omitempty"`
}

// NewOrder builds the document of o.
func NewOrder(o *domain.Order) *Order {
	d := &Order{
		Common:              newCommon(domain.FamilyOrders, o.ID),
		RelatedParty:        domain.PartyIDs(o.RelatedParty),
		RelatedPartyHash:    []string{},
		SellerHash:          []string{},
		Href:                o.Href,
		Priority:            o.Priority,
		Category:            o.Category,
		State:               o.State,
		NotificationContact: o.NotificationContact,
		Note:                o.Note,
	}
	for _, p := range o.RelatedParty {
		if p.Role == domain.RoleSeller {
			d.SellerHash = append(d.SellerHash, domain.HashID(p.ID))
			continue
		}
		d.RelatedPartyHash = append(d.RelatedPartyHash, domain.HashID(p.ID))
	}
	return d
}

// Family implements Document.
func (*Order) Family() domain.Family { return domain.FamilyOrders }

// IndexFields implements Document.
func (d *Order) IndexFields() map[string][]string {
	m := d.Common.fields()
	appendNonEmpty(m, "relatedParty", d.RelatedParty...)
	appendNonEmpty(m, FieldRelatedPartyHash, d.RelatedPartyHash...)
	appendNonEmpty(m, FieldSellerHash, d.SellerHash...)
	appendNonEmpty(m, "href", d.Href)
	appendNonEmpty(m, "priority", d.Priority)
	appendNonEmpty(m, "category", d.Category)
	appendNonEmpty(m, FieldState, d.State)
	return m
}

func (*Order) sealed() {}
