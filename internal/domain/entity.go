package domain

import "encoding/json"

// RelatedParty links an entity to a party (owner, customer, seller, ...).
type RelatedParty struct {
	ID   string `json:"id"`
	Role string `json:"role,omitempty"`
	Href string `json:"href,omitempty"`
}

// RoleSeller is the related-party role of an order's seller.
const RoleSeller = "seller"

// PartyIDs returns the raw identifiers of parties, preserving order.
func PartyIDs(parties []RelatedParty) []string {
	ids := make([]string, len(parties))
	for i, p := range parties {
		ids[i] = p.ID
	}
	return ids
}

// Ref is a reference to another entity by id and href.
type Ref struct {
	ID   ID     `json:"id"`
	Href string `json:"href,omitempty"`
}

// Category is a catalog category as returned by the category API.
type Category struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Catalog is a product catalog.
type Catalog struct {
	ID              ID             `json:"id"`
	Href            string         `json:"href,omitempty"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	LifecycleStatus string         `json:"lifecycleStatus,omitempty"`
	RelatedParty    []RelatedParty `json:"relatedParty,omitempty"`
}

// Product is a product specification.
type Product struct {
	ID              ID             `json:"id"`
	Href            string         `json:"href,omitempty"`
	Name            string         `json:"name"`
	Brand           string         `json:"brand,omitempty"`
	Description     string         `json:"description,omitempty"`
	LifecycleStatus string         `json:"lifecycleStatus,omitempty"`
	IsBundle        bool           `json:"isBundle"`
	ProductNumber   Scalar         `json:"productNumber,omitempty"`
	RelatedParty    []RelatedParty `json:"relatedParty,omitempty"`
}

// Offering is a product offering. A bundle offering is composed of other
// offerings and carries no product specification of its own.
type Offering struct {
	ID                     ID     `json:"id"`
	Href                   string `json:"href,omitempty"`
	Name                   string `json:"name"`
	Description            string `json:"description,omitempty"`
	LifecycleStatus        string `json:"lifecycleStatus,omitempty"`
	IsBundle               bool   `json:"isBundle"`
	Catalog                ID     `json:"catalog"`
	ProductSpecification   *Ref   `json:"productSpecification,omitempty"`
	BundledProductOffering []Ref  `json:"bundledProductOffering,omitempty"`
	Category               []Ref  `json:"category,omitempty"`
}

// OfferingRef is the offering reference embedded in an inventory item.
// Name and Description are optional; when absent they are fetched from Href.
type OfferingRef struct {
	ID          ID     `json:"id"`
	Href        string `json:"href,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// HasDetail reports whether the reference embeds the offering's text fields.
func (r OfferingRef) HasDetail() bool {
	return r.Name != "" || r.Description != ""
}

// OfferingDetail holds the text fields of an offering fetched from upstream.
type OfferingDetail struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// InventoryItem is a product in a customer's inventory.
type InventoryItem struct {
	ID              ID              `json:"id"`
	Href            string          `json:"href,omitempty"`
	Name            string          `json:"name,omitempty"`
	Status          string          `json:"status,omitempty"`
	ProductOffering OfferingRef     `json:"productOffering"`
	RelatedParty    []RelatedParty  `json:"relatedParty,omitempty"`
	StartDate       json.RawMessage `json:"startDate,omitempty"`
	OrderDate       json.RawMessage `json:"orderDate,omitempty"`
	TerminationDate json.RawMessage `json:"terminationDate,omitempty"`
}

// Order is a product order.
type Order struct {
	ID                  ID              `json:"id"`
	Href                string          `json:"href,omitempty"`
	Priority            string          `json:"priority,omitempty"`
	Category            string          `json:"category,omitempty"`
	State               string          `json:"state,omitempty"`
	NotificationContact string          `json:"notificationContact,omitempty"`
	Note                json.RawMessage `json:"note,omitempty"`
	RelatedParty        []RelatedParty  `json:"relatedParty,omitempty"`
}
