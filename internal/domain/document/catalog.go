package document

import "github.com/kailas-cloud/bizsearch/internal/domain"

// Owned carries the raw related-party ids and their hashes, pairwise.
type Owned struct {
	RelatedParty     []string `json:"relatedParty"`
	RelatedPartyHash []string `json:"relatedPartyHash"`
}

func newOwned(parties []domain.RelatedParty) Owned {
	ids := domain.PartyIDs(parties)
	return Owned{RelatedParty: ids, RelatedPartyHash: domain.HashIDs(ids)}
}

func (o *Owned) fields(m map[string][]string) {
	appendNonEmpty(m, "relatedParty", o.RelatedParty...)
	appendNonEmpty(m, FieldRelatedPartyHash, o.RelatedPartyHash...)
}

// Catalog is the indexed form of a catalog.
type Catalog struct {
	Common
	Owned
	Body            []string `json:"body"`
	Href            string   `json:"href,omitempty"`
	LifecycleStatus string   `json:"lifecycleStatus,omitempty"`
	Name            string   `json:"name"`
}

// NewCatalog builds the document of c.
func NewCatalog(c *domain.Catalog) *Catalog {
	return &Catalog{
		Common:          newCommon(domain.FamilyCatalogs, c.ID),
		Owned:           newOwned(c.RelatedParty),
		Body:            Body(c.Name, c.Description),
		Href:            c.Href,
		LifecycleStatus: c.LifecycleStatus,
		Name:            c.Name,
	}
}

// Family implements Document.
func (*Catalog) Family() domain.Family { return domain.FamilyCatalogs }

// IndexFields implements Document.
func (d *Catalog) IndexFields() map[string][]string {
	m := d.Common.fields()
	d.Owned.fields(m)
	appendNonEmpty(m, FieldBody, d.Body...)
	appendNonEmpty(m, FieldLifecycleStatus, d.LifecycleStatus)
	appendNonEmpty(m, "name", d.Name)
	appendNonEmpty(m, "href", d.Href)
	return m
}

func (*Catalog) sealed() {}
