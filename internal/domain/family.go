package domain

import "path"

// Family is one of the entity domains kept in a secondary index.
type Family string

const (
	// FamilyOfferings indexes product offerings.
	FamilyOfferings Family = "offerings"
	// FamilyProducts indexes product specifications.
	FamilyProducts Family = "products"
	// FamilyCatalogs indexes catalogs.
	FamilyCatalogs Family = "catalogs"
	// FamilyInventory indexes inventory items.
	FamilyInventory Family = "inventory"
	// FamilyOrders indexes product orders.
	FamilyOrders Family = "orders"
)

// Families lists every family in the order tables are opened and closed.
var Families = []Family{
	FamilyOfferings,
	FamilyProducts,
	FamilyCatalogs,
	FamilyInventory,
	FamilyOrders,
}

// IndexDir is the directory (or key namespace) holding all index tables.
const IndexDir = "indexes"

var keyPrefixes = map[Family]string{
	FamilyOfferings: "offering",
	FamilyProducts:  "product",
	FamilyCatalogs:  "catalog",
	FamilyInventory: "inventory",
	FamilyOrders:    "order",
}

// ParseFamily validates a family name.
func ParseFamily(s string) (Family, error) {
	f := Family(s)
	if !f.IsValid() {
		return "", ErrNoIndexForPath
	}
	return f, nil
}

// IsValid reports whether f is a known family.
func (f Family) IsValid() bool {
	_, ok := keyPrefixes[f]
	return ok
}

// Path returns the storage path of the family table, e.g. "indexes/offerings".
func (f Family) Path() string {
	return path.Join(IndexDir, string(f))
}

// KeyPrefix returns the document key prefix, e.g. "offering".
func (f Family) KeyPrefix() string {
	return keyPrefixes[f]
}

// DocumentKey builds the "<prefix>:<id>" key of a document in this family.
func (f Family) DocumentKey(id ID) string {
	return f.KeyPrefix() + ":" + id.String()
}

func (f Family) String() string { return string(f) }
