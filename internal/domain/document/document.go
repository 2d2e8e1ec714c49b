// Package document defines the records stored in the index tables.
//
// Each family has its own concrete document type; the Document interface is
// the closed set the storage drivers accept. Documents are stored verbatim
// as JSON, while IndexFields exposes the normalized values an engine indexes
// for exact-match filtering and sorting.
package document

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/bizsearch/internal/domain"
)

// Document is an indexable record of one family.
type Document interface {
	// Key returns the storage key, "<prefix>:<originalId>".
	Key() string
	// Family returns the family the document belongs to.
	Family() domain.Family
	// IndexFields returns the filterable fields as lists of string terms.
	IndexFields() map[string][]string

	sealed()
}

// Common holds the attributes shared by every document family.
type Common struct {
	ID         string    `json:"id"`
	OriginalID domain.ID `json:"originalId"`
	SortedID   string    `json:"sortedId"`
}

func newCommon(f domain.Family, id domain.ID) Common {
	return Common{
		ID:         f.DocumentKey(id),
		OriginalID: id,
		SortedID:   id.Sorted(),
	}
}

// Key implements Document.
func (c *Common) Key() string { return c.ID }

func (c *Common) fields() map[string][]string {
	return map[string][]string{
		"id":         {c.ID},
		"originalId": {c.OriginalID.String()},
		"sortedId":   {c.SortedID},
	}
}

// Body lowercases free-text values for case-insensitive matching.
// Empty values are kept so positions stay stable across documents.
func Body(values ...string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

// Field names used in queries and field options.
const (
	FieldSortedID         = "sortedId"
	FieldBody             = "body"
	FieldUserID           = "userId"
	FieldRelatedPartyHash = "relatedPartyHash"
	FieldSellerHash       = "sellerHash"
	FieldLifecycleStatus  = "lifecycleStatus"
	FieldStatus           = "status"
	FieldState            = "state"
	FieldCatalog          = "catalog"
	FieldProductSpec      = "productSpecification"
	FieldCategoriesID     = "categoriesId"
	FieldCategoriesName   = "categoriesName"
	FieldProductOffering  = "productOffering"
	FieldIsBundle         = "isBundle"
)

var commonFields = []string{"id", "originalId", FieldSortedID}

var familyFields = map[domain.Family][]string{
	domain.FamilyCatalogs: {
		FieldBody, "relatedParty", FieldRelatedPartyHash, FieldLifecycleStatus, "name", "href",
	},
	domain.FamilyProducts: {
		FieldBody, "relatedParty", FieldRelatedPartyHash, FieldLifecycleStatus, "href",
		"productNumber", FieldIsBundle,
	},
	domain.FamilyOfferings: {
		FieldBody, "name", "href", FieldLifecycleStatus, FieldIsBundle, FieldCatalog,
		FieldProductSpec, FieldUserID, FieldCategoriesID, FieldCategoriesName,
	},
	domain.FamilyInventory: {
		FieldBody, "relatedParty", FieldRelatedPartyHash, FieldProductOffering, "name",
		"href", FieldStatus,
	},
	domain.FamilyOrders: {
		"relatedParty", FieldRelatedPartyHash, FieldSellerHash, "href", "priority",
		"category", FieldState,
	},
}

// Filterable returns the names of every field a family's documents index,
// common fields first.
func Filterable(f domain.Family) []string {
	out := make([]string, 0, len(commonFields)+len(familyFields[f]))
	out = append(out, commonFields...)
	return append(out, familyFields[f]...)
}

// FieldOption configures how an engine indexes a single field.
type FieldOption struct {
	// PreserveCase=false makes the engine fold the field's case on write and
	// on query, so matching is case-insensitive.
	PreserveCase bool `json:"preserveCase"`
}

// FieldOptions maps field names to their indexing options.
type FieldOptions map[string]FieldOption

// Folded reports whether field is indexed case-insensitively.
func (o FieldOptions) Folded(field string) bool {
	opt, ok := o[field]
	return ok && !opt.PreserveCase
}

// Merge returns a copy of o overlaid with other.
func (o FieldOptions) Merge(other FieldOptions) FieldOptions {
	out := make(FieldOptions, len(o)+len(other))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Normalize applies the field options to an IndexFields map, returning a new map.
func (o FieldOptions) Normalize(fields map[string][]string) map[string][]string {
	out := make(map[string][]string, len(fields))
	for k, values := range fields {
		if !o.Folded(k) {
			out[k] = values
			continue
		}
		folded := make([]string, len(values))
		for i, v := range values {
			folded[i] = strings.ToLower(v)
		}
		out[k] = folded
	}
	return out
}

// DefaultFieldOptions returns the ingestion options of a family. These fold
// case at the engine level, independently of the lowercased body the
// transformer produces.
func DefaultFieldOptions(f domain.Family) FieldOptions {
	folded := FieldOption{PreserveCase: false}
	switch f {
	case domain.FamilyCatalogs, domain.FamilyProducts, domain.FamilyOfferings:
		return FieldOptions{FieldLifecycleStatus: folded, FieldBody: folded}
	case domain.FamilyInventory:
		return FieldOptions{FieldStatus: folded, FieldBody: folded}
	case domain.FamilyOrders:
		return FieldOptions{FieldStatus: folded}
	default:
		return FieldOptions{}
	}
}

// Hit is a single document returned by an engine search.
type Hit struct {
	Key      string          `json:"key"`
	Document json.RawMessage `json:"document"`
}

// Decode unmarshals the hit's document into v.
func (h Hit) Decode(v any) error {
	if err := json.Unmarshal(h.Document, v); err != nil {
		return fmt.Errorf("decode hit %s: %w", h.Key, err)
	}
	return nil
}

// OriginalID returns the source entity id of the hit.
func (h Hit) OriginalID() (domain.ID, error) {
	var c Common
	if err := h.Decode(&c); err != nil {
		return 0, err
	}
	return c.OriginalID, nil
}

func appendNonEmpty(m map[string][]string, field string, values ...string) {
	var kept []string
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) > 0 {
		m[field] = kept
	}
}

func boolTerm(b bool) string { return strconv.FormatBool(b) }
