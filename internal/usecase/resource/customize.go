package resource

import (
	"net/url"
	"strings"

	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
)

// Customizer parameter names.
const (
	ParamRelatedPartyID   = "relatedParty.id"
	ParamRelatedPartyRole = "relatedParty.role"
	ParamBody             = "body"
	ParamCategoryID       = "category.id"
	ParamCategoryName     = "category.name"
)

// list splits a comma separated parameter, dropping empty items.
func list(params url.Values, name string) []string {
	var out []string
	for _, raw := range params[name] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// anyOf adds an OR group over the listed values of param.
func anyOf(params url.Values, param, field string, b *query.Builder) {
	if values := list(params, param); len(values) > 0 {
		b.AddOr(field, values...)
	}
}

// keywords requires every body keyword.
func keywords(params url.Values, b *query.Builder) {
	for _, raw := range params[ParamBody] {
		for _, kw := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' }) {
			b.AddAnd(document.FieldBody, strings.ToLower(kw))
		}
	}
}

// owned builds the customizer of resources carrying relatedParty hashes and
// a status-like field.
func owned(statusField string) query.Customizer {
	return func(params url.Values, b *query.Builder) error {
		if ids := list(params, ParamRelatedPartyID); len(ids) > 0 {
			b.AddAnd(document.FieldRelatedPartyHash, domain.HashIDs(ids)...)
		}
		anyOf(params, statusField, statusField, b)
		keywords(params, b)
		return nil
	}
}

func offerings(params url.Values, b *query.Builder) error {
	if ids := list(params, ParamRelatedPartyID); len(ids) > 0 {
		b.AddAnd(document.FieldUserID, domain.HashIDs(ids)...)
	}
	if ids := list(params, ParamCategoryID); len(ids) > 0 {
		padded := make([]string, len(ids))
		for i, id := range ids {
			padded[i] = domain.PadID(id)
		}
		b.AddAnd(document.FieldCategoriesID, padded...)
	}
	if names := list(params, ParamCategoryName); len(names) > 0 {
		b.AddAnd(document.FieldCategoriesName, domain.HashIDs(names)...)
	}
	anyOf(params, document.FieldLifecycleStatus, document.FieldLifecycleStatus, b)
	keywords(params, b)
	return nil
}

// orders matches the seller hashes when the role filter asks for sellers.
func orders(params url.Values, b *query.Builder) error {
	if ids := list(params, ParamRelatedPartyID); len(ids) > 0 {
		field := document.FieldRelatedPartyHash
		if strings.EqualFold(params.Get(ParamRelatedPartyRole), domain.RoleSeller) {
			field = document.FieldSellerHash
		}
		b.AddAnd(field, domain.HashIDs(ids)...)
	}
	anyOf(params, document.FieldState, document.FieldState, b)
	return nil
}
