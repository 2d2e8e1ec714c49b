// Package resource defines the list resources whose requests the search
// overlay accelerates and how each one turns query parameters into an index
// query.
package resource

import (
	"net/http"
	"net/url"
	"regexp"

	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
)

// Passthrough parameters forwarded to the backend after a rewrite.
const (
	ParamDepth  = "depth"
	ParamFields = "fields"
)

var passthrough = []string{ParamDepth, ParamFields}

// Definition describes one accelerated list resource.
type Definition struct {
	Name   string
	Family domain.Family
	// Pattern matches the request path. Named groups are handed to PathFields.
	Pattern *regexp.Regexp
	// Whitelist names parameters folded into AND constraints as is.
	Whitelist []string
	// Passthrough names parameters kept on the rewritten request.
	Passthrough []string
	// PathFields maps a named group of Pattern to the padded index field it
	// constrains.
	PathFields map[string]string
	Customize  query.Customizer
}

// Build returns the index query of r.
func (d *Definition) Build(r *http.Request) (*query.Query, error) {
	return query.Generic(d.Whitelist, "", d.customizer(r.URL.Path), r.URL.Query())
}

// customizer adds the path constraints ahead of the resource customizer.
func (d *Definition) customizer(p string) query.Customizer {
	if len(d.PathFields) == 0 {
		return d.Customize
	}
	groups := d.Pattern.FindStringSubmatch(p)
	return func(params url.Values, b *query.Builder) error {
		for i, name := range d.Pattern.SubexpNames() {
			field, ok := d.PathFields[name]
			if !ok || i >= len(groups) || groups[i] == "" {
				continue
			}
			b.AddAnd(field, domain.PadID(groups[i]))
		}
		if d.Customize != nil {
			return d.Customize(params, b)
		}
		return nil
	}
}

// Definitions returns the accelerated resources, most specific first.
func Definitions() []*Definition {
	return []*Definition{
		{
			Name:        "catalogOffering",
			Family:      domain.FamilyOfferings,
			Pattern:     regexp.MustCompile(`/catalogManagement/v2/catalog/(?P<catalog>[^/]+)/productOffering/?$`),
			Whitelist:   []string{"isBundle"},
			Passthrough: passthrough,
			PathFields:  map[string]string{"catalog": "catalog"},
			Customize:   offerings,
		},
		{
			Name:        "catalog",
			Family:      domain.FamilyCatalogs,
			Pattern:     regexp.MustCompile(`/catalogManagement/v2/catalog/?$`),
			Passthrough: passthrough,
			Customize:   owned("lifecycleStatus"),
		},
		{
			Name:        "productSpecification",
			Family:      domain.FamilyProducts,
			Pattern:     regexp.MustCompile(`/catalogManagement/v2/productSpecification/?$`),
			Whitelist:   []string{"isBundle"},
			Passthrough: passthrough,
			Customize:   owned("lifecycleStatus"),
		},
		{
			Name:        "productOffering",
			Family:      domain.FamilyOfferings,
			Pattern:     regexp.MustCompile(`/catalogManagement/v2/productOffering/?$`),
			Whitelist:   []string{"isBundle"},
			Passthrough: passthrough,
			Customize:   offerings,
		},
		{
			Name:        "inventory",
			Family:      domain.FamilyInventory,
			Pattern:     regexp.MustCompile(`/productInventory/v2/product/?$`),
			Whitelist:   []string{"productOffering"},
			Passthrough: passthrough,
			Customize:   owned("status"),
		},
		{
			Name:        "order",
			Family:      domain.FamilyOrders,
			Pattern:     regexp.MustCompile(`/productOrdering/v2/productOrder/?$`),
			Whitelist:   []string{"priority"},
			Passthrough: passthrough,
			Customize:   orders,
		},
	}
}
