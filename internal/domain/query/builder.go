package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kailas-cloud/bizsearch/internal/domain"
)

// Paging parameter names read from list requests.
const (
	ParamOffset = "offset"
	ParamSize   = "size"
	ParamID     = "id"
)

// Builder accumulates the AND conditions and OR groups of a query.
type Builder struct {
	and []Condition
	or  [][]Condition
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddAnd requires field to match one of values, on top of every constraint
// already added, including earlier ones on the same field.
func (b *Builder) AddAnd(field string, values ...string) *Builder {
	return b.AddAndCondition(Condition{field: values})
}

// AddAndCondition appends a pre-built condition to the AND list.
func (b *Builder) AddAndCondition(c Condition) *Builder {
	if len(c) > 0 {
		b.and = append(b.and, c)
	}
	return b
}

// AddOr appends a group satisfied by any one of field=value.
func (b *Builder) AddOr(field string, values ...string) *Builder {
	group := make([]Condition, len(values))
	for i, v := range values {
		group[i] = Condition{field: {v}}
	}
	b.or = append(b.or, group)
	return b
}

// And returns the AND conditions in the order they were added.
func (b *Builder) And() []Condition { return b.and }

// Or returns the OR groups.
func (b *Builder) Or() [][]Condition { return b.or }

// Clauses assembles [{AND}] followed by {OR} when any group was added.
// AND conditions are merged into the first clause; a condition on a field
// already constrained there gets an AND clause of its own, so both hold.
func (b *Builder) Clauses() []Clause {
	merged := Condition{}
	var extra []Clause
	for _, c := range b.and {
		if overlaps(merged, c) {
			extra = append(extra, Clause{And: c})
			continue
		}
		for f, v := range c {
			merged[f] = v
		}
	}
	clauses := append([]Clause{{And: merged}}, extra...)
	if len(b.or) > 0 {
		clauses = append(clauses, Clause{Or: b.or})
	}
	return clauses
}

func overlaps(a, b Condition) bool {
	for f := range b {
		if _, ok := a[f]; ok {
			return true
		}
	}
	return false
}

// Customizer adds resource-specific constraints before whitelisted
// parameters are folded in.
type Customizer func(params url.Values, b *Builder) error

// Generic builds the query of a list request. Whitelisted parameters become
// AND constraints on prefix+name with a single lowercased value; offset and
// size set the paging; the result is sorted by sortedId ascending.
func Generic(whitelist []string, prefix string, customize Customizer, params url.Values) (*Query, error) {
	b := NewBuilder()
	if customize != nil {
		if err := customize(params, b); err != nil {
			return nil, err
		}
	}

	for _, field := range whitelist {
		if reserved(field) {
			continue
		}
		if v := params.Get(field); v != "" {
			b.AddAnd(prefix+field, strings.ToLower(v))
		}
	}

	q := &Query{
		Sort:    &Sort{Field: DefaultSortField, Direction: Asc},
		Clauses: b.Clauses(),
	}
	var err error
	if q.Offset, err = intParam(params, ParamOffset); err != nil {
		return nil, err
	}
	if q.PageSize, err = intParam(params, ParamSize); err != nil {
		return nil, err
	}
	return q, nil
}

// ForOwner returns the query of every document owned by ownerID.
func ForOwner(ownerID string) *Query {
	return &Query{
		Clauses: []Clause{{And: Condition{"userId": {domain.HashID(ownerID)}}}},
	}
}

// BySortedID returns the query of the document with the given sorted id.
func BySortedID(sortedID string) *Query {
	return &Query{
		Clauses: []Clause{{And: Condition{DefaultSortField: {sortedID}}}},
	}
}

func reserved(name string) bool {
	return name == ParamOffset || name == ParamSize || name == ParamID
}

func intParam(params url.Values, name string) (*int, error) {
	if !params.Has(name) {
		return nil, nil
	}
	n, err := strconv.Atoi(params.Get(name))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%s=%q: %w", name, params.Get(name), ErrInvalidParam)
	}
	return &n, nil
}
