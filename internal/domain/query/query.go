// Package query is the structured filter descriptor used to search the
// index tables.
//
// A Query is a list of clauses that must all hold. An AND clause holds when
// every field matches one of its accepted values. An OR clause is a list of
// alternative groups and holds when any group does; a group holds when any
// one of its conditions matches.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidParam is returned for malformed paging parameters.
var ErrInvalidParam = errors.New("invalid query parameter")

// Wildcard is the field and value that match every document.
const Wildcard = "*"

// DefaultSortField is the field every generated query sorts on.
const DefaultSortField = "sortedId"

// Condition maps a field name to its accepted values (any of).
type Condition map[string][]string

// IsMatchAll reports whether c is the {"*":["*"]} condition.
func (c Condition) IsMatchAll() bool {
	v, ok := c[Wildcard]
	return ok && len(c) == 1 && len(v) == 1 && v[0] == Wildcard
}

// Fields returns the condition's field names in sorted order.
func (c Condition) Fields() []string {
	out := make([]string, 0, len(c))
	for f := range c {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Direction is a sort direction.
type Direction string

const (
	// Asc sorts ascending.
	Asc Direction = "asc"
	// Desc sorts descending.
	Desc Direction = "desc"
)

// Sort orders the results of a query.
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Clause is one element of a query: either an AND condition or a list of
// OR groups.
type Clause struct {
	And Condition     `json:"AND,omitempty"`
	Or  [][]Condition `json:"OR,omitempty"`
}

// MarshalJSON keeps an empty AND map visible, as in {"AND":{}}.
func (c Clause) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 2)
	if c.Or != nil {
		out["OR"] = c.Or
	}
	if c.And != nil || c.Or == nil {
		and := c.And
		if and == nil {
			and = Condition{}
		}
		out["AND"] = and
	}
	return json.Marshal(out)
}

// IsEmpty reports whether the clause constrains nothing.
func (c Clause) IsEmpty() bool {
	return len(c.And) == 0 && len(c.Or) == 0
}

// Query is a complete search request against one table.
type Query struct {
	Sort     *Sort    `json:"sort,omitempty"`
	Offset   *int     `json:"offset,omitempty"`
	PageSize *int     `json:"pageSize,omitempty"`
	Clauses  []Clause `json:"query"`
}

// IsEmpty reports whether the query has no constraints at all.
func (q *Query) IsEmpty() bool {
	for _, c := range q.Clauses {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// MatchAll returns the condition matching every document.
func MatchAll() Condition {
	return Condition{Wildcard: {Wildcard}}
}

// WithMatchAll returns a copy of q whose clauses are replaced by match-all.
// Sort and paging are kept.
func (q *Query) WithMatchAll() *Query {
	out := *q
	out.Clauses = []Clause{{And: MatchAll()}}
	return &out
}

// Validate checks paging parameters and clause shapes.
func (q *Query) Validate() error {
	if q.Offset != nil && *q.Offset < 0 {
		return fmt.Errorf("offset %d: %w", *q.Offset, ErrInvalidParam)
	}
	if q.PageSize != nil && *q.PageSize < 0 {
		return fmt.Errorf("pageSize %d: %w", *q.PageSize, ErrInvalidParam)
	}
	if q.Sort != nil && q.Sort.Direction != "" && q.Sort.Direction != Asc && q.Sort.Direction != Desc {
		return fmt.Errorf("sort direction %q: %w", q.Sort.Direction, ErrInvalidParam)
	}
	for _, c := range q.Clauses {
		for _, group := range c.Or {
			for _, cond := range group {
				if len(cond) == 0 {
					return fmt.Errorf("empty OR condition: %w", ErrInvalidParam)
				}
			}
		}
	}
	return nil
}

// String renders q as JSON, for logs.
func (q *Query) String() string {
	raw, err := json.Marshal(q)
	if err != nil {
		return "<invalid query>"
	}
	return string(raw)
}

// Parse decodes a raw query payload.
func Parse(raw []byte) (*Query, error) {
	var q Query
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("decode query: %w: %w", ErrInvalidParam, err)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}
