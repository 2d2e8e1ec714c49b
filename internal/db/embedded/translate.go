package embedded

import (
	"strings"

	"github.com/blevesearch/bleve/v2"
	bq "github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
)

// translate turns a query descriptor into a bleve query. Every clause must
// hold; an OR clause holds when any condition of any of its groups does.
// Values of case-folded fields are lowercased to match the indexed terms.
func translate(q *query.Query, opts document.FieldOptions) bq.Query {
	var clauses []bq.Query
	for _, c := range q.Clauses {
		if c.And != nil && !c.And.IsMatchAll() && len(c.And) > 0 {
			clauses = append(clauses, condition(c.And, opts))
		}
		var alts []bq.Query
		for _, group := range c.Or {
			for _, cond := range group {
				alts = append(alts, condition(cond, opts))
			}
		}
		if len(alts) > 0 {
			clauses = append(clauses, bleve.NewDisjunctionQuery(alts...))
		}
	}
	if len(clauses) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return bleve.NewConjunctionQuery(clauses...)
}

func condition(c query.Condition, opts document.FieldOptions) bq.Query {
	if c.IsMatchAll() {
		return bleve.NewMatchAllQuery()
	}
	fields := make([]bq.Query, 0, len(c))
	for _, field := range c.Fields() {
		values := c[field]
		terms := make([]bq.Query, 0, len(values))
		for _, v := range values {
			if field == document.FieldBody {
				terms = append(terms, words(field, v))
				continue
			}
			if opts.Folded(field) {
				v = strings.ToLower(v)
			}
			t := bleve.NewTermQuery(v)
			t.SetField(field)
			terms = append(terms, t)
		}
		if len(terms) == 1 {
			fields = append(fields, terms[0])
			continue
		}
		// An empty disjunction matches nothing.
		fields = append(fields, bleve.NewDisjunctionQuery(terms...))
	}
	if len(fields) == 1 {
		return fields[0]
	}
	return bleve.NewConjunctionQuery(fields...)
}

// words matches documents whose field holds every word of v.
func words(field, v string) bq.Query {
	m := bleve.NewMatchQuery(v)
	m.SetField(field)
	m.Analyzer = bodyAnalyzer
	m.SetOperator(bq.MatchQueryOperatorAnd)
	return m
}
