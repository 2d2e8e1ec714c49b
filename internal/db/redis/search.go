package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/bizsearch/internal/db"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
)

// maxResults bounds unpaged searches (the server's default MAXSEARCHRESULTS).
const maxResults = 10000

// docField is the RETURN alias of the stored document.
const docField = "doc"

// searchList performs a sorted, paginated FT.SEARCH returning the stored documents.
func (s *Store) searchList(ctx context.Context, q string, sort query.Sort, offset, limit int) (*db.SearchResult, error) {
	dir := "ASC"
	if sort.Direction == query.Desc {
		dir = "DESC"
	}
	args := []string{
		s.indexName(), q,
		"RETURN", "3", "$." + docField, "AS", docField,
		"SORTBY", sort.Field, dir,
		"LIMIT", strconv.Itoa(offset), strconv.Itoa(limit),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseListResult(raw)
}

// --- Result parsing ---

func parseListResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, len(raw)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query building ---

// buildQuery translates a query descriptor into an FT.SEARCH query string.
// Clauses are intersected; an OR clause becomes a union of the conditions of
// all its groups. ok is false when the query can match nothing.
func buildQuery(q *query.Query, opts document.FieldOptions) (string, bool) {
	var parts []string
	for _, c := range q.Clauses {
		if len(c.And) > 0 && !c.And.IsMatchAll() {
			part, ok := buildCondition(c.And, opts)
			if !ok {
				return "", false
			}
			parts = append(parts, part)
		}
		if len(c.Or) > 0 {
			part, ok := buildOr(c.Or, opts)
			if !ok {
				return "", false
			}
			if part != "" {
				parts = append(parts, part)
			}
		}
	}
	if len(parts) == 0 {
		return "*", true
	}
	return strings.Join(parts, " "), true
}

// buildOr unions the conditions of every OR group. Conditions that can match
// nothing are dropped; a union left empty matches nothing.
func buildOr(groups [][]query.Condition, opts document.FieldOptions) (string, bool) {
	var alts []string
	for _, group := range groups {
		for _, cond := range group {
			if cond.IsMatchAll() {
				return "", true
			}
			if part, ok := buildCondition(cond, opts); ok {
				alts = append(alts, part)
			}
		}
	}
	if len(alts) == 0 {
		return "", false
	}
	return "(" + strings.Join(alts, " | ") + ")", true
}

// buildCondition intersects one tag filter per field.
func buildCondition(c query.Condition, opts document.FieldOptions) (string, bool) {
	fields := c.Fields()
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		values := c[field]
		if len(values) == 0 {
			return "", false
		}
		if field == document.FieldBody {
			part, ok := buildTextFilter(field, values)
			if !ok {
				return "", false
			}
			parts = append(parts, part)
			continue
		}
		parts = append(parts, buildTagFilter(field, values, opts.Folded(field)))
	}
	if len(parts) == 1 {
		return parts[0], true
	}
	return "(" + strings.Join(parts, " ") + ")", true
}

func buildTagFilter(key string, values []string, fold bool) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		if fold {
			v = strings.ToLower(v)
		}
		escaped[i] = tagEscaper.Replace(v)
	}
	return fmt.Sprintf("@%s:{%s}", key, strings.Join(escaped, " | "))
}

// buildTextFilter matches documents holding every word of any one value.
func buildTextFilter(key string, values []string) (string, bool) {
	alts := make([]string, 0, len(values))
	for _, v := range values {
		words := strings.Fields(strings.ToLower(v))
		if len(words) == 0 {
			continue
		}
		for i, w := range words {
			words[i] = textEscaper.Replace(w)
		}
		alts = append(alts, strings.Join(words, " "))
	}
	switch len(alts) {
	case 0:
		return "", false
	case 1:
		return fmt.Sprintf("@%s:(%s)", key, alts[0]), true
	}
	return fmt.Sprintf("@%s:((%s))", key, strings.Join(alts, ") | (")), true
}

// --- Query helpers ---

// punctuation is escaped in tag and text filter values.
var punctuation = []string{
	",", ".", "<", ">", "{", "}", "[", "]", "\"", "'", ":", ";", "!", "@", "#",
	"$", "%", "^", "&", "*", "(", ")", "-", "+", "=", "~", "|", "/",
}

var (
	// tagEscaper also escapes spaces: a tag value is one token.
	tagEscaper = newEscaper(append([]string{" "}, punctuation...))
	// textEscaper escapes a single word; words are split on spaces first.
	textEscaper = newEscaper(punctuation)
)

func newEscaper(chars []string) *strings.Replacer {
	pairs := make([]string, 0, 2*len(chars))
	for _, c := range chars {
		pairs = append(pairs, c, `\`+c)
	}
	return strings.NewReplacer(pairs...)
}
