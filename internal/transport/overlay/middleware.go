// Package overlay intercepts list requests bound for the backend and
// replaces their filters with the ids found in the search index.
package overlay

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
	"github.com/kailas-cloud/bizsearch/internal/logger"
	"github.com/kailas-cloud/bizsearch/internal/metrics"
)

// BuildFunc turns a list request into an index query.
type BuildFunc func(r *http.Request) (*query.Query, error)

// SearchFunc runs a query against the resource's table.
type SearchFunc func(ctx context.Context, q *query.Query) ([]document.Hit, error)

// Resource is one accelerated list resource.
type Resource struct {
	Name        string
	Family      domain.Family
	Pattern     *regexp.Regexp
	Build       BuildFunc
	Search      SearchFunc
	Passthrough []string
}

// Middleware rewrites the list requests of its resources.
type Middleware struct {
	resources []Resource
	logger    *zap.Logger
}

// New creates a Middleware. Resources are matched in order.
func New(logger *zap.Logger, resources ...Resource) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{resources: resources, logger: logger}
}

// Rewrite replaces the query string of r with the ids of the matching
// documents when r is a GET list request of a known resource without an id
// filter. It reports whether r was rewritten. On error r is left untouched.
func (m *Middleware) Rewrite(ctx context.Context, r *http.Request) (bool, error) {
	_, ok, err := m.rewrite(ctx, r)
	return ok, err
}

func (m *Middleware) rewrite(ctx context.Context, r *http.Request) (*Resource, bool, error) {
	if r.Method != http.MethodGet {
		return nil, false, nil
	}
	res := m.match(r.URL.Path)
	if res == nil {
		return nil, false, nil
	}
	params := r.URL.Query()
	if params.Has(query.ParamID) {
		return res, false, nil
	}

	q, err := res.Build(r)
	if err != nil {
		return res, false, err
	}
	if q.IsEmpty() {
		q = q.WithMatchAll()
	}

	start := time.Now()
	hits, err := res.Search(ctx, q)
	metrics.OverlaySearchDuration.WithLabelValues(res.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		return res, false, err
	}

	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		id, err := h.OriginalID()
		if err != nil {
			return res, false, err
		}
		ids = append(ids, id.String())
	}

	r.URL.RawQuery = rawQuery(ids, r.URL.RawQuery, res.Passthrough)
	return res, true, nil
}

func (m *Middleware) match(p string) *Resource {
	for i := range m.resources {
		if m.resources[i].Pattern.MatchString(p) {
			return &m.resources[i]
		}
	}
	return nil
}

// rawQuery renders id=<ids> followed by the passthrough parameters in
// declared order. Commas between ids are kept literal and passthrough pairs
// are copied from the original query as sent.
func rawQuery(ids []string, original string, passthrough []string) string {
	var sb strings.Builder
	sb.WriteString(query.ParamID)
	sb.WriteByte('=')
	sb.WriteString(strings.Join(ids, ","))
	for _, name := range passthrough {
		pair, ok := rawPair(original, name)
		if !ok {
			continue
		}
		sb.WriteByte('&')
		sb.WriteString(pair)
	}
	return sb.String()
}

// rawPair returns the first name=value pair of raw whose decoded name is
// name, without re-encoding it.
func rawPair(raw, name string) (string, bool) {
	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		k, _, _ := strings.Cut(pair, "=")
		if key, err := url.QueryUnescape(k); err == nil && key == name {
			return pair, true
		}
	}
	return "", false
}

// Handler rewrites matching requests and forwards every request to next.
// A failed rewrite is logged and the request goes to the backend as sent.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, ok, err := m.rewrite(r.Context(), r)
		switch {
		case err != nil:
			metrics.OverlayRequestsTotal.WithLabelValues(res.Name, metrics.OutcomeFallback).Inc()
			logger.FromContextOr(r.Context(), m.logger).Warn("Search overlay fallback",
				zap.String("resource", res.Name),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
		case ok:
			metrics.OverlayRequestsTotal.WithLabelValues(res.Name, metrics.OutcomeAccelerated).Inc()
		case res != nil:
			metrics.OverlayRequestsTotal.WithLabelValues(res.Name, metrics.OutcomePassthrough).Inc()
		}
		next.ServeHTTP(w, r)
	})
}
