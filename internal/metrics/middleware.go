package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Server labels.
const (
	ServerAdmin   = "admin"
	ServerGateway = "gateway"
)

// apiPrefixDepth is the number of path segments kept for proxied requests:
// /api/<api>/<version>.
const apiPrefixDepth = 3

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizsearch",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds, by listener and route",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"server", "method", "route", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizsearch",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by listener and route",
		},
		[]string{"server", "method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration, httpRequestsTotal)
}

// Middleware records the duration and count of the requests served by the
// admin API or the gateway, as named by server.
func Middleware(server string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			labels := []string{
				server,
				r.Method,
				route(chi.RouteContext(r.Context()).RoutePattern(), r.URL.Path),
				strconv.Itoa(ww.status),
			}
			httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(labels...).Inc()
		})
	}
}

// route labels a request by its chi pattern. Proxied requests all match the
// catch-all, so they are labelled by their backend API prefix instead.
func route(pattern, path string) string {
	switch {
	case pattern == "":
		return "unknown"
	case strings.HasSuffix(pattern, "/*"):
		return apiPrefix(path)
	}
	return pattern
}

func apiPrefix(path string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) > apiPrefixDepth {
		segs = segs[:apiPrefixDepth]
	}
	return "/" + strings.Join(segs, "/")
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b) //nolint:wrapcheck // delegating to underlying ResponseWriter
}

// Unwrap exposes the underlying writer to http.ResponseController, which
// the reverse proxy uses to flush streamed responses.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
