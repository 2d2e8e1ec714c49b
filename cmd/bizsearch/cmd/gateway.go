package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/bizsearch/internal/logger"
	"github.com/kailas-cloud/bizsearch/internal/metrics"
	chiTransport "github.com/kailas-cloud/bizsearch/internal/transport/chi"
	"github.com/kailas-cloud/bizsearch/internal/transport/overlay"
	indexuc "github.com/kailas-cloud/bizsearch/internal/usecase/index"
	"github.com/kailas-cloud/bizsearch/internal/usecase/resource"
)

// newProxy forwards requests to the backend gateway at baseURL.
func newProxy(baseURL string, logger *zap.Logger) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("upstream url %q must be absolute", baseURL)
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logpkg.FromContextOr(r.Context(), logger).Error("Upstream request failed",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
				Code:    chiTransport.CodeLookupFailed,
				Message: "upstream unavailable",
			})
		},
	}, nil
}

// newGatewayRouter serves every backend path through the search overlay and
// the reverse proxy.
func newGatewayRouter(baseURL string, svc *indexuc.Service, logger *zap.Logger) (http.Handler, error) {
	proxy, err := newProxy(baseURL, logger)
	if err != nil {
		return nil, err
	}
	ov := overlay.New(logger, overlay.Resources(resource.Definitions(), svc)...)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger, metrics.ServerGateway))
	r.Use(metrics.Middleware(metrics.ServerGateway))
	r.Use(ov.Handler)
	r.Handle("/*", proxy)
	return r, nil
}

// newAdminRouter serves the index admin API, health and metrics.
func newAdminRouter(apiKeys []string, server *chiTransport.Server, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger, metrics.ServerAdmin))
	r.Use(chiTransport.BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware(metrics.ServerAdmin))
	server.Routes(r)
	return r
}
