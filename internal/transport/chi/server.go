package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
	"github.com/kailas-cloud/bizsearch/internal/domain/query"
	healthuc "github.com/kailas-cloud/bizsearch/internal/usecase/health"
	indexuc "github.com/kailas-cloud/bizsearch/internal/usecase/index"
)

// maxBodyBytes bounds admin request bodies.
const maxBodyBytes = 32 << 20

// ErrorCode classifies an error response.
type ErrorCode string

// Error codes of the admin API.
const (
	CodeBadRequest     ErrorCode = "bad_request"
	CodeUnauthorized   ErrorCode = "unauthorized"
	CodeNoIndex        ErrorCode = "index_not_found"
	CodeInvalidQuery   ErrorCode = "invalid_query"
	CodeInvalidEntity  ErrorCode = "invalid_entity"
	CodeLookupFailed   ErrorCode = "lookup_failed"
	CodeNotInitialized ErrorCode = "not_initialized"
	CodeInternal       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchResponse is the body of a search reply.
type SearchResponse struct {
	Total int            `json:"total"`
	Hits  []document.Hit `json:"hits"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the index admin API.
type Server struct {
	index         *indexuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an admin API server.
func NewServer(index *indexuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		index:  index,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNoIndexForPath, http.StatusNotFound, CodeNoIndex),
		sentinelHandler(query.ErrInvalidParam, http.StatusBadRequest, CodeInvalidQuery),
		sentinelHandler(domain.ErrInvalidEntity, http.StatusBadRequest, CodeInvalidEntity),
		sentinelHandler(domain.ErrLookupFailed, http.StatusBadGateway, CodeLookupFailed),
		sentinelHandler(domain.ErrNotInitialized, http.StatusServiceUnavailable, CodeNotInitialized),
	}
	return s
}

// Routes mounts the admin API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/index/{family}", func(r chi.Router) {
		r.Post("/", s.Save)
		r.Post("/search", s.Search)
		r.Get("/owned/{owner}", s.SearchOwned)
		r.Delete("/{key}", s.Remove)
	})
}

// Save handles POST /index/{family}. The body is one entity or a list; the
// optional owner parameter sets the owner of offerings.
func (s *Server) Save(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var owner *domain.RelatedParty
	if id := r.URL.Query().Get("owner"); id != "" {
		owner = &domain.RelatedParty{ID: id}
	}

	if err := s.index.SaveRaw(r.Context(), chi.URLParam(r, "family"), raw, owner); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Remove handles DELETE /index/{family}/{key}.
func (s *Server) Remove(w http.ResponseWriter, r *http.Request) {
	if err := s.index.Remove(r.Context(), chi.URLParam(r, "family"), chi.URLParam(r, "key")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /index/{family}/search with a query document body.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	f, err := domain.ParseFamily(chi.URLParam(r, "family"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	q, err := query.Parse(raw)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	hits, err := s.index.Search(r.Context(), f, q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeHits(w, hits)
}

// SearchOwned handles GET /index/{family}/owned/{owner}.
func (s *Server) SearchOwned(w http.ResponseWriter, r *http.Request) {
	f, err := domain.ParseFamily(chi.URLParam(r, "family"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	hits, err := s.index.SearchOwned(r.Context(), f, chi.URLParam(r, "owner"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeHits(w, hits)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeHits(w http.ResponseWriter, hits []document.Hit) {
	if hits == nil {
		hits = []document.Hit{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Total: len(hits), Hits: hits})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNoIndexForPath,
		query.ErrInvalidParam,
		domain.ErrInvalidEntity,
		domain.ErrLookupFailed,
		domain.ErrNotInitialized,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
}
