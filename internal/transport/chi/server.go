// Package chi exposes the search engine over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chiRouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lumenote/searchd/internal/domain"
	healthuc "github.com/lumenote/searchd/internal/usecase/health"
	searchuc "github.com/lumenote/searchd/internal/usecase/search"
	suggestuc "github.com/lumenote/searchd/internal/usecase/suggest"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest          = "bad_request"
	codeValidationFailed    = "validation_failed"
	codeNotFound            = "not_found"
	codeRetrievalFailed     = "retrieval_failed"
	codeUpstreamUnavailable = "upstream_unavailable"
	codeInternalError       = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DocumentInvalidator evicts cached document reads; wired to the cache
// invalidation hook the document service calls on writes.
type DocumentInvalidator interface {
	Invalidate(pattern string) int
}

// statusMapping binds a sentinel error to its HTTP representation.
type statusMapping struct {
	sentinel error
	status   int
	code     string
}

// Server holds the HTTP handlers.
type Server struct {
	search      *searchuc.Service
	suggest     *suggestuc.Service
	health      *healthuc.Service
	invalidator DocumentInvalidator
	logger      *zap.Logger
	mappings    []statusMapping
}

// NewServer creates the HTTP API server. invalidator may be nil, which
// disables the invalidation hook.
func NewServer(
	search *searchuc.Service,
	suggest *suggestuc.Service,
	health *healthuc.Service,
	invalidator DocumentInvalidator,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:      search,
		suggest:     suggest,
		health:      health,
		invalidator: invalidator,
		logger:      logger,
		mappings: []statusMapping{
			{domain.ErrRetrievalFailed, http.StatusBadGateway, codeRetrievalFailed},
			{domain.ErrDocumentNotFound, http.StatusNotFound, codeNotFound},
			{domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeUpstreamUnavailable},
			{domain.ErrDocStoreUnavailable, http.StatusServiceUnavailable, codeUpstreamUnavailable},
			{domain.ErrVectorIndexUnavailable, http.StatusServiceUnavailable, codeUpstreamUnavailable},
		},
	}
}

// Mount registers every route on the router.
func (s *Server) Mount(r chiRouter.Router) {
	r.Get("/v1/search", s.handleSearch)
	r.Get("/v1/suggest", s.handleSuggest)
	r.Post("/v1/internal/invalidate", s.handleInvalidate)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// handleSearch handles GET /v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := parseIntParam(q.Get("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "page must be an integer")
		return
	}
	perPage, err := parseIntParam(q.Get("per_page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "per_page must be an integer")
		return
	}

	req := searchuc.Request{
		Query:      q.Get("q"),
		SubjectID:  q.Get("subject_id"),
		DocumentID: q.Get("document_id"),
		UserID:     q.Get("user_id"),
		Page:       page,
		PerPage:    perPage,
	}

	resp, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSuggest handles GET /v1/suggest.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseIntParam(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be an integer")
		return
	}

	suggestions, err := s.suggest.Suggest(r.Context(), q.Get("q"), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// handleInvalidate handles POST /v1/internal/invalidate, called by the
// document service after a create, update, or delete.
func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	if s.invalidator == nil {
		writeError(w, http.StatusNotFound, codeNotFound, "invalidation not configured")
		return
	}

	var req struct {
		DocumentID string `json:"document_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "document_id is required")
		return
	}

	removed := s.invalidator.Invalidate(req.DocumentID)
	s.logger.Info("Document cache invalidated",
		zap.String("document_id", req.DocumentID),
		zap.Int("removed", removed),
	)
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, m := range s.mappings {
		if errors.Is(err, m.sentinel) {
			s.logger.Warn("domain error", zap.Error(err))
			writeError(w, m.status, m.code, m.sentinel.Error())
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func parseIntParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
