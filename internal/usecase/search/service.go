// Package search implements the hybrid relevance engine: lexical and
// semantic retrieval in parallel, merged into one candidate set, boosted,
// diversified, and paginated.
package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lumenote/searchd/internal/cache"
	"github.com/lumenote/searchd/internal/domain"
	"github.com/lumenote/searchd/internal/domain/query"
	"github.com/lumenote/searchd/internal/metrics"
)

// Request is one search invocation.
type Request struct {
	Query      string
	SubjectID  string
	DocumentID string
	UserID     string
	Page       int
	PerPage    int
}

// Service runs the search pipeline.
type Service struct {
	docs    DocumentStore
	vectors VectorIndex
	embed   Embedder
	logger  *zap.Logger

	queries   QueryLog
	corrector Corrector
	consent   ConsentStore
	analytics AnalyticsSink
	responses *cache.Cache[*domain.SearchResponse]

	keywordFetchLimit int
	semanticTopK      int
	maxPerGroup       int
	defaultPerPage    int
	maxPerPage        int

	now func() time.Time
}

// New creates a search service with default limits.
func New(docs DocumentStore, vectors VectorIndex, embed Embedder, logger *zap.Logger) *Service {
	return &Service{
		docs:              docs,
		vectors:           vectors,
		embed:             embed,
		logger:            logger,
		keywordFetchLimit: 100,
		semanticTopK:      50,
		maxPerGroup:       3,
		defaultPerPage:    20,
		maxPerPage:        100,
		now:               time.Now,
	}
}

// WithResponseCache attaches the page-1 response cache.
func (s *Service) WithResponseCache(c *cache.Cache[*domain.SearchResponse]) *Service {
	s.responses = c
	return s
}

// WithSuggestions attaches the query log and did-you-mean corrector.
func (s *Service) WithSuggestions(queries QueryLog, corrector Corrector) *Service {
	s.queries = queries
	s.corrector = corrector
	return s
}

// WithAnalytics attaches the consent store and event sink.
func (s *Service) WithAnalytics(consent ConsentStore, sink AnalyticsSink) *Service {
	s.consent = consent
	s.analytics = sink
	return s
}

// WithLimits overrides retrieval and pagination limits (zero keeps the default).
func (s *Service) WithLimits(keywordFetch, semanticTopK, maxPerGroup, defaultPerPage, maxPerPage int) *Service {
	if keywordFetch > 0 {
		s.keywordFetchLimit = keywordFetch
	}
	if semanticTopK > 0 {
		s.semanticTopK = semanticTopK
	}
	if maxPerGroup > 0 {
		s.maxPerGroup = maxPerGroup
	}
	if defaultPerPage > 0 {
		s.defaultPerPage = defaultPerPage
	}
	if maxPerPage > 0 {
		s.maxPerPage = maxPerPage
	}
	return s
}

// Search executes the pipeline. An empty or whitespace query short-circuits
// to an empty response without touching any collaborator. Both retrieval
// stages failing surfaces domain.ErrRetrievalFailed; a single failure
// degrades to the surviving stage.
func (s *Service) Search(ctx context.Context, req Request) (*domain.SearchResponse, error) {
	page, perPage := s.normalizePaging(req.Page, req.PerPage)

	info := query.Preprocess(req.Query)
	if info.IsEmpty() {
		metrics.SearchRequestsTotal.WithLabelValues("empty").Inc()
		return emptyResponse(page, perPage), nil
	}

	filters := domain.Filters{SubjectID: req.SubjectID, DocumentID: req.DocumentID}
	key := responseKey(info.Normalized, filters, page, perPage)

	// Only page 1 is cached; deeper pages are cheap recomputes.
	if page == 1 && s.responses != nil {
		if resp, ok := s.responses.Get(key); ok {
			metrics.SearchRequestsTotal.WithLabelValues("cached").Inc()
			return resp, nil
		}
	}

	s.recordQuery(info.Normalized)

	keyword, semantic, err := s.retrieve(ctx, info, filters)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	// Arena merge: keyword candidates first, semantic folded in by id.
	candidates := make(map[string]*domain.Candidate, len(keyword)+len(semantic))
	order := make([]string, 0, len(keyword)+len(semantic))
	for _, c := range keyword {
		candidates[c.Document.ID] = c
		order = append(order, c.Document.ID)
	}
	mergeSemantic(candidates, &order, semantic)

	ranked := rank(candidates, info, s.now())
	diversified := diversify(ranked, s.maxPerGroup)
	results, grouped, total, nextPage := paginate(diversified, page, perPage)

	resp := &domain.SearchResponse{
		Results:        results,
		GroupedResults: grouped,
		TotalResults:   total,
		Page:           page,
		PerPage:        perPage,
		NextPage:       nextPage,
	}

	if total == 0 && page == 1 && s.corrector != nil {
		correction, corrErr := s.corrector.Correction(ctx, req.Query)
		if corrErr != nil {
			s.logger.Warn("Did-you-mean lookup failed", zap.Error(corrErr))
		} else {
			resp.DidYouMean = correction
		}
	}

	if page == 1 && s.responses != nil {
		s.responses.Set(key, resp)
	}

	s.dispatchAnalytics(req, total)

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	return resp, nil
}

// retrieve runs the keyword and semantic stages concurrently. Stage errors
// are tolerated individually; both failing is fatal.
func (s *Service) retrieve(
	ctx context.Context, info query.Info, filters domain.Filters,
) (keyword, semantic []*domain.Candidate, err error) {
	var kwErr, semErr error

	// Plain Group, not WithContext: one stage failing must not cancel the
	// survivor mid-flight.
	var g errgroup.Group
	g.Go(func() error {
		start := time.Now()
		keyword, kwErr = s.keywordSearch(ctx, info, filters)
		metrics.SearchStageDuration.WithLabelValues("keyword").Observe(time.Since(start).Seconds())
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		semantic, semErr = s.semanticSearch(ctx, info, filters)
		metrics.SearchStageDuration.WithLabelValues("semantic").Observe(time.Since(start).Seconds())
		return nil
	})
	_ = g.Wait()

	if kwErr != nil && semErr != nil {
		return nil, nil, fmt.Errorf("%w: keyword: %w; semantic: %w",
			domain.ErrRetrievalFailed, kwErr, semErr)
	}
	if kwErr != nil {
		s.logger.Warn("Keyword stage failed, degrading to semantic results", zap.Error(kwErr))
		metrics.SearchDegradedTotal.WithLabelValues("keyword").Inc()
	}
	if semErr != nil {
		s.logger.Warn("Semantic stage failed, degrading to keyword results", zap.Error(semErr))
		metrics.SearchDegradedTotal.WithLabelValues("semantic").Inc()
	}
	return keyword, semantic, nil
}

// recordQuery appends to the did-you-mean history without blocking the
// request path.
func (s *Service) recordQuery(normalized string) {
	if s.queries == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.queries.Record(ctx, normalized); err != nil {
			s.logger.Warn("Failed to record query", zap.Error(err))
		}
	}()
}

// dispatchAnalytics persists a search event in the background, only for
// users who opted in. Failures are logged and swallowed: analytics must
// never delay or fail a response.
func (s *Service) dispatchAnalytics(req Request, total int) {
	if s.analytics == nil || s.consent == nil || req.UserID == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if !s.consent.AnalyticsAllowed(ctx, req.UserID) {
			return
		}
		event := domain.SearchEvent{
			Query:       req.Query,
			ResultCount: total,
			UserID:      req.UserID,
		}
		if err := s.analytics.RecordSearch(ctx, event); err != nil {
			s.logger.Warn("Failed to record search event", zap.Error(err))
		}
	}()
}

func (s *Service) normalizePaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = s.defaultPerPage
	}
	if perPage > s.maxPerPage {
		perPage = s.maxPerPage
	}
	return page, perPage
}

func emptyResponse(page, perPage int) *domain.SearchResponse {
	return &domain.SearchResponse{
		Results:        []*domain.Candidate{},
		GroupedResults: map[string][]*domain.Candidate{},
		Page:           page,
		PerPage:        perPage,
	}
}

// responseKey builds the cache key for a response: query signature plus
// filters plus paging.
func responseKey(normalized string, filters domain.Filters, page, perPage int) string {
	return strings.Join([]string{
		normalized,
		filters.SubjectID,
		filters.DocumentID,
		strconv.Itoa(page),
		strconv.Itoa(perPage),
	}, "|")
}
