// Package suggest produces typeahead completions and "did you mean"
// corrections for the search box.
package suggest

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/lumenote/searchd/internal/cache"
	"github.com/lumenote/searchd/internal/domain"
	"github.com/lumenote/searchd/internal/metrics"
)

// Suggestion source scores. A lowercased text deduplicates to its highest
// scoring source.
const (
	titlePrefixScore    = 100.0
	titleSubstringScore = 80.0
	subjectPrefixScore  = 60.0
	subjectContainScore = 40.0
	semanticTitleScore  = 20.0

	// Documents fetched per lexical lookup.
	titleFetchLimit = 50
	// Chunks pulled for the semantic source.
	semanticTopK = 10
	// Queries shorter than this skip the semantic source entirely.
	semanticMinLen = 4

	defaultLimit = 10
	maxLimit     = 50
)

// Service mines suggestions from document titles, subject names, and the
// vector index.
type Service struct {
	docs    DocumentStore
	vectors VectorIndex
	embed   Embedder
	cache   *cache.Cache[[]string]
	logger  *zap.Logger
}

// New creates a suggestion service. vectors and embed may be nil, which
// disables the semantic source.
func New(docs DocumentStore, vectors VectorIndex, embed Embedder, logger *zap.Logger) *Service {
	return &Service{
		docs:    docs,
		vectors: vectors,
		embed:   embed,
		logger:  logger,
	}
}

// WithCache attaches the suggestion cache.
func (s *Service) WithCache(c *cache.Cache[[]string]) *Service {
	s.cache = c
	return s
}

// Suggest returns up to limit completions for a partial query. Inputs
// shorter than two characters yield nil without touching any collaborator.
func (s *Service) Suggest(ctx context.Context, q string, limit int) ([]string, error) {
	q = strings.TrimSpace(q)
	if len(q) < 2 {
		metrics.SuggestRequestsTotal.WithLabelValues("short").Inc()
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	key := strings.ToLower(q) + "|" + strconv.Itoa(limit)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			metrics.SuggestRequestsTotal.WithLabelValues("cached").Inc()
			return cached, nil
		}
	}

	// text keyed by its lowercase form, each keeping its best score.
	type scored struct {
		text  string
		score float64
	}
	best := make(map[string]scored)
	admit := func(text string, score float64) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		k := strings.ToLower(text)
		if cur, ok := best[k]; !ok || score > cur.score {
			best[k] = scored{text: text, score: score}
		}
	}

	lower := strings.ToLower(q)

	docs, err := s.docs.FindBySubstring(ctx, q, domain.Filters{}, titleFetchLimit)
	if err != nil {
		metrics.SuggestRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("suggest lookup: %w", err)
	}
	for _, doc := range docs {
		title := strings.ToLower(doc.Title)
		switch {
		case strings.HasPrefix(title, lower):
			admit(doc.Title, titlePrefixScore)
		case strings.Contains(title, lower):
			admit(doc.Title, titleSubstringScore)
		}

		subject := strings.ToLower(doc.SubjectName)
		switch {
		case subject == "":
		case strings.HasPrefix(subject, lower):
			admit(doc.SubjectName, subjectPrefixScore)
		case strings.Contains(subject, lower):
			admit(doc.SubjectName, subjectContainScore)
		}
	}

	// Semantic source is best-effort: failures only cost us suggestions.
	if len(q) >= semanticMinLen && s.vectors != nil && s.embed != nil {
		for _, title := range s.semanticTitles(ctx, q) {
			admit(title, semanticTitleScore)
		}
	}

	ordered := make([]scored, 0, len(best))
	for _, v := range best {
		ordered = append(ordered, v)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].score != ordered[j].score {
			return ordered[i].score > ordered[j].score
		}
		return strings.ToLower(ordered[i].text) < strings.ToLower(ordered[j].text)
	})
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	suggestions := make([]string, 0, len(ordered))
	for _, v := range ordered {
		suggestions = append(suggestions, v.text)
	}

	if s.cache != nil {
		s.cache.Set(key, suggestions)
	}
	metrics.SuggestRequestsTotal.WithLabelValues("ok").Inc()
	return suggestions, nil
}

// semanticTitles returns the titles of documents whose chunks sit near the
// query embedding.
func (s *Service) semanticTitles(ctx context.Context, q string) []string {
	embResult, err := s.embed.Embed(ctx, strings.ToLower(q))
	if err != nil || len(embResult.Embedding) == 0 {
		if err != nil {
			s.logger.Warn("Embedding unavailable for suggestions", zap.Error(err))
		}
		return nil
	}

	chunks, err := s.vectors.NearestNeighbors(ctx, embResult.Embedding, semanticTopK)
	if err != nil {
		s.logger.Warn("Vector index unavailable for suggestions", zap.Error(err))
		return nil
	}
	if len(chunks) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(chunks))
	ids := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if _, dup := seen[chunk.DocumentID]; dup {
			continue
		}
		seen[chunk.DocumentID] = struct{}{}
		ids = append(ids, chunk.DocumentID)
	}
	sort.Strings(ids)

	docs, err := s.docs.FindByIDs(ctx, ids, domain.Filters{})
	if err != nil {
		s.logger.Warn("Failed to resolve semantic suggestion titles", zap.Error(err))
		return nil
	}

	titles := make([]string, 0, len(docs))
	for _, doc := range docs {
		titles = append(titles, doc.Title)
	}
	return titles
}
