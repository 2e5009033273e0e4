// Package doccache decorates the document store with a short-lived read
// cache. The document service notifies this engine on writes, so entries are
// also evicted explicitly through Invalidate.
package doccache

import (
	"context"

	"github.com/lumenote/searchd/internal/cache"
	"github.com/lumenote/searchd/internal/domain"
)

// Store is the read surface being decorated.
type Store interface {
	FindBySubstring(
		ctx context.Context, pattern string, filters domain.Filters, limit int,
	) ([]domain.Document, error)

	FindByIDs(
		ctx context.Context, ids []string, filters domain.Filters,
	) ([]domain.Document, error)

	GetByID(ctx context.Context, id string) (domain.Document, error)
}

// CachedStore caches by-id reads. Substring searches pass through: their
// result sets are query-shaped, not document-shaped, and the response cache
// already covers them.
type CachedStore struct {
	inner Store
	docs  *cache.Cache[domain.Document]
}

// New wraps a document store with the given cache namespace.
func New(inner Store, docs *cache.Cache[domain.Document]) *CachedStore {
	return &CachedStore{inner: inner, docs: docs}
}

// FindBySubstring delegates to the underlying store.
func (s *CachedStore) FindBySubstring(
	ctx context.Context, pattern string, filters domain.Filters, limit int,
) ([]domain.Document, error) {
	return s.inner.FindBySubstring(ctx, pattern, filters, limit)
}

// FindByIDs serves cached documents where possible and fetches the rest in
// one call. Filters are applied locally to cached entries so a hit behaves
// exactly like a store read.
func (s *CachedStore) FindByIDs(
	ctx context.Context, ids []string, filters domain.Filters,
) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(ids))
	missing := make([]string, 0, len(ids))

	for _, id := range ids {
		doc, ok := s.docs.Get(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		if matchesFilters(doc, filters) {
			out = append(out, doc)
		}
	}

	if len(missing) > 0 {
		// Fetch without filters so the cache holds the full document set;
		// filters are applied after.
		fetched, err := s.inner.FindByIDs(ctx, missing, domain.Filters{})
		if err != nil {
			return nil, err
		}
		for _, doc := range fetched {
			s.docs.Set(doc.ID, doc)
			if matchesFilters(doc, filters) {
				out = append(out, doc)
			}
		}
	}
	return out, nil
}

// GetByID returns the cached document or fetches and caches it.
func (s *CachedStore) GetByID(ctx context.Context, id string) (domain.Document, error) {
	if doc, ok := s.docs.Get(id); ok {
		return doc, nil
	}
	doc, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	s.docs.Set(id, doc)
	return doc, nil
}

// Invalidate evicts every cached entry whose key contains pattern and
// returns how many were removed. Called from the document service's write
// notifications.
func (s *CachedStore) Invalidate(pattern string) int {
	return s.docs.InvalidatePattern(pattern)
}

func matchesFilters(doc domain.Document, filters domain.Filters) bool {
	if filters.SubjectID != "" && doc.SubjectID != filters.SubjectID {
		return false
	}
	if filters.DocumentID != "" && doc.ID != filters.DocumentID {
		return false
	}
	return true
}
