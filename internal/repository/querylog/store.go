// Package querylog persists the recent-query history that did-you-mean
// samples from. Backed by a capped Redis list: newest first, trimmed on
// every write.
package querylog

import (
	"context"
	"fmt"

	"github.com/lumenote/searchd/internal/db"
)

const logKey = "searchd:querylog"

// store is the consumer interface for the query log.
type store interface {
	ListPush(ctx context.Context, key, value string, maxLen int) error
	ListRange(ctx context.Context, key string, start, stop int) ([]string, error)
}

// Store records and samples historical queries.
type Store struct {
	store  store
	maxLen int
}

// New creates a query log capped at maxLen entries.
func New(s db.ListStore, maxLen int) *Store {
	return &Store{store: s, maxLen: maxLen}
}

// Record appends a query to the log, trimming to the cap.
func (s *Store) Record(ctx context.Context, query string) error {
	if query == "" {
		return nil
	}
	if err := s.store.ListPush(ctx, logKey, query, s.maxLen); err != nil {
		return fmt.Errorf("record query: %w", err)
	}
	return nil
}

// SampleRecent returns up to limit of the most recent queries, newest first.
func (s *Store) SampleRecent(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	queries, err := s.store.ListRange(ctx, logKey, 0, limit-1)
	if err != nil {
		return nil, fmt.Errorf("sample recent queries: %w", err)
	}
	return queries, nil
}
