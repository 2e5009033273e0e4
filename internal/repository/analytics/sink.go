// Package analytics writes search events to a capped Redis list for the
// platform's reporting pipeline to drain. Strictly fire-and-forget.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lumenote/searchd/internal/db"
	"github.com/lumenote/searchd/internal/domain"
)

const (
	eventsKey = "searchd:events"
	maxEvents = 10000
)

// store is the consumer interface for the analytics sink.
type store interface {
	ListPush(ctx context.Context, key, value string, maxLen int) error
}

// Sink persists search events.
type Sink struct {
	store store
}

// New creates an analytics sink.
func New(s db.ListStore) *Sink {
	return &Sink{store: s}
}

// RecordSearch persists one event. The caller assigns no id; one is minted
// here so retries by the reporting pipeline can dedup.
func (s *Sink) RecordSearch(ctx context.Context, event domain.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal search event: %w", err)
	}
	if err := s.store.ListPush(ctx, eventsKey, string(data), maxEvents); err != nil {
		return fmt.Errorf("record search event: %w", err)
	}
	return nil
}
