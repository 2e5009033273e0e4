package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lumenote/searchd/internal/domain"
)

// --- Mocks ---

type mockListStore struct {
	pushed  []string
	lastKey string
	lastMax int
	pushErr error
}

func (m *mockListStore) ListPush(_ context.Context, key, value string, maxLen int) error {
	m.lastKey = key
	m.lastMax = maxLen
	if m.pushErr != nil {
		return m.pushErr
	}
	m.pushed = append(m.pushed, value)
	return nil
}

func (m *mockListStore) ListRange(_ context.Context, _ string, _, _ int) ([]string, error) {
	return nil, nil
}

// --- Tests ---

func TestRecordSearch_MintsIDAndTimestamp(t *testing.T) {
	store := &mockListStore{}
	sink := New(store)

	err := sink.RecordSearch(context.Background(), domain.SearchEvent{
		Query:       "sorting",
		ResultCount: 4,
		UserID:      "user-1",
	})
	if err != nil {
		t.Fatalf("RecordSearch: %v", err)
	}

	if store.lastKey != eventsKey || store.lastMax != maxEvents {
		t.Errorf("push: got key=%q cap=%d", store.lastKey, store.lastMax)
	}
	if len(store.pushed) != 1 {
		t.Fatalf("expected 1 event, got %d", len(store.pushed))
	}

	var event domain.SearchEvent
	if err := json.Unmarshal([]byte(store.pushed[0]), &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.ID == "" {
		t.Error("expected a minted event id")
	}
	if event.Timestamp.IsZero() {
		t.Error("expected a minted timestamp")
	}
	if event.Query != "sorting" || event.ResultCount != 4 {
		t.Errorf("unexpected event %+v", event)
	}
}

func TestRecordSearch_KeepsCallerID(t *testing.T) {
	store := &mockListStore{}
	sink := New(store)

	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := sink.RecordSearch(context.Background(), domain.SearchEvent{
		ID:        "evt-1",
		Query:     "calculus",
		Timestamp: stamp,
	})
	if err != nil {
		t.Fatalf("RecordSearch: %v", err)
	}

	var event domain.SearchEvent
	if err := json.Unmarshal([]byte(store.pushed[0]), &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.ID != "evt-1" {
		t.Errorf("id: got %q, want evt-1", event.ID)
	}
	if !event.Timestamp.Equal(stamp) {
		t.Errorf("timestamp: got %v, want %v", event.Timestamp, stamp)
	}
}

func TestRecordSearch_WrapsStoreError(t *testing.T) {
	pushErr := errors.New("conn reset")
	sink := New(&mockListStore{pushErr: pushErr})

	err := sink.RecordSearch(context.Background(), domain.SearchEvent{Query: "x"})
	if !errors.Is(err, pushErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}
