package querylog

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockListStore struct {
	pushed    []string
	lastKey   string
	lastMax   int
	pushErr   error
	rangeVals []string
	rangeErr  error
	lastStart int
	lastStop  int
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

func (m *mockListStore) ListRange(_ context.Context, key string, start, stop int) ([]string, error) {
	m.lastKey = key
	m.lastStart = start
	m.lastStop = stop
	return m.rangeVals, m.rangeErr
}

// --- Tests ---

func TestRecord_PushesWithCap(t *testing.T) {
	store := &mockListStore{}
	log := New(store, 500)

	if err := log.Record(context.Background(), "sorting algorithms"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if len(store.pushed) != 1 || store.pushed[0] != "sorting algorithms" {
		t.Errorf("unexpected pushes %v", store.pushed)
	}
	if store.lastKey != logKey {
		t.Errorf("key: got %q, want %q", store.lastKey, logKey)
	}
	if store.lastMax != 500 {
		t.Errorf("cap: got %d, want 500", store.lastMax)
	}
}

func TestRecord_EmptyQuerySkipped(t *testing.T) {
	store := &mockListStore{}
	log := New(store, 500)

	if err := log.Record(context.Background(), ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(store.pushed) != 0 {
		t.Errorf("empty query must not be recorded, got %v", store.pushed)
	}
}

func TestRecord_WrapsStoreError(t *testing.T) {
	pushErr := errors.New("conn reset")
	log := New(&mockListStore{pushErr: pushErr}, 500)

	err := log.Record(context.Background(), "calculus")
	if !errors.Is(err, pushErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}

func TestSampleRecent_RangesNewestFirst(t *testing.T) {
	store := &mockListStore{rangeVals: []string{"newest", "older", "oldest"}}
	log := New(store, 500)

	got, err := log.SampleRecent(context.Background(), 3)
	if err != nil {
		t.Fatalf("SampleRecent: %v", err)
	}
	if len(got) != 3 || got[0] != "newest" {
		t.Errorf("unexpected sample %v", got)
	}
	if store.lastStart != 0 || store.lastStop != 2 {
		t.Errorf("range: got [%d, %d], want [0, 2]", store.lastStart, store.lastStop)
	}
}

func TestSampleRecent_ZeroLimit(t *testing.T) {
	store := &mockListStore{rangeVals: []string{"never"}}
	log := New(store, 500)

	got, err := log.SampleRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("SampleRecent: %v", err)
	}
	if got != nil {
		t.Errorf("zero limit must sample nothing, got %v", got)
	}
}
