package consent

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lumenote/searchd/internal/db"
)

// --- Mocks ---

type mockKV struct {
	values  map[string]string
	getErr  error
	lastKey string
}

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	m.lastKey = key
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return []byte(v), nil
}

func (m *mockKV) Set(_ context.Context, _ string, _ []byte) error { return nil }

func (m *mockKV) SetWithTTL(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

// --- Tests ---

func TestAnalyticsAllowed_OptedIn(t *testing.T) {
	for _, flag := range []string{"1", "true"} {
		kv := &mockKV{values: map[string]string{keyPrefix + "user-1": flag}}
		store := New(kv, zap.NewNop())

		if !store.AnalyticsAllowed(context.Background(), "user-1") {
			t.Errorf("flag %q: expected opted in", flag)
		}
	}
}

func TestAnalyticsAllowed_OptedOut(t *testing.T) {
	kv := &mockKV{values: map[string]string{keyPrefix + "user-1": "0"}}
	store := New(kv, zap.NewNop())

	if store.AnalyticsAllowed(context.Background(), "user-1") {
		t.Error("expected opted out for flag 0")
	}
}

func TestAnalyticsAllowed_UnknownUserDefaultsToNo(t *testing.T) {
	kv := &mockKV{}
	store := New(kv, zap.NewNop())

	if store.AnalyticsAllowed(context.Background(), "stranger") {
		t.Error("unknown user must not be opted in")
	}
	if kv.lastKey != keyPrefix+"stranger" {
		t.Errorf("unexpected key %q", kv.lastKey)
	}
}

func TestAnalyticsAllowed_EmptyUserSkipsRead(t *testing.T) {
	kv := &mockKV{}
	store := New(kv, zap.NewNop())

	if store.AnalyticsAllowed(context.Background(), "") {
		t.Error("empty user id must not be opted in")
	}
	if kv.lastKey != "" {
		t.Errorf("expected no read, got key %q", kv.lastKey)
	}
}

func TestAnalyticsAllowed_ReadFailureDefaultsToNo(t *testing.T) {
	kv := &mockKV{getErr: errors.New("conn refused")}
	store := New(kv, zap.NewNop())

	if store.AnalyticsAllowed(context.Background(), "user-1") {
		t.Error("read failure must count as not opted in")
	}
}
