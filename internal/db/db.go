// Package db defines the storage facade for the Redis-backed side state:
// the query log, consent flags, and the analytics sink.
package db

import (
	"context"
	"time"
)

// Store is the database facade. Consumers depend on the narrow
// sub-interfaces, not on Store itself.
type Store interface {
	Pinger
	KVStore
	ListStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ListStore provides capped-list operations (LPUSH / LTRIM / LRANGE).
type ListStore interface {
	ListPush(ctx context.Context, key, value string, maxLen int) error
	ListRange(ctx context.Context, key string, start, stop int) ([]string, error)
}
