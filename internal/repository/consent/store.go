// Package consent reads per-user analytics consent flags, owned by the user
// service but mirrored into Redis for cheap reads.
package consent

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/lumenote/searchd/internal/db"
)

const keyPrefix = "searchd:consent:"

// store is the consumer interface for consent reads.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Store answers "has this user opted into analytics sharing?".
type Store struct {
	store  store
	logger *zap.Logger
}

// New creates a consent store.
func New(s db.KVStore, logger *zap.Logger) *Store {
	return &Store{store: s, logger: logger}
}

// AnalyticsAllowed reports whether the user opted in. Unknown users and read
// failures count as not opted in: analytics must never block on consent.
func (s *Store) AnalyticsAllowed(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}
	data, err := s.store.Get(ctx, keyPrefix+userID)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			s.logger.Warn("Failed to read analytics consent",
				zap.String("user_id", userID), zap.Error(err))
		}
		return false
	}
	return string(data) == "1" || string(data) == "true"
}
