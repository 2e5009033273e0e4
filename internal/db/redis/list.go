package redis

import (
	"context"

	"github.com/lumenote/searchd/internal/db"
)

// ListPush prepends a value to a list and trims it to maxLen entries.
// maxLen <= 0 leaves the list uncapped.
func (s *Store) ListPush(ctx context.Context, key, value string, maxLen int) error {
	cmd := s.b().Lpush().Key(key).Element(value).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpLPush, Err: err}
	}
	if maxLen > 0 {
		trim := s.b().Ltrim().Key(key).Start(0).Stop(int64(maxLen - 1)).Build()
		if err := s.do(ctx, trim).Error(); err != nil {
			return &db.Error{Op: db.OpLTrim, Err: err}
		}
	}
	return nil
}

// ListRange returns list entries in [start, stop] (Redis index semantics,
// stop = -1 means the tail).
func (s *Store) ListRange(ctx context.Context, key string, start, stop int) ([]string, error) {
	cmd := s.b().Lrange().Key(key).Start(int64(start)).Stop(int64(stop)).Build()
	vals, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpLRange, Err: err}
	}
	return vals, nil
}
