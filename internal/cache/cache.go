// Package cache is a read-through list cache keyed by entity-collection
// name. Mutating operations invalidate their collections explicitly so the
// next read refetches from PostgreSQL; cache failures are never surfaced to
// callers.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Collection names used as cache keys.
const (
	CollectionClients      = "clients"
	CollectionGroups       = "contact_groups"
	CollectionOrders       = "orders"
	CollectionCallLogs     = "call_logs"
	CollectionGlobalEvents = "global_events"
)

type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a cache store. A nil redis client yields a store that always
// misses, which keeps the cache optional in tests.
func New(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{rdb: rdb, ttl: ttl, logger: logger}
}

// Key returns the redis key for a collection.
func Key(collection string) string {
	return "cache:" + collection
}

// GetList loads the cached listing for a collection into dest.
// Returns false on a miss, a decode failure or an unavailable cache.
func (s *Store) GetList(ctx context.Context, collection string, dest interface{}) bool {
	if s == nil || s.rdb == nil {
		return false
	}

	raw, err := s.rdb.Get(ctx, Key(collection)).Bytes()
	if err != nil {
		if err != redis.Nil && s.logger != nil {
			s.logger.Warn("cache read failed", zap.String("collection", collection), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		if s.logger != nil {
			s.logger.Warn("cache decode failed", zap.String("collection", collection), zap.Error(err))
		}
		return false
	}
	return true
}

// SetList stores a listing for a collection. Failures are logged and dropped.
func (s *Store) SetList(ctx context.Context, collection string, v interface{}) {
	if s == nil || s.rdb == nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("cache encode failed", zap.String("collection", collection), zap.Error(err))
		}
		return
	}

	if err := s.rdb.Set(ctx, Key(collection), raw, s.ttl).Err(); err != nil && s.logger != nil {
		s.logger.Warn("cache write failed", zap.String("collection", collection), zap.Error(err))
	}
}

// Invalidate drops the cached listings for the given collections.
func (s *Store) Invalidate(ctx context.Context, collections ...string) {
	if s == nil || s.rdb == nil || len(collections) == 0 {
		return
	}

	keys := make([]string, len(collections))
	for i, c := range collections {
		keys[i] = Key(c)
	}

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil && s.logger != nil {
		s.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
