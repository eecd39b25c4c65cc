// Package cache is a small JSON cache in front of the product read paths.
//
// Values are serialised with encoding/json so the Redis and in-memory stores
// behave identically. A cache failure never fails the caller: reads fall
// through to the database and write errors are only logged.
package cache

import (
	"context"
	"time"

	"github.com/shashiranjanraj/inventario/pkg/logger"
	"github.com/shashiranjanraj/inventario/pkg/metrics"
)

// Store is a key/value cache holding JSON-encoded values.
type Store interface {
	// Get decodes the value under key into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Driver names the backend for metrics labels ("redis" or "memory").
	Driver() string
}

// Remember returns the cached value under key, or calls load, caches its
// result for ttl and returns it. Load errors are returned and nothing is cached.
func Remember[T any](ctx context.Context, s Store, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if s.Get(ctx, key, &cached) {
		metrics.CacheHits.WithLabelValues(s.Driver()).Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues(s.Driver()).Inc()

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := s.Set(ctx, key, v, ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache: set failed", "key", key, "error", err)
	}
	return v, nil
}

// Forget deletes keys, logging rather than returning a failure.
func Forget(ctx context.Context, s Store, keys ...string) {
	if err := s.Del(ctx, keys...); err != nil {
		logger.WithCtx(ctx).Warn("cache: delete failed", "keys", keys, "error", err)
	}
}

// Open returns the Store selected by driver. A "redis" driver that cannot be
// reached degrades to Memory with a warning so the API keeps serving.
func Open(ctx context.Context, driver, addr, password string) Store {
	if driver != "redis" {
		return NewMemory()
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	r, err := Connect(pingCtx, addr, password)
	if err != nil {
		logger.WithCtx(ctx).Warn("cache: redis unavailable, using in-memory cache", "addr", addr, "error", err)
		return NewMemory()
	}
	logger.WithCtx(ctx).Info("cache: connected to redis", "addr", addr)
	return r
}
