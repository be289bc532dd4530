// Package cache stores solved schedules so repeated runs on the same
// instance with the same options return immediately.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for the
// HTTP service and [NullCache] when caching is disabled. Keys come from a
// [Keyer] so callers never build key strings by hand.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// DefaultTTL is how long solve results stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetJSON loads and decodes a JSON value. A value that fails to decode is
// reported as a miss.
func GetJSON[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var v T
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return v, false, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, nil
	}
	return v, true, nil
}
