package common

import (
	"context"
	"time"
)

// CacheInterface defines the contract for cache implementations.
// Values are stored as JSON so both backends hand back the same typed values.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get decodes the cached value for key into dest.
	// Returns false on a miss or when the stored value cannot be decoded.
	Get(key string, dest interface{}) bool

	// Delete removes a value from cache by key
	Delete(key string)

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error

	// Name identifies the backend in health checks and metrics
	Name() string

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// GetOrLoad returns the cached value for key, or calls loader and caches its result.
// The hit flag is true when the value came from cache.
func GetOrLoad[T any](c CacheInterface, key string, duration time.Duration, loader func() (T, error)) (T, bool, error) {
	var cached T
	if c.Get(key, &cached) {
		return cached, true, nil
	}

	val, err := loader()
	if err != nil {
		return val, false, err
	}

	c.Set(key, val, duration)
	return val, false, nil
}
