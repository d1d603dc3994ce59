// Package cache provides response caching for Spotify API calls.
//
// Three backends implement the Cache interface:
//   - FileCache: file-based cache for CLI usage (XDG cache dir)
//   - RedisCache: Redis-backed cache for the dashboard server
//   - NullCache: no-op cache for tests or --no-cache runs
//
// Keys for HTTP responses are built with HTTPKey so that the CLI and the
// server address the same entries.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the default lifetime of a cached Spotify response.
// Album art URLs are stable but playlist contents drift, so entries
// expire after a day rather than living forever.
const DefaultTTL = 24 * time.Hour

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// HTTPKey builds a cache key for an HTTP resource.
// The format is "http:<endpoint>:<hash of params>".
func HTTPKey(endpoint string, params ...interface{}) string {
	return hashKey("http:"+endpoint, params...)
}
