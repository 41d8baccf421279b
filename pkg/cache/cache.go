// Package cache stores normalized card tiles between runs.
//
// A tile is a card image after white flattening and Lanczos resizing to the
// run's card size. Tiles are keyed by the SHA-256 of the source file and the
// target pixel size, so edits to a file or a change of card size, scale or
// DPI never return a stale tile.
//
// Backends:
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP API or several machines
//   - [NullCache]: disables caching
package cache

import (
	"context"
	"time"
)

// TTLTile is how long a cached tile stays valid.
const TTLTile = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// A missing or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
