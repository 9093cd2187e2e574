// Package cache stores serialized analysis results keyed by input content.
//
// Three backends share the Cache interface: FileCache for the CLI (one JSON
// entry per key under an XDG cache directory), RedisCache for the HTTP server,
// and NullCache when caching is disabled. Keys are built by a Keyer so the same
// grid text and search options always map to the same entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLResult is how long an analysis result stays cached. Results are a pure
// function of the key, so the TTL only bounds disk and memory use.
const TTLResult = 7 * 24 * time.Hour
