// Package cache provides pluggable storage for build artifacts.
//
// The primary use is caching serialized manifest snapshots and rendered
// sprite sheets between builds, so unchanged (target, language) pairs can be
// restored without re-running build tasks.
//
// # Architecture
//
// The package defines two abstractions:
//   - Cache: byte storage with TTL semantics (Get/Set/Delete/Close)
//   - Keyer: deterministic cache-key generation for domain objects
//
// Several backends are provided:
//   - FileCache: JSON files on disk, for single-machine CLI usage
//   - BadgerCache: embedded key-value store, for fast local incremental builds
//   - RedisCache: shared cache for CI fleets
//   - MongoCache: document store with TTL indexes, for hosted build services
//   - NullCache: disables caching entirely
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	if err != nil { ... }
//	defer c.Close()
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ManifestKey("/contacts", "en", cache.ManifestKeyOpts{Mode: "production"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache TTLs per artifact class. Manifest snapshots go stale as soon as
// source files change, so they expire quickly; rendered sprites are content
// addressed and can live longer.
const (
	TTLManifest = 1 * time.Hour
	TTLSprite   = 24 * time.Hour
	TTLConfig   = 1 * time.Hour
)

// Cache stores opaque byte values under string keys with optional expiry.
//
// Implementations must treat a missing key as a miss (hit == false), never
// as an error. All implementations are safe for concurrent use.
type Cache interface {
	// Get retrieves a value. hit is false when the key is absent or expired.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores a value. A ttl of zero means no expiry; a negative ttl
	// stores an entry that is already expired.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
