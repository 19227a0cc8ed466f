// Package cache stores capture bundles, layouts and rendered artifacts.
//
// Three backends share the Cache interface:
//   - FileCache: sharded JSON files under the user cache directory (CLI)
//   - RedisCache: a shared Redis instance (preview server)
//   - NullCache: stores nothing (--no-cache, tests)
//
// Keys are produced by a Keyer so that the CLI and the server agree on them.
// A ScopedKeyer prefixes every key, which separates environments sharing one
// Redis instance.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A miss is reported as (nil, false, nil); errors are reserved for
// backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default entry lifetimes.
const (
	// TTLCapture bounds how long a captured bundle is reused before the
	// page is captured again.
	TTLCapture = 24 * time.Hour

	// TTLGraph is the lifetime of built JSON-LD documents.
	TTLGraph = 24 * time.Hour

	// TTLLayout is the lifetime of computed layouts.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is the lifetime of rendered artifacts.
	TTLArtifact = 7 * 24 * time.Hour
)
