// Package cache stores finished simulation runs so that repeated requests for
// the same strategy and input are answered without re-running the network.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entries on disk, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//
// Keys come from a [Keyer]. A run key hashes the strategy, the input values and
// every option that can change the outcome, so two runs share a key only when
// they are guaranteed to produce the same result.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long cached runs are kept when no TTL is configured.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value stored under key. The boolean reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}
