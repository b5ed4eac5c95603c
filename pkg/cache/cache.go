// Package cache provides pluggable caching for registry responses and
// rendered artifacts, with file, redis, and null backends.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached data class. Release metadata moves fast,
// rendered artifacts are content-addressed and can live longer.
const (
	TTLRelease  = 6 * time.Hour
	TTLHTTP     = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage backend interface. Get returns (data, hit, error):
// a miss is not an error. A TTL of 0 on Set means the entry never expires;
// a negative TTL means it is already expired and the next Get misses.
//
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys for the different data classes. Keeping key
// construction behind an interface lets multi-tenant deployments prefix
// keys per user (see ScopedKeyer) without touching call sites.
type Keyer interface {
	// HTTPKey keys a raw registry HTTP response.
	HTTPKey(namespace, key string) string
	// ReleaseKey keys the latest-release lookup for a package.
	ReleaseKey(pkg string) string
	// RenderKey keys a rendered artifact derived from a manifest hash.
	RenderKey(manifestHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts are the options that change a rendered artifact's content.
type RenderKeyOpts struct {
	Format string `json:"format"`
	Groups string `json:"groups"`
}

// DefaultKeyer is the standard key scheme: a class prefix plus the
// identifying components, with option structs hashed to keep keys short.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard Keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ReleaseKey generates a key for latest-release lookups.
func (k *DefaultKeyer) ReleaseKey(pkg string) string {
	return "release:" + pkg
}

// RenderKey generates a key for rendered artifacts.
func (k *DefaultKeyer) RenderKey(manifestHash string, opts RenderKeyOpts) string {
	return hashKey("render:"+manifestHash, opts)
}
