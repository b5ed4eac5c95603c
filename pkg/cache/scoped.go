package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Useful in hosted deployments where different users or projects need
// separate cache namespaces.
//
// Example usage:
//
//	// User-specific keys for private registries
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
//
//	// Global keys for public packages
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// ReleaseKey generates a prefixed key for latest-release lookups.
func (k *ScopedKeyer) ReleaseKey(pkg string) string {
	return k.prefix + k.inner.ReleaseKey(pkg)
}

// RenderKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) RenderKey(manifestHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(manifestHash, opts)
}
