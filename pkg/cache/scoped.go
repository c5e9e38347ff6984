package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-project isolation.
// This is useful when several projects share one Redis or Mongo backend and
// need separate cache namespaces.
//
// Example usage:
//
//	// Project-specific keys
//	projKeyer := NewScopedKeyer(NewDefaultKeyer(), "proj:contacts:")
//
//	// Global keys
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

// ManifestKey generates a prefixed key for manifest snapshot caching.
func (k *ScopedKeyer) ManifestKey(target, language string, opts ManifestKeyOpts) string {
	return k.prefix + k.inner.ManifestKey(target, language, opts)
}

// SpriteKey generates a prefixed key for sprite sheet caching.
func (k *ScopedKeyer) SpriteKey(manifestHash, sheet string, opts SpriteKeyOpts) string {
	return k.prefix + k.inner.SpriteKey(manifestHash, sheet, opts)
}

// ConfigKey generates a prefixed key for configuration caching.
func (k *ScopedKeyer) ConfigKey(project, path string) string {
	return k.prefix + k.inner.ConfigKey(project, path)
}
