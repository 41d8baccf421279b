package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one backend (for example a redis instance) without key collisions.
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
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

// TileKey generates a prefixed tile key.
func (k *ScopedKeyer) TileKey(contentHash string, opts TileKeyOpts) string {
	return k.prefix + k.inner.TileKey(contentHash, opts)
}
