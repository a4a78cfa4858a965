package cache

// ScopedKeyer wraps a Keyer with a prefix so several cache namespaces can
// share one backend. The CLI scopes keys by build version so an upgraded
// renderer never reads artifacts produced by an older one:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v0.3.1:")
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

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
