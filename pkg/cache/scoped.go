package cache

// ScopedKeyer wraps a Keyer with a prefix so that several producers can share
// one backend without colliding. The HTTP server scopes its keys with "api:".
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

// RunKey generates a prefixed run key.
func (k *ScopedKeyer) RunKey(strategy, inputHash string, opts RunKeyOpts) string {
	return k.prefix + k.inner.RunKey(strategy, inputHash, opts)
}
