package cache

// ScopedKeyer wraps a Keyer with a prefix so several front ends can share
// one backend without colliding.
//
// Example usage:
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
//	cliKeyer := NewDefaultKeyer()
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

// SolveKey generates a prefixed solve key.
func (k *ScopedKeyer) SolveKey(instanceHash string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(instanceHash, opts)
}
