package cache

// ScopedKeyer prefixes every key of an inner Keyer. A shared redis instance
// uses it to keep patrol entries in their own namespace.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "patrol:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResultKey implements Keyer.
func (k *ScopedKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(inputHash, opts)
}
