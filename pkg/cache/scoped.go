package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several environments
// (staging, production, a developer laptop) can share one Redis instance:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// CaptureKey implements Keyer.
func (k *ScopedKeyer) CaptureKey(target, mode string, inject bool) string {
	return k.prefix + k.inner.CaptureKey(target, mode, inject)
}

// GraphKey implements Keyer.
func (k *ScopedKeyer) GraphKey(configHash, pageHash string) string {
	return k.prefix + k.inner.GraphKey(configHash, pageHash)
}

// LayoutKey implements Keyer.
func (k *ScopedKeyer) LayoutKey(docsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(docsHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
