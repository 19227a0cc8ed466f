package schema

import (
	"strings"

	"github.com/matzehuels/ldgraph/pkg/graph"
)

// Asset is a resolved image. Two assets are the same image when their URLs
// match; dimensions and description are descriptive only.
type Asset struct {
	URL         string `toml:"url" yaml:"url" json:"url"`
	Width       int    `toml:"width" yaml:"width" json:"width,omitempty"`
	Height      int    `toml:"height" yaml:"height" json:"height,omitempty"`
	Description string `toml:"description" yaml:"description" json:"description,omitempty"`
}

// Equal reports whether a and b are the same image.
func (a Asset) Equal(b Asset) bool { return a.URL == b.URL }

// MediaLookup resolves an opaque media reference. A miss returns false; it
// never panics or errors.
type MediaLookup interface {
	Lookup(ref string) (Asset, bool)
}

// MediaLibrary is a map-backed MediaLookup keyed by reference.
type MediaLibrary map[string]Asset

// Lookup implements MediaLookup. Entries without a URL count as misses.
func (m MediaLibrary) Lookup(ref string) (Asset, bool) {
	a, ok := m[ref]
	if !ok || a.URL == "" {
		return Asset{}, false
	}
	return a, true
}

// Image id suffixes by usage.
const (
	SuffixLogo          = "#logo"
	SuffixPersonImage   = "#person-image"
	SuffixPublisherLogo = "#publisher-logo"
)

// ResolveAsset resolves ref through lookup. When the lookup misses (or is
// nil), a literal http(s) or protocol-relative URL resolves to itself.
func ResolveAsset(lookup MediaLookup, ref string) (Asset, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Asset{}, false
	}
	if lookup != nil {
		if a, ok := lookup.Lookup(ref); ok {
			return a, true
		}
	}
	if isAbsoluteURL(ref) || strings.HasPrefix(ref, "//") {
		return Asset{URL: ref}, true
	}
	return Asset{}, false
}

// ResolveImage resolves ref into an ImageObject node with id url+suffix.
// It returns nil when ref cannot be resolved to a URL.
func ResolveImage(lookup MediaLookup, ref, suffix string) *graph.Node {
	a, ok := ResolveAsset(lookup, ref)
	if !ok {
		return nil
	}
	return imageNode(a, a.URL+suffix)
}

// InlineImage returns an anonymous ImageObject for a, used for values that
// are never referenced elsewhere in the graph (e.g. a page hero image).
func InlineImage(a Asset) *graph.Node {
	if a.URL == "" {
		return nil
	}
	return imageNode(a, "")
}

func imageNode(a Asset, id string) *graph.Node {
	n := graph.New("ImageObject", id).
		Set("url", a.URL).
		Set("contentUrl", a.URL)
	if a.Width > 0 {
		n.Set("width", a.Width)
	}
	if a.Height > 0 {
		n.Set("height", a.Height)
	}
	return n.Set("caption", a.Description)
}
