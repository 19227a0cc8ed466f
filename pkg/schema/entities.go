package schema

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ldgraph/pkg/graph"
)

// Entity map keys.
const (
	KeyWebSite       = "website"
	KeyOrganization  = "organization"
	KeyPerson        = "person"
	KeyPublisher     = "publisher"
	KeyLogo          = "logo"
	KeyPersonImage   = "person-image"
	KeyPublisherLogo = "publisher-logo"
)

// flattenOrder is the emission order of known keys. Keys added by a
// Transform follow in sorted order.
var flattenOrder = []string{
	KeyWebSite,
	KeyOrganization,
	KeyLogo,
	KeyPerson,
	KeyPersonImage,
	KeyPublisher,
	KeyPublisherLogo,
}

// Entity is one built entity. Node is nil for a reference-only placeholder,
// such as a publisher that stands for the Organization.
type Entity struct {
	Node *graph.Node
	Ref  graph.Ref
}

// IsPlaceholder reports whether the entity is a reference without a node.
func (e *Entity) IsPlaceholder() bool { return e != nil && e.Node == nil }

func full(n *graph.Node) *Entity {
	return &Entity{Node: n, Ref: n.Ref()}
}

// Entities is the output of BuildEntities: a key → entity map plus a
// deterministic flattening.
type Entities struct {
	Root string
	Map  map[string]*Entity
}

// Get returns the entity under key, or nil.
func (e *Entities) Get(key string) *Entity {
	if e == nil {
		return nil
	}
	return e.Map[key]
}

// Ref returns the reference of the entity under key, or the zero Ref.
func (e *Entities) Ref(key string) graph.Ref {
	if ent := e.Get(key); ent != nil {
		return ent.Ref
	}
	return graph.Ref{}
}

// Nodes flattens the map into emission order. Placeholders contribute no node.
func (e *Entities) Nodes() []*graph.Node {
	if e == nil {
		return nil
	}
	known := make(map[string]bool, len(flattenOrder))
	var out []*graph.Node
	for _, k := range flattenOrder {
		known[k] = true
		if ent := e.Map[k]; ent != nil && ent.Node != nil {
			out = append(out, ent.Node)
		}
	}

	var extra []string
	for k := range e.Map {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		if ent := e.Map[k]; ent != nil && ent.Node != nil {
			out = append(out, ent.Node)
		}
	}
	return out
}

// =============================================================================
// Build Options
// =============================================================================

// Transform post-processes the entity map once, after the build and before
// flattening. It receives and returns the same map shape; returning nil
// leaves the map unchanged.
type Transform func(map[string]*Entity) map[string]*Entity

type buildOptions struct {
	transforms []Transform
	logger     *log.Logger
}

// BuildOption configures BuildEntities and Build.
type BuildOption func(*buildOptions)

// WithTransform adds a post-build transform. Multiple transforms run in the
// order given.
func WithTransform(fn Transform) BuildOption {
	return func(o *buildOptions) {
		if fn != nil {
			o.transforms = append(o.transforms, fn)
		}
	}
}

// WithLogger sets a logger for debug output about skipped entities.
func WithLogger(l *log.Logger) BuildOption {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func newBuildOptions(opts []BuildOption) buildOptions {
	o := buildOptions{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// =============================================================================
// Entity Model Builder
// =============================================================================

// BuildEntities builds the site-level entities from cfg.
//
// It never fails: a missing site root yields no entities, and each disabled
// or incomplete entity is skipped. When lookup is nil, cfg.Media is used.
func BuildEntities(cfg Config, lookup MediaLookup, opts ...BuildOption) *Entities {
	o := newBuildOptions(opts)
	lookup = lookupOrConfig(lookup, cfg)

	root := cfg.Root()
	ents := &Entities{Root: root, Map: make(map[string]*Entity)}
	if root == "" {
		o.logger.Debug("no site root, skipping entities", "site_url", cfg.SiteURL)
		return ents
	}

	b := &entityBuilder{cfg: cfg, lookup: lookup, root: root, ents: ents, log: o.logger}
	b.logo()
	b.organization()
	b.person()
	b.publisher()
	b.website()

	for _, fn := range o.transforms {
		if m := fn(ents.Map); m != nil {
			ents.Map = m
		}
	}
	return ents
}

func lookupOrConfig(lookup MediaLookup, cfg Config) MediaLookup {
	if lookup != nil {
		return lookup
	}
	return cfg.Media
}

type entityBuilder struct {
	cfg    Config
	lookup MediaLookup
	root   string
	ents   *Entities
	log    *log.Logger
}

func (b *entityBuilder) id(role string) string {
	return b.root + "#" + role
}

func (b *entityBuilder) put(key string, n *graph.Node) {
	if n != nil {
		b.ents.Map[key] = full(n)
	}
}

func (b *entityBuilder) logo() {
	b.put(KeyLogo, ResolveImage(b.lookup, b.cfg.Logo, SuffixLogo))
}

func (b *entityBuilder) organization() {
	c := b.cfg.Organization
	if !c.Enabled {
		return
	}
	name := firstNonEmpty(c.Name, b.cfg.SiteName)
	if name == "" {
		b.log.Debug("organization enabled without a name, skipping")
		return
	}

	n := graph.New("Organization", b.id(KeyOrganization)).
		Set("name", name).
		Set("legalName", c.LegalName).
		Set("url", firstNonEmpty(c.URL, b.root)).
		Set("description", NormalizeText(c.Description, b.cfg.DescriptionMax)).
		Set("email", c.Email).
		Set("telephone", c.Telephone)
	if logo := b.ents.Ref(KeyLogo); !logo.IsZero() {
		n.Set("logo", logo).Set("image", logo)
	}
	n.Set("sameAs", sameAs(c.SameAs))
	b.put(KeyOrganization, n)
}

func (b *entityBuilder) person() {
	c := b.cfg.Person
	if !c.Enabled {
		return
	}
	if c.Name == "" {
		b.log.Debug("person enabled without a name, skipping")
		return
	}

	n := graph.New("Person", b.id(KeyPerson)).
		Set("name", c.Name).
		Set("url", c.URL).
		Set("jobTitle", c.JobTitle).
		Set("description", NormalizeText(c.Description, b.cfg.DescriptionMax))

	// The brand logo stands in for a missing portrait under its own id.
	img := ResolveImage(b.lookup, c.Image, SuffixPersonImage)
	if img == nil {
		img = ResolveImage(b.lookup, b.cfg.Logo, SuffixPersonImage)
	}
	if img != nil {
		b.put(KeyPersonImage, img)
		n.Set("image", img.Ref())
	}
	n.Set("sameAs", sameAs(c.SameAs))
	b.put(KeyPerson, n)
}

func (b *entityBuilder) publisher() {
	c := b.cfg.Publisher
	if !c.Enabled {
		return
	}

	if c.Custom && c.Name != "" {
		n := graph.New("Organization", b.id(KeyPublisher)).
			Set("name", c.Name).
			Set("url", c.URL)
		if logo := ResolveImage(b.lookup, c.Logo, SuffixPublisherLogo); logo != nil {
			b.put(KeyPublisherLogo, logo)
			n.Set("logo", logo.Ref())
		}
		n.Set("sameAs", sameAs(c.SameAs))
		b.put(KeyPublisher, n)
		return
	}
	if c.Custom {
		b.log.Debug("custom publisher without a name, falling back to reference")
	}

	for _, key := range []string{KeyOrganization, KeyPerson} {
		if ref := b.ents.Ref(key); !ref.IsZero() {
			b.ents.Map[KeyPublisher] = &Entity{Ref: ref}
			return
		}
	}
}

func (b *entityBuilder) website() {
	n := graph.New("WebSite", b.id(KeyWebSite)).
		Set("url", b.root).
		Set("name", b.cfg.siteName()).
		Set("alternateName", b.cfg.AlternateName).
		Set("description", NormalizeText(b.cfg.SiteDescription, b.cfg.DescriptionMax)).
		Set("inLanguage", b.cfg.Language).
		Set("logo", b.ents.Ref(KeyLogo))

	if ref, ok := b.cfg.Priority().Resolve(b.ents); ok {
		n.Set("about", ref).Set("publisher", ref)
	}
	if b.cfg.SearchURL != "" {
		n.Set("potentialAction", searchAction(b.cfg.SearchURL))
	}
	b.put(KeyWebSite, n)
}

func searchAction(tmpl string) *graph.Node {
	target := graph.New("EntryPoint", "").Set("urlTemplate", tmpl)
	return graph.New("SearchAction", "").
		Set("target", target).
		Set("query-input", "required name=search_term_string")
}

func sameAs(links []string) []any {
	var out []any
	for _, l := range links {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
