package schema

import "strings"

// Config is a site configuration snapshot. Every field is optional.
//
// Struct tags cover TOML, YAML and JSON so the same type loads from any of the
// supported config formats.
type Config struct {
	// SiteURL is the site root. Entity ids are derived from it.
	SiteURL         string `toml:"site_url" yaml:"site_url" json:"site_url,omitempty"`
	SiteName        string `toml:"site_name" yaml:"site_name" json:"site_name,omitempty"`
	SiteDescription string `toml:"site_description" yaml:"site_description" json:"site_description,omitempty"`
	AlternateName   string `toml:"alternate_name" yaml:"alternate_name" json:"alternate_name,omitempty"`
	Language        string `toml:"language" yaml:"language" json:"language,omitempty"`

	// SearchURL is a URL template containing {search_term_string}. When set
	// the WebSite node carries a SearchAction.
	SearchURL string `toml:"search_url" yaml:"search_url" json:"search_url,omitempty"`

	// Logo is the brand logo media reference shared by the WebSite and
	// Organization entities and used as the Person image fallback.
	Logo string `toml:"logo" yaml:"logo" json:"logo,omitempty"`

	// IdentityPriority lists roles (person, organisation, publisher) in the
	// order consulted for the WebSite's primary identity.
	IdentityPriority []string `toml:"identity_priority" yaml:"identity_priority" json:"identity_priority,omitempty"`

	// DescriptionMax truncates descriptions at a word boundary. Zero means no limit.
	DescriptionMax int `toml:"description_max" yaml:"description_max" json:"description_max,omitempty"`

	// HeadlineMax truncates article headlines. Zero uses DefaultHeadlineMax.
	HeadlineMax int `toml:"headline_max" yaml:"headline_max" json:"headline_max,omitempty"`

	DisableBreadcrumbs bool `toml:"disable_breadcrumbs" yaml:"disable_breadcrumbs" json:"disable_breadcrumbs,omitempty"`

	Person       PersonConfig       `toml:"person" yaml:"person" json:"person"`
	Organization OrganizationConfig `toml:"organization" yaml:"organization" json:"organization"`
	Publisher    PublisherConfig    `toml:"publisher" yaml:"publisher" json:"publisher"`

	// Special overrides the node type or id of special pages, keyed by kind.
	Special map[string]SpecialConfig `toml:"special" yaml:"special" json:"special,omitempty"`

	// Media is a static media library consulted when no other lookup is given.
	Media MediaLibrary `toml:"media" yaml:"media" json:"media,omitempty"`
}

// PersonConfig configures the Person entity.
type PersonConfig struct {
	Enabled     bool     `toml:"enabled" yaml:"enabled" json:"enabled"`
	Name        string   `toml:"name" yaml:"name" json:"name,omitempty"`
	JobTitle    string   `toml:"job_title" yaml:"job_title" json:"job_title,omitempty"`
	Description string   `toml:"description" yaml:"description" json:"description,omitempty"`
	URL         string   `toml:"url" yaml:"url" json:"url,omitempty"`
	Image       string   `toml:"image" yaml:"image" json:"image,omitempty"`
	SameAs      []string `toml:"same_as" yaml:"same_as" json:"same_as,omitempty"`
}

// OrganizationConfig configures the Organization entity.
type OrganizationConfig struct {
	Enabled     bool     `toml:"enabled" yaml:"enabled" json:"enabled"`
	Name        string   `toml:"name" yaml:"name" json:"name,omitempty"`
	LegalName   string   `toml:"legal_name" yaml:"legal_name" json:"legal_name,omitempty"`
	Description string   `toml:"description" yaml:"description" json:"description,omitempty"`
	URL         string   `toml:"url" yaml:"url" json:"url,omitempty"`
	Email       string   `toml:"email" yaml:"email" json:"email,omitempty"`
	Telephone   string   `toml:"telephone" yaml:"telephone" json:"telephone,omitempty"`
	SameAs      []string `toml:"same_as" yaml:"same_as" json:"same_as,omitempty"`
}

// PublisherConfig configures the Publisher entity. A publisher that is
// enabled but not Custom is a reference to the Organization or Person.
type PublisherConfig struct {
	Enabled bool     `toml:"enabled" yaml:"enabled" json:"enabled"`
	Custom  bool     `toml:"custom" yaml:"custom" json:"custom"`
	Name    string   `toml:"name" yaml:"name" json:"name,omitempty"`
	URL     string   `toml:"url" yaml:"url" json:"url,omitempty"`
	Logo    string   `toml:"logo" yaml:"logo" json:"logo,omitempty"`
	SameAs  []string `toml:"same_as" yaml:"same_as" json:"same_as,omitempty"`
}

// SpecialConfig overrides how one special page kind is emitted.
type SpecialConfig struct {
	// Type replaces the node type from the built-in kind mapping.
	Type string `toml:"type" yaml:"type" json:"type,omitempty"`
	// IDSuffix replaces <pageUrl>#webpage with <root><IDSuffix>.
	IDSuffix string `toml:"id_suffix" yaml:"id_suffix" json:"id_suffix,omitempty"`
}

// DefaultHeadlineMax is the headline length limit applied when
// Config.HeadlineMax is zero.
const DefaultHeadlineMax = 110

// Root returns the normalized site root, ending in exactly one slash, or ""
// when SiteURL is not an absolute http(s) URL.
func (c Config) Root() string {
	u := strings.TrimSpace(c.SiteURL)
	if !isAbsoluteURL(u) {
		return ""
	}
	return strings.TrimRight(u, "/") + "/"
}

// Priority returns the parsed identity priority, or DefaultPriority.
func (c Config) Priority() IdentityPriority {
	return ParsePriority(c.IdentityPriority)
}

func (c Config) headlineMax() int {
	if c.HeadlineMax > 0 {
		return c.HeadlineMax
	}
	return DefaultHeadlineMax
}

func (c Config) siteName() string {
	if c.SiteName != "" {
		return c.SiteName
	}
	return hostOf(c.Root())
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}
