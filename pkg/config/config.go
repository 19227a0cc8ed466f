// Package config loads site configuration and page summaries from disk.
//
// Files are decoded by extension: .toml (the primary format), .yaml/.yml
// and .json. A site file holds the schema.Config fields at the top level
// plus optional [cache] and [server] tables for the CLI and preview server:
//
//	site_url  = "https://example.com"
//	site_name = "Example"
//
//	[organization]
//	enabled = true
//	name    = "Example Ltd"
//
//	[cache]
//	backend   = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// Environment variables prefixed with LDGRAPH_ override a small set of
// fields after decoding (see ApplyEnv).
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/ldgraph/pkg/errors"
	"github.com/matzehuels/ldgraph/pkg/schema"
)

// Supported file formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// DefaultFiles are the site config names looked up by Discover, in order.
var DefaultFiles = []string{"ldgraph.toml", "ldgraph.yaml", "ldgraph.yml", "ldgraph.json"}

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// File is the decoded content of a site config file.
type File struct {
	schema.Config `yaml:",inline"`

	Cache  CacheSettings  `toml:"cache" yaml:"cache" json:"cache"`
	Server ServerSettings `toml:"server" yaml:"server" json:"server"`
}

// CacheSettings selects and configures the cache backend.
type CacheSettings struct {
	// Backend is "file" (default), "redis" or "none".
	Backend  string `toml:"backend" yaml:"backend" json:"backend,omitempty"`
	Dir      string `toml:"dir" yaml:"dir" json:"dir,omitempty"`
	RedisURL string `toml:"redis_url" yaml:"redis_url" json:"redis_url,omitempty"`
	// Prefix scopes every key, for Redis instances shared between environments.
	Prefix string `toml:"prefix" yaml:"prefix" json:"prefix,omitempty"`
}

// ServerSettings configures the preview API.
type ServerSettings struct {
	Addr string `toml:"addr" yaml:"addr" json:"addr,omitempty"`
}

// DefaultAddr is the preview server listen address.
const DefaultAddr = ":8080"

// FormatOf returns the config format implied by a file extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported config file %q (want .toml, .yaml or .json)", filepath.Base(path))
}

// Decode decodes data in the given format into v.
func Decode(data []byte, format string, v any) error {
	if err := unmarshal(data, format, v); err != nil {
		if errors.GetCode(err) != "" {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", format)
	}
	return nil
}

func unmarshal(data []byte, format string, v any) error {
	switch format {
	case FormatTOML:
		return toml.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatJSON:
		return json.NewDecoder(bytes.NewReader(data)).Decode(v)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q", format)
}

// Load reads a site config file, applies environment overrides and fills
// defaults for the cache and server settings.
func Load(path string) (*File, error) {
	var f File
	if err := decodeFile(path, &f); err != nil {
		return nil, err
	}
	f.ApplyEnv(os.LookupEnv)
	f.applyDefaults()
	return &f, nil
}

// LoadSite is Load for callers that only need the schema configuration.
func LoadSite(path string) (schema.Config, error) {
	f, err := Load(path)
	if err != nil {
		return schema.Config{}, err
	}
	return f.Config, nil
}

// LoadPage reads a page summary file.
func LoadPage(path string) (schema.PageSummary, error) {
	var p schema.PageSummary
	if err := decodeFile(path, &p); err != nil {
		return schema.PageSummary{}, err
	}
	return p, nil
}

// Discover returns the first of DefaultFiles present in dir.
func Discover(dir string) (string, bool) {
	for _, name := range DefaultFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Default returns an empty config with defaults applied. It is used when no
// config file exists.
func Default() *File {
	var f File
	f.ApplyEnv(os.LookupEnv)
	f.applyDefaults()
	return &f
}

// ApplyEnv overrides fields from environment variables:
//
//	LDGRAPH_SITE_URL, LDGRAPH_SITE_NAME, LDGRAPH_LANGUAGE,
//	LDGRAPH_CACHE, LDGRAPH_REDIS_URL, LDGRAPH_CACHE_PREFIX, LDGRAPH_ADDR
//
// lookup is usually os.LookupEnv.
func (f *File) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set("LDGRAPH_SITE_URL", &f.SiteURL)
	set("LDGRAPH_SITE_NAME", &f.SiteName)
	set("LDGRAPH_LANGUAGE", &f.Language)
	set("LDGRAPH_CACHE", &f.Cache.Backend)
	set("LDGRAPH_REDIS_URL", &f.Cache.RedisURL)
	set("LDGRAPH_CACHE_PREFIX", &f.Cache.Prefix)
	set("LDGRAPH_ADDR", &f.Server.Addr)
}

func (f *File) applyDefaults() {
	if f.Cache.Backend == "" {
		f.Cache.Backend = CacheFile
		if f.Cache.RedisURL != "" {
			f.Cache.Backend = CacheRedis
		}
	}
	if f.Server.Addr == "" {
		f.Server.Addr = DefaultAddr
	}
}

// Validate checks the cache and server settings. Site fields are never
// invalid: missing or malformed values only reduce the emitted graph.
func (f *File) Validate() error {
	switch f.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if f.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", f.Cache.Backend)
	}
	return nil
}

func decodeFile(path string, v any) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	if err := unmarshal(data, format, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", filepath.Base(path))
	}
	return nil
}
