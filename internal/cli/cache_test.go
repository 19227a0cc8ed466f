package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/matzehuels/ldgraph/pkg/cache"
	"github.com/matzehuels/ldgraph/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".cache", "ldgraph")) {
		t.Errorf("cacheDir() = %q, want ~/.cache/ldgraph", dir)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg", "ldgraph") {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestFileCacheDirConfigured(t *testing.T) {
	dir, err := fileCacheDir(config.CacheSettings{Dir: "/srv/cache"})
	if err != nil || dir != "/srv/cache" {
		t.Errorf("fileCacheDir = %q, %v", dir, err)
	}
}

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name     string
		settings config.CacheSettings
		noCache  bool
		check    func(cache.Cache) bool
	}{
		{
			name:     "None",
			settings: config.CacheSettings{Backend: config.CacheNone},
			check:    func(c cache.Cache) bool { _, ok := c.(cache.NullCache); return ok },
		},
		{
			name:     "NoCacheFlag",
			settings: config.CacheSettings{Backend: config.CacheFile, Dir: t.TempDir()},
			noCache:  true,
			check:    func(c cache.Cache) bool { _, ok := c.(cache.NullCache); return ok },
		},
		{
			name:     "File",
			settings: config.CacheSettings{Backend: config.CacheFile, Dir: t.TempDir()},
			check:    func(c cache.Cache) bool { _, ok := c.(*cache.FileCache); return ok },
		},
		{
			name:     "Redis",
			settings: config.CacheSettings{Backend: config.CacheRedis, RedisURL: "redis://" + mr.Addr()},
			check:    func(c cache.Cache) bool { _, ok := c.(*cache.RedisCache); return ok },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newCache(ctx, tt.settings, tt.noCache)
			if err != nil {
				t.Fatalf("newCache: %v", err)
			}
			defer c.Close()
			if !tt.check(c) {
				t.Errorf("newCache returned %T", c)
			}
		})
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"capture:a", "graph:b"} {
		if err := fc.Set(ctx, k, []byte("x"), cache.TTLGraph); err != nil {
			t.Fatal(err)
		}
	}

	cfg := writeFile(t, t.TempDir(), "ldgraph.toml", "[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(dir)+"\"\n")
	if _, err := execute(t, "--config", cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, ok, _ := fc.Get(ctx, "capture:a"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestCachePathCommand(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "ldgraph.yaml", "cache:\n  backend: none\n")
	out, err := execute(t, "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != "(disabled)" {
		t.Errorf("cache path = %q", out)
	}
}
