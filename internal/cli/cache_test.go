package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Dir = "/srv/flowcanvas-cache"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/srv/flowcanvas-cache" {
		t.Errorf("cacheDir() = %q, want configured dir", dir)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "flow.json")
	writeSample(t, path)

	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear on empty cache error = %v", err)
	}
	if err := execute(t, "preview", path, "-f", "wires,dot"); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error = %v", err)
	}

	var left []string
	_ = filepath.WalkDir(filepath.Join(dir, "cache"), func(p string, d os.DirEntry, err error) error {
		if err == nil && strings.HasSuffix(p, ".json") {
			left = append(left, p)
		}
		return nil
	})
	if len(left) != 0 {
		t.Errorf("entries left after clear: %v", left)
	}
}

func TestNewCacheNoCache(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cc, err := c.newCache(t.Context(), true)
	if err != nil {
		t.Fatal(err)
	}
	defer cc.Close()
	if err := cc.Set(t.Context(), "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := cc.Get(t.Context(), "k"); hit {
		t.Error("--no-cache backend reported a hit")
	}
}
