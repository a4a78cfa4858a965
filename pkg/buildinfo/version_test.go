package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: " + Version, "commit: " + Commit, "built: " + Date} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestCacheScope(t *testing.T) {
	oldV, oldC := Version, Commit
	t.Cleanup(func() { Version, Commit = oldV, oldC })

	tests := []struct {
		version, commit, want string
	}{
		{"dev", "abc123", "dev-abc123:"},
		{"v1.2.0", "abc123", "v1.2.0:"},
	}
	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := CacheScope(); got != tt.want {
			t.Errorf("CacheScope() with %s/%s = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
	}
}
