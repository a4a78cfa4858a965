// Package cache stores rendered preview artifacts.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for several `flowcanvas serve` instances
//   - [NullCache]: never stores anything (--no-cache, tests)
//
// # Keys
//
// Entries are keyed by [Keyer]. Artifact keys combine the hash of the
// serialized graph with every option that changes the rendered output, so
// editing the graph or the curvature settings never serves a stale render.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// ArtifactKeyOpts lists the render options that change an artifact.
type ArtifactKeyOpts struct {
	Module           string  `json:"module"`
	Format           string  `json:"format"`
	Detailed         bool    `json:"detailed,omitempty"`
	Curvature        float64 `json:"curvature"`
	RerouteStartEnd  float64 `json:"reroute_start_end"`
	RerouteCurvature float64 `json:"reroute"`
	FixCurvature     bool    `json:"fix_curvature,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one rendered preview.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes the graph hash together with the options.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
