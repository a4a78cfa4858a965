// Package pipeline renders preview artifacts of a flow graph.
//
// This package is shared by the CLI (`flowcanvas preview`) and the HTTP API
// (`GET /modules/{name}/preview`) so both produce identical artifacts and
// share one cache.
//
// # Formats
//
//   - wires: SVG at the stored node positions with editor curves
//   - svg:   Graphviz node-link diagram
//   - dot:   the Graphviz DOT source
//   - json:  connection path data, one entry per connection
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Preview(ctx, g, pipeline.Options{
//	    Module:  "Home",
//	    Formats: []string{"wires", "dot"},
//	})
//	svg := result.Artifacts["wires"]
//
// Formats render concurrently. Each artifact is cached under a key built
// from the hash of the module's serialized form and the render options.
package pipeline

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowcanvas/pkg/cache"
	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/render/curve"
)

// Format constants for output formats.
const (
	FormatWires = "wires"
	FormatSVG   = "svg"
	FormatDOT   = "dot"
	FormatJSON  = "json"
)

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 24 * time.Hour

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatWires: true,
	FormatSVG:   true,
	FormatDOT:   true,
	FormatJSON:  true,
}

// ContentTypes maps formats to their HTTP content type.
var ContentTypes = map[string]string{
	FormatWires: "image/svg+xml",
	FormatSVG:   "image/svg+xml",
	FormatDOT:   "text/vnd.graphviz",
	FormatJSON:  "application/json",
}

// Options configures a preview run.
type Options struct {
	// Module to render, default flow.DefaultModule.
	Module string `json:"module,omitempty"`
	// Formats to produce, default [FormatWires].
	Formats []string `json:"formats,omitempty"`
	// Curves configures the wires and json formats. The zero value selects
	// curve.DefaultOptions.
	Curves curve.Options `json:"-"`
	// Detailed adds ids and data to node-link labels.
	Detailed bool `json:"detailed,omitempty"`
	// Refresh skips the cache lookup; fresh artifacts are still stored.
	Refresh bool `json:"refresh,omitempty"`
	// TTL of cached artifacts, default DefaultTTL.
	TTL time.Duration `json:"-"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a preview run.
type Result struct {
	// GraphHash is the content hash of the rendered module.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains preview statistics.
type Stats struct {
	NodeCount       int
	ConnectionCount int
	RenderTime      time.Duration
}

// CacheInfo records which formats came from the cache.
type CacheInfo struct {
	Hits []string
	// RenderHit is true when every format was a cache hit.
	RenderHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: wires, svg, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults applies defaults, drops duplicate formats and
// validates the rest.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Module == "" {
		o.Module = flow.DefaultModule
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatWires}
	}
	o.Formats = slices.Compact(slices.Sorted(slices.Values(o.Formats)))
	if o.Curves == (curve.Options{}) {
		o.Curves = curve.DefaultOptions()
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	return ValidateFormats(o.Formats)
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Module: o.Module, Format: format}
	switch format {
	case FormatWires, FormatJSON:
		k.Curvature = o.Curves.Curvature
		k.RerouteStartEnd = o.Curves.RerouteCurvatureStartEnd
		k.RerouteCurvature = o.Curves.RerouteCurvature
		k.FixCurvature = o.Curves.FixCurvature
	case FormatSVG, FormatDOT:
		k.Detailed = o.Detailed
	}
	return k
}
