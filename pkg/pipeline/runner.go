package pipeline

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/flowcanvas/pkg/cache"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/observability"
)

// Runner renders previews with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Preview renders opts.Formats of one module of g. Formats render
// concurrently; the first failure cancels the rest. Cache read and write
// failures are logged and never fail the run.
func (r *Runner) Preview(ctx context.Context, g *flow.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	hash, err := ModuleHash(g, opts.Module)
	if err != nil {
		return nil, err
	}
	m := g.Modules[opts.Module]

	result := &Result{
		GraphHash: hash,
		Artifacts: make(map[string][]byte, len(opts.Formats)),
		Stats: Stats{
			NodeCount:       len(m.Nodes),
			ConnectionCount: len(m.Connections()),
		},
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Module, opts.Formats)
	start := time.Now()

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		eg.Go(func() error {
			data, hit, err := r.renderCached(egCtx, m, hash, format, opts, logger)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			defer mu.Unlock()
			result.Artifacts[format] = data
			if hit {
				result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
			}
			return nil
		})
	}
	err = eg.Wait()
	result.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Module, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}

	slices.Sort(result.CacheInfo.Hits)
	result.CacheInfo.RenderHit = len(result.CacheInfo.Hits) == len(opts.Formats)
	logger.Debug("rendered preview",
		"module", opts.Module,
		"formats", opts.Formats,
		"cached", len(result.CacheInfo.Hits),
		"duration", result.Stats.RenderTime)
	return result, nil
}

func (r *Runner) renderCached(ctx context.Context, m *flow.Module, hash, format string, opts Options, logger *log.Logger) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
	hooks := observability.Cache()

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn("cache read failed", "format", format, "err", err)
		case hit:
			hooks.OnCacheHit(ctx, format)
			return data, true, nil
		default:
			hooks.OnCacheMiss(ctx, format)
		}
	}

	data, err := Render(m, format, opts)
	if err != nil {
		return nil, false, err
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, opts.TTL)
	})
	if err != nil {
		logger.Warn("cache write failed", "format", format, "err", err)
	} else {
		hooks.OnCacheSet(ctx, format, len(data))
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
