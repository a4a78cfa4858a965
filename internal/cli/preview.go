package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	flowio "github.com/matzehuels/flowcanvas/pkg/io"
	"github.com/matzehuels/flowcanvas/pkg/pipeline"
)

// watchDebounce coalesces the burst of events an editor produces on save.
const watchDebounce = 200 * time.Millisecond

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	module      string
	interactive bool
	formats     string
	output      string
	detailed    bool
	refresh     bool
	noCache     bool
	watch       bool
}

func (c *CLI) previewCommand() *cobra.Command {
	var opts previewOpts

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Render a module to SVG, DOT or connection paths",
		Long: `Render one module of a graph file.

Formats:
  wires  SVG of the canvas at the stored node positions (default)
  svg    Graphviz node-link diagram
  dot    Graphviz DOT source
  json   connection path data

Outputs are written next to the graph file as <name>.<module>.<ext>
unless --output is given. Renders are cached; see 'flowcanvas cache'.`,
		Example: `  flowcanvas preview flow.json
  flowcanvas preview flow.json -m Billing -f wires,dot
  flowcanvas preview flow.json --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(opts.formats)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			if opts.output != "" && len(formats) > 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--output needs a single format, got %d", len(formats))
			}
			return c.runPreview(cmd.Context(), args[0], formats, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.module, "module", "m", "", "module to render (default: Home)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick the module interactively")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): wires (default), svg, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format only)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node ids and data in svg/dot output")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render whenever the file changes")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, path string, formats []string, opts previewOpts) error {
	module := opts.module
	if opts.interactive {
		store, err := c.openStore(path)
		if err != nil {
			return err
		}
		if module, err = pickModule(store); err != nil {
			return err
		}
		if module == "" {
			return nil
		}
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Module:   module,
		Formats:  formats,
		Curves:   c.Config.Curves(),
		Detailed: opts.detailed,
		Refresh:  opts.refresh,
		TTL:      c.Config.Cache.TTL.Duration,
	}

	if err := c.renderPreview(ctx, runner, path, popts, opts.output); err != nil {
		if !opts.watch {
			return err
		}
		printError("%v", err)
	}
	if !opts.watch {
		return nil
	}
	return c.watchPreview(ctx, runner, path, popts, opts.output)
}

// renderPreview loads path, renders every requested format and writes the
// artifacts.
func (c *CLI) renderPreview(ctx context.Context, runner *pipeline.Runner, path string, opts pipeline.Options, output string) error {
	prog := newProgress(c.Logger)
	if opts.Module == "" {
		opts.Module = flow.DefaultModule
	}
	spinner := newSpinnerWithContext(ctx, "Loading "+filepath.Base(path)+"...")
	spinner.Start()

	g, err := pipeline.Load(path)
	if err != nil {
		spinner.Stop()
		return err
	}
	spinner.SetMessage(renderMessage(path, opts.Module, opts.Formats))
	result, err := runner.Preview(ctx, g, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", StyleValue.Render(opts.Module))
	printStats(result.Stats.NodeCount, result.Stats.ConnectionCount, result.CacheInfo.RenderHit)
	for _, format := range opts.Formats {
		out := output
		if out == "" {
			out = artifactPath(path, opts.Module, format)
		}
		if err := os.WriteFile(out, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		printFile(out)
	}
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(opts.Formats)))
	return nil
}

// watchPreview re-renders whenever path changes until ctx is cancelled.
// The parent directory is watched since editors often replace the file
// rather than write it in place.
func (c *CLI) watchPreview(ctx context.Context, runner *pipeline.Runner, path string, opts pipeline.Options, output string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	printInfo("Watching %s for changes (Ctrl+C to stop)", path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printWarning("watch: %v", err)

		case <-timer.C:
			if _, err := os.Stat(abs); err != nil {
				continue
			}
			if err := c.renderPreview(ctx, runner, path, opts, output); err != nil {
				printError("%v", err)
			}
		}
	}
}

var artifactExt = map[string]string{
	pipeline.FormatWires: ".wires.svg",
	pipeline.FormatSVG:   ".svg",
	pipeline.FormatDOT:   ".dot",
	pipeline.FormatJSON:  ".paths.json",
}

// artifactPath derives the output name for one format, e.g.
// "flow.msgpack.zst" + "Home" + "wires" -> "flow.Home.wires.svg".
func artifactPath(graphPath, module, format string) string {
	base := strings.TrimSuffix(graphPath, flowio.CompressedSuffix)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "." + safeName(module) + artifactExt[format]
}

// safeName replaces characters that do not belong in a file name.
func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
