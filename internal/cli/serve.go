package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowcanvas/internal/server"
	"github.com/matzehuels/flowcanvas/pkg/flow"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		save    bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a graph over HTTP",
		Long: `Load a graph file (or start empty) and expose it through the HTTP API.

With --save, the graph is written back to the file on shutdown.`,
		Example: `  flowcanvas serve flow.json --save
  flowcanvas serve --addr 127.0.0.1:9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var path string
			if len(args) == 1 {
				path = args[0]
			}

			store, err := c.serveStore(path)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if addr == "" {
				addr = c.Config.Server.Addr
			}
			srv := server.New(store,
				server.WithRunner(runner),
				server.WithCurves(c.Config.Curves()),
				server.WithCORSOrigin(c.Config.Server.CORSOrigin),
				server.WithLogger(c.Logger),
			)
			printInfo("Serving %s on %s", displayName(path), StyleValue.Render(addr))
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				return err
			}

			if save && path != "" {
				if err := c.saveStore(store, path); err != nil {
					return err
				}
				printSuccess("Saved %s", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&save, "save", false, "write the graph back to the file on shutdown")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the preview cache")
	return cmd
}

// serveStore opens path, or returns an empty store when path is empty or
// does not exist yet.
func (c *CLI) serveStore(path string) (*flow.Store, error) {
	if path == "" {
		return c.newStore(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		c.Logger.Info("starting with an empty graph", "path", path)
		return c.newStore(), nil
	}
	return c.openStore(path)
}

func displayName(path string) string {
	if path == "" {
		return "an empty graph"
	}
	return path
}
