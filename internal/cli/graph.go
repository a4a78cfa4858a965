package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	flowio "github.com/matzehuels/flowcanvas/pkg/io"
)

// newStore creates an empty store using the configured id policy.
func (c *CLI) newStore() *flow.Store {
	return flow.NewStore(
		flow.WithAllocator(flow.NewAllocator(c.Config.IDPolicy())),
		flow.WithLogger(c.Logger),
	)
}

// openStore reads a graph file into a fresh store. ImportAll validates the
// graph, so a corrupt file never yields a half-loaded store.
func (c *CLI) openStore(path string) (*flow.Store, error) {
	g, err := flowio.ImportFile(path)
	if err != nil {
		return nil, err
	}
	store := c.newStore()
	if err := store.ImportAll(g); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Logger.Debug("graph loaded", "path", path, "nodes", g.NodeCount(), "modules", len(g.Modules))
	return store, nil
}

// saveStore writes every module of store to path.
func (c *CLI) saveStore(store *flow.Store, path string) error {
	g := store.ExportAll()
	if err := flowio.ExportFile(g, path); err != nil {
		return err
	}
	c.Logger.Debug("graph saved", "path", path, "nodes", g.NodeCount())
	return nil
}

// =============================================================================
// new
// =============================================================================

func (c *CLI) newCommand() *cobra.Command {
	var (
		modules []string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create an empty graph file",
		Long: `Create a graph file holding the Home module and any extra modules.

The format follows the extension: .json or .msgpack, optionally
compressed with a trailing .zst.`,
		Example: `  flowcanvas new flow.json
  flowcanvas new flow.msgpack.zst --module Billing --module Alerts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !force {
				if _, err := os.Stat(path); err == nil {
					return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
				}
			}

			store := c.newStore()
			for _, name := range modules {
				if err := store.CreateModule(name); err != nil {
					return err
				}
			}
			if err := c.saveStore(store, path); err != nil {
				return err
			}

			printSuccess("Created %s", path)
			printDetail("Modules: %d", len(store.Modules()))
			printNextStep("Serve it", fmt.Sprintf("%s serve %s", appName, path))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&modules, "module", "m", nil, "additional module to create (repeatable)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// =============================================================================
// convert
// =============================================================================

func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a graph file between JSON and MessagePack",
		Long: `Read a graph file and write it in the format implied by the output
extension. The graph is validated on the way through.`,
		Example: `  flowcanvas convert flow.json flow.msgpack.zst`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(args[0])
			if err != nil {
				return err
			}
			if err := c.saveStore(store, args[1]); err != nil {
				return err
			}
			printSuccess("Converted %s", args[0])
			printFile(args[1])
			return nil
		},
	}
}

// =============================================================================
// modules
// =============================================================================

func (c *CLI) modulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List, add and remove modules of a graph file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <file>",
		Short: "List the modules of a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(args[0])
			if err != nil {
				return err
			}
			rows, err := moduleRows(store)
			if err != nil {
				return err
			}
			fmt.Println(moduleTable(rows, ""))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <file> <name>",
		Short: "Add an empty module",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editStore(args[0], func(s *flow.Store) error {
				return s.CreateModule(args[1])
			}, "Added module %s", args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <file> <name>",
		Short: "Remove a module and all of its nodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editStore(args[0], func(s *flow.Store) error {
				return s.RemoveModule(args[1])
			}, "Removed module %s", args[1])
		},
	})

	return cmd
}

// editStore loads path, applies fn and writes the result back.
func (c *CLI) editStore(path string, fn func(*flow.Store) error, format string, args ...any) error {
	store, err := c.openStore(path)
	if err != nil {
		return err
	}
	if err := fn(store); err != nil {
		return err
	}
	if err := c.saveStore(store, path); err != nil {
		return err
	}
	printSuccess(format, args...)
	return nil
}
