package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowcanvas/pkg/flow"
	flowio "github.com/matzehuels/flowcanvas/pkg/io"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var module string

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a graph file",
		Long: `Print node and connection counts per module. With --module, list the
nodes of that module with their ports and positions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format, compressed, err := flowio.FormatFromPath(path)
			if err != nil {
				return err
			}
			store, err := c.openStore(path)
			if err != nil {
				return err
			}

			g := store.ExportAll()
			encoding := string(format)
			if compressed {
				encoding += " + zstd"
			}
			printKeyValue("File", path)
			printKeyValue("Format", encoding)
			printKeyValue("Nodes", StyleNumber.Render(strconv.Itoa(g.NodeCount())))
			printKeyValue("Connections", StyleNumber.Render(strconv.Itoa(g.ConnectionCount())))
			printKeyValue("ID policy", string(store.IDPolicy()))
			fmt.Println()

			if module == "" {
				rows, err := moduleRows(store)
				if err != nil {
					return err
				}
				fmt.Println(moduleTable(rows, store.ActiveModule()))
				return nil
			}

			m, err := store.Module(module)
			if err != nil {
				return err
			}
			fmt.Println(StyleTitle.Render(module))
			fmt.Println(nodeTable(m))
			return nil
		},
	}

	cmd.Flags().StringVarP(&module, "module", "m", "", "list the nodes of this module")
	return cmd
}

// nodeTable renders the nodes of m in id order.
func nodeTable(m *flow.Module) string {
	ids := m.NodeIDs()
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		n := m.Nodes[id]
		rows = append(rows, []string{
			id.String(),
			n.Name,
			strconv.Itoa(len(n.Inputs)),
			strconv.Itoa(len(n.Outputs)),
			fmt.Sprintf("%g, %g", n.X, n.Y),
			string(n.Content.Kind),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderTint).
		Headers("ID", "Name", "In", "Out", "Position", "Content").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeadStyle
			}
			if col == 0 {
				return StyleNumber
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
