package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/flowcanvas/pkg/flow"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	tableHeadStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tableBorderTint = lipgloss.NewStyle().Foreground(colorDim)
)

// moduleRow summarizes one module.
type moduleRow struct {
	Name        string
	Nodes       int
	Connections int
}

func moduleRows(store *flow.Store) ([]moduleRow, error) {
	names := store.Modules()
	rows := make([]moduleRow, 0, len(names))
	for _, name := range names {
		m, err := store.Module(name)
		if err != nil {
			return nil, err
		}
		rows = append(rows, moduleRow{
			Name:        name,
			Nodes:       len(m.Nodes),
			Connections: len(m.Connections()),
		})
	}
	return rows, nil
}

// moduleTable renders rows as a bordered table. The row named marked, if
// any, is highlighted.
func moduleTable(rows []moduleRow, marked string) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{r.Name, strconv.Itoa(r.Nodes), strconv.Itoa(r.Connections)}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderTint).
		Headers("Module", "Nodes", "Connections").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeadStyle
			}
			if row < len(rows) && rows[row].Name == marked {
				return styleActive
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// =============================================================================
// ModuleListModel - Interactive module selection
// =============================================================================

// ModuleListModel is the bubbletea model for picking the module to preview.
type ModuleListModel struct {
	Modules  []moduleRow
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewModuleListModel creates a new module list model.
func NewModuleListModel(rows []moduleRow) ModuleListModel {
	return ModuleListModel{Modules: rows, Height: 15}
}

func (m ModuleListModel) Init() tea.Cmd {
	return nil
}

func (m ModuleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Modules)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Modules) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Modules[m.Cursor].Name
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m ModuleListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Module"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Modules))
	visible := m.Modules[m.Offset:end]
	cursor := ""
	if m.Cursor < len(m.Modules) {
		cursor = m.Modules[m.Cursor].Name
	}
	b.WriteString(moduleTable(visible, cursor))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Modules))))

	return b.String()
}

// pickModule runs the interactive picker. It returns "" when the user quits
// without choosing.
func pickModule(store *flow.Store) (string, error) {
	rows, err := moduleRows(store)
	if err != nil {
		return "", err
	}
	final, err := tea.NewProgram(NewModuleListModel(rows)).Run()
	if err != nil {
		return "", err
	}
	return final.(ModuleListModel).Selected, nil
}
