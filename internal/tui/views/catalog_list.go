package views

import (
	"fmt"
	"time"

	"github.com/Amirali-Amirifar/goserve/internal/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	statusAvailable = "available"
	statusMissing   = "missing"
)

type catalogListModel struct {
	table   table.Model
	catalog *models.Catalog
	checked time.Time
}

func (m catalogListModel) GetKeyBinds() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (m catalogListModel) GetName() string {
	return "Catalog"
}

func InitCatalogList(catalog *models.Catalog) catalogListModel {
	columns := []table.Column{
		{Title: "Name", Width: 30},
		{Title: "File", Width: 45},
		{Title: "Size (MB)", Width: 10},
		{Title: "Status", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := catalogListModel{table: t, catalog: catalog}
	m.refresh()
	return m
}

// refresh stats every catalog file again, same as the server does per request.
func (m *catalogListModel) refresh() {
	var rows []table.Row
	for _, status := range m.catalog.Inspect() {
		size, state := "-", statusMissing
		if status.Available {
			size, state = status.SizeMiB(), statusAvailable
		}
		rows = append(rows, table.Row{status.Name, status.Path, size, state})
	}
	m.table.SetRows(rows)
	m.checked = time.Now()
}

func (m catalogListModel) Init() tea.Cmd {
	return nil
}

func (m catalogListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.(type) {
	case RefreshMsg:
		m.refresh()
		return m, nil
	case RequestMsg:
		return m, nil
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m catalogListModel) View() string {
	baseStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))

	renderedTable := baseStyle.Render(m.table.View())
	footer := fmt.Sprintf("%d entries, checked %s", m.catalog.Len(), m.checked.Format("15:04:05"))

	return lipgloss.JoinVertical(lipgloss.Left, renderedTable, footer) + "\n"
}
