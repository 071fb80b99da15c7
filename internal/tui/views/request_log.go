package views

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Amirali-Amirifar/goserve/internal/models"
)

// MaxRequestRows is how many finished requests the log keeps, newest first.
const MaxRequestRows = 100

type requestLogModel struct {
	table  table.Model
	events []models.RequestEvent
}

func (m requestLogModel) GetKeyBinds() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	}
}

func (m requestLogModel) GetName() string {
	return "Requests"
}

func InitRequestLog() requestLogModel {
	columns := []table.Column{
		{Title: "Time", Width: 10},
		{Title: "ID", Width: 8},
		{Title: "Method", Width: 7},
		{Title: "Path", Width: 32},
		{Title: "Status", Width: 6},
		{Title: "Bytes", Width: 12},
		{Title: "Took", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	return requestLogModel{table: t}
}

func (m requestLogModel) Init() tea.Cmd {
	return nil
}

func (m requestLogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case RequestMsg:
		m.add(models.RequestEvent(msg))
		return m, nil
	case RefreshMsg:
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *requestLogModel) add(event models.RequestEvent) {
	events := make([]models.RequestEvent, 0, min(len(m.events)+1, MaxRequestRows))
	events = append(events, event)
	for _, e := range m.events {
		if len(events) == MaxRequestRows {
			break
		}
		events = append(events, e)
	}
	m.events = events
	m.updateTableRows()
}

func (m *requestLogModel) updateTableRows() {
	rows := make([]table.Row, 0, len(m.events))
	for _, e := range m.events {
		id := e.ID
		if len(id) > 8 {
			id = id[:8]
		}
		rows = append(rows, table.Row{
			e.Time.Format("15:04:05"),
			id,
			e.Method,
			e.Path,
			strconv.Itoa(e.Status),
			strconv.FormatInt(e.Bytes, 10),
			e.Duration.Round(time.Millisecond).String(),
		})
	}
	m.table.SetRows(rows)
}

func (m requestLogModel) View() string {
	baseStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))

	if len(m.events) == 0 {
		return baseStyle.Render(m.table.View()) + "\nNo requests yet\n"
	}
	return lipgloss.JoinVertical(lipgloss.Left, baseStyle.Render(m.table.View()))
}
