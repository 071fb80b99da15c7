package tui

import (
	"fmt"
	"strings"

	"github.com/Amirali-Amirifar/goserve/internal/models"
	"github.com/Amirali-Amirifar/goserve/internal/tui/components"
	"github.com/Amirali-Amirifar/goserve/internal/tui/views"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type model struct {
	Tabs      []string
	children  []ChildModel
	help      components.HelpModel
	activeTab int
	width     int
	height    int
	addr      string
	catalog   *models.Catalog
}

func newModel(catalog *models.Catalog, addr string) model {
	m := model{
		catalog: catalog,
		addr:    addr,
		help:    components.InitHelp(),
	}
	m.children = []ChildModel{
		views.InitCatalogList(catalog),
		views.InitRequestLog(),
	}

	keyMaps := make(map[string]components.TabKeyMap, len(m.children))
	for _, child := range m.children {
		m.Tabs = append(m.Tabs, child.GetName())
		keyMaps[child.GetName()] = components.TabKeyMap{Name: child.GetName(), Bindings: child.GetKeyBinds()}
	}
	m.help = m.help.SetKeyMap(keyMaps).SetActiveTab(m.Tabs[0])
	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	for _, child := range m.children {
		cmds = append(cmds, child.Init())
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help, _ = m.help.Update(msg)
		return m, nil

	case tickMsg:
		m, cmd = m.broadcast(views.RefreshMsg{})
		return m, tea.Batch(cmd, tick())

	case views.RefreshMsg, views.RequestMsg:
		return m.broadcast(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.help.QuitBinding()) {
			return m, tea.Quit
		}
		switch msg.String() {
		case "right", "tab":
			return m.selectTab((m.activeTab + 1) % len(m.Tabs)), nil
		case "left", "shift+tab":
			return m.selectTab((m.activeTab + len(m.Tabs) - 1) % len(m.Tabs)), nil
		case "1":
			return m.selectTab(0), nil
		case "2":
			return m.selectTab(1), nil
		case "r":
			return m.broadcast(views.RefreshMsg{})
		case "?":
			m.help, _ = m.help.Update(msg)
			return m, nil
		}
	}

	// Delegate everything else to the active view
	updated, cmd := m.children[m.activeTab].Update(msg)
	m.children[m.activeTab] = updated.(ChildModel)
	return m, cmd
}

func (m model) selectTab(i int) model {
	m.activeTab = i
	m.help = m.help.SetActiveTab(m.Tabs[i])
	return m
}

// broadcast hands msg to every view, not just the visible one, so hidden
// tabs stay current.
func (m model) broadcast(msg tea.Msg) (model, tea.Cmd) {
	children := make([]ChildModel, len(m.children))
	cmds := make([]tea.Cmd, 0, len(m.children))
	for i, child := range m.children {
		updated, cmd := child.Update(msg)
		children[i] = updated.(ChildModel)
		cmds = append(cmds, cmd)
	}
	m.children = children
	return m, tea.Batch(cmds...)
}

func tabBorderWithBottom(left, middle, right string) lipgloss.Border {
	border := lipgloss.RoundedBorder()
	border.BottomLeft = left
	border.Bottom = middle
	border.BottomRight = right
	return border
}

var (
	inactiveTabBorder = tabBorderWithBottom("┴", "─", "┴")
	activeTabBorder   = tabBorderWithBottom("┘", " ", "└")
	docStyle          = lipgloss.NewStyle().Padding(1, 2, 1, 2)
	highlightColor    = lipgloss.Color("#7D56F4")
	inactiveTabStyle  = lipgloss.NewStyle().Border(inactiveTabBorder, true).BorderForeground(highlightColor).Padding(0, 1)
	activeTabStyle    = inactiveTabStyle.Border(activeTabBorder, true)
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(highlightColor)
	windowStyle       = lipgloss.NewStyle().
				BorderForeground(highlightColor).
				Padding(1, 2).
				Border(lipgloss.NormalBorder()).
				UnsetBorderTop()
)

func (m model) View() string {
	doc := strings.Builder{}

	title := fmt.Sprintf("Serving %d catalog entries on http://%s", m.catalog.Len(), m.addr)
	doc.WriteString(titleStyle.Render(title))
	doc.WriteString("\n\n")

	var renderedTabs []string

	tabBarWidth := m.width - docStyle.GetHorizontalFrameSize()
	for i, t := range m.Tabs {
		var style lipgloss.Style
		isFirst, isLast, isActive := i == 0, i == len(m.Tabs)-1, i == m.activeTab
		if isActive {
			style = activeTabStyle
		} else {
			style = inactiveTabStyle
		}

		border, _, _, _, _ := style.GetBorder()
		if isFirst && isActive {
			border.BottomLeft = "│"
		} else if isFirst && !isActive {
			border.BottomLeft = "├"
		} else if isLast && isActive {
			border.BottomRight = "└"
		}

		style = style.Width(16).Border(border)
		renderedText := style.Render(fmt.Sprintf("%d %s", i+1, t))

		renderedTabs = append(renderedTabs, renderedText)
		tabBarWidth = tabBarWidth - lipgloss.Width(renderedText)
	}

	blankBorder := lipgloss.HiddenBorder()
	blankBorder.Bottom = "─"
	blankBorder.BottomLeft = "─"
	blankBorder.BottomRight = "┐"
	blankTab := lipgloss.NewStyle().
		Width(max(tabBarWidth-2, 0)).
		Border(blankBorder).
		BorderForeground(highlightColor).
		Render("")

	renderedTabs = append(renderedTabs, blankTab)
	row := lipgloss.JoinHorizontal(lipgloss.Bottom, renderedTabs...)

	contentWidth := max(m.width-docStyle.GetHorizontalFrameSize()-windowStyle.GetHorizontalFrameSize(), 0)
	tabContents := windowStyle.Width(contentWidth).Render(m.children[m.activeTab].View())

	doc.WriteString(row)
	doc.WriteString("\n")
	doc.WriteString(tabContents)
	doc.WriteString(m.help.View())

	return docStyle.Render(doc.String())
}
