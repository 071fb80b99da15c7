package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ChildModel is a tab of the console.
type ChildModel interface {
	tea.Model
	GetName() string
	GetKeyBinds() []key.Binding
}
