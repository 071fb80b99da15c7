package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Amirali-Amirifar/goserve/internal/models"
	"github.com/Amirali-Amirifar/goserve/internal/tui/views"
)

const (
	refreshInterval = 2 * time.Second
	eventBuffer     = 256
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Console runs the terminal UI next to the server and receives its
// request events.
type Console struct {
	program *tea.Program
	events  chan models.RequestEvent
	done    chan struct{}
}

func NewConsole(catalog *models.Catalog, addr string, opts ...tea.ProgramOption) *Console {
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	return &Console{
		program: tea.NewProgram(newModel(catalog, addr), opts...),
		events:  make(chan models.RequestEvent, eventBuffer),
		done:    make(chan struct{}),
	}
}

// Observe queues a request event for display. It never blocks: when the
// console falls behind, events are dropped.
func (c *Console) Observe(event models.RequestEvent) {
	select {
	case c.events <- event:
	default:
	}
}

// Run blocks until the user quits or Quit is called.
func (c *Console) Run() error {
	go c.forward()
	defer close(c.done)
	_, err := c.program.Run()
	return err
}

func (c *Console) Quit() {
	c.program.Quit()
}

func (c *Console) forward() {
	for {
		select {
		case event := <-c.events:
			c.program.Send(views.RequestMsg(event))
		case <-c.done:
			return
		}
	}
}
