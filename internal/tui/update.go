package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/tui/handlers"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width

		// Adjust height for tabs, status and help
		h, v := docStyle.GetFrameSize()
		m.HomeView.SetSize(msg.Width-h, msg.Height-4-v)
		m.StatsView.SetSize(msg.Width - h)
		m.sync()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	cmd := handlers.Route(&m.Model, msg)
	m.sync()
	return m, cmd
}
