package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/app"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/tui/components/calendar"
	"github.com/julianstephens/habitual/internal/tui/components/home"
	"github.com/julianstephens/habitual/internal/tui/components/stats"
	"github.com/julianstephens/habitual/internal/tui/handlers"
	"github.com/julianstephens/habitual/internal/tui/state"
)

// Model wraps the shared state with the screen components
type Model struct {
	state.Model

	HomeView     home.Model
	CalendarView calendar.Model
	StatsView    stats.Model

	startup tea.Cmd
}

// NewModel builds the TUI over a, which must already have restored any stored
// session. A restored session starts on home and fetches immediately.
func NewModel(ctx context.Context, a *app.App, refresh time.Duration) Model {
	m := Model{
		Model:        state.New(ctx, a, refresh),
		HomeView:     home.New(0, 0),
		CalendarView: calendar.New(a.Locale()),
		StatsView:    stats.New(),
	}

	var cmds []tea.Cmd
	if a.Authenticated() {
		cmds = append(cmds, handlers.FetchCmd(&m.Model))
	} else {
		cmds = append(cmds, handlers.OpenAuthForm(&m.Model))
	}
	cmds = append(cmds, handlers.TickCmd(refresh))
	m.startup = tea.Batch(cmds...)
	m.sync()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startup, m.Spinner.Tick)
}

// sync pushes the current app state into the visible component.
func (m *Model) sync() {
	switch m.Screen {
	case constants.ScreenHome:
		m.ClampCursor()
		m.HomeView.SetData(m.App.Rows(), m.HomeCursor, m.App.Streak(), m.App.TodayLabel())
	case constants.ScreenCalendar:
		m.CalendarView.SetGrid(m.App.Month(m.CalendarMonth), m.CalendarCursor)
	case constants.ScreenStats:
		m.StatsView.SetData(m.App.Trend(), m.App.Frequency())
	}
}
