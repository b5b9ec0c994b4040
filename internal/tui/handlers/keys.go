package handlers

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/tui/state"
)

var mainScreens = []constants.Screen{
	constants.ScreenHome,
	constants.ScreenCalendar,
	constants.ScreenStats,
}

// IsMainScreen reports whether s is reachable from the bottom navigation.
func IsMainScreen(s constants.Screen) bool {
	for _, ms := range mainScreens {
		if ms == s {
			return true
		}
	}
	return false
}

func cycle(current constants.Screen, delta int) constants.Screen {
	for i, s := range mainScreens {
		if s == current {
			n := len(mainScreens)
			return mainScreens[(i+delta+n)%n]
		}
	}
	return current
}

// HandleGlobalKeys handles global key presses
func HandleGlobalKeys(m *state.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Quitting = true
		return true, tea.Quit
	}

	// Forms and overlays own the keyboard
	if !IsMainScreen(m.Screen) || m.ConfirmDeleteID != "" || m.DayDetail != "" {
		return false, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return true, tea.Quit
	case key.Matches(msg, m.Keys.Tab):
		m.Screen = cycle(m.Screen, 1)
		return true, nil
	case key.Matches(msg, m.Keys.ShiftTab):
		m.Screen = cycle(m.Screen, -1)
		return true, nil
	case key.Matches(msg, m.Keys.Home):
		m.Screen = constants.ScreenHome
		return true, nil
	case key.Matches(msg, m.Keys.Calendar):
		m.Screen = constants.ScreenCalendar
		return true, nil
	case key.Matches(msg, m.Keys.Stats):
		m.Screen = constants.ScreenStats
		return true, nil
	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
		return true, nil
	case key.Matches(msg, m.Keys.Refresh):
		return true, FetchCmd(m)
	case key.Matches(msg, m.Keys.Add):
		return true, OpenAddForm(m)
	case key.Matches(msg, m.Keys.Logout):
		return true, Logout(m)
	}
	return false, nil
}

// Logout ends the session and returns to the login form.
func Logout(m *state.Model) tea.Cmd {
	if err := m.App.Logout(); err != nil {
		logger.Warn("logout left stored state behind", "error", err)
	}
	m.Screen = constants.ScreenUnauthenticated
	m.ResetAuth()
	m.ResetHabitForm()
	m.ConfirmDeleteID = ""
	m.HomeCursor = 0
	m.ResetCalendar()
	m.Syncing = 0
	return OpenAuthForm(m)
}
