package handlers

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/metrics"
	"github.com/julianstephens/habitual/internal/tui/state"
	"github.com/julianstephens/habitual/internal/utils"
)

// HandleCalendarState handles the month view and its day-detail overlay
func HandleCalendarState(m *state.Model, msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if m.DayDetail != "" {
		if key.Matches(keyMsg, m.Keys.Back, m.Keys.Enter) || keyMsg.String() == "q" {
			m.DayDetail = ""
		}
		return nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Left):
		moveCalendarCursor(m, -1)
	case key.Matches(keyMsg, m.Keys.Right):
		moveCalendarCursor(m, 1)
	case key.Matches(keyMsg, m.Keys.Up):
		moveCalendarCursor(m, -7)
	case key.Matches(keyMsg, m.Keys.Down):
		moveCalendarCursor(m, 7)
	case key.Matches(keyMsg, m.Keys.PrevMonth):
		ShiftCalendar(m, -1)
	case key.Matches(keyMsg, m.Keys.NextMonth):
		ShiftCalendar(m, 1)
	case key.Matches(keyMsg, m.Keys.Enter):
		OpenDayDetail(m)
	case key.Matches(keyMsg, m.Keys.Back):
		m.ResetCalendar()
	}
	return nil
}

func moveCalendarCursor(m *state.Model, delta int) {
	n := utils.DaysInMonth(m.CalendarMonth)
	c := m.CalendarCursor + delta
	if c < 0 || c >= n {
		return
	}
	m.CalendarCursor = c
}

// ShiftCalendar moves the calendar by delta months, keeping the cursor in range.
func ShiftCalendar(m *state.Model, delta int) {
	m.CalendarMonth = metrics.ShiftMonth(m.CalendarMonth, delta)
	if n := utils.DaysInMonth(m.CalendarMonth); m.CalendarCursor >= n {
		m.CalendarCursor = n - 1
	}
	m.DayDetail = ""
}

// OpenDayDetail opens the overlay for the selected day if it has any activity.
func OpenDayDetail(m *state.Model) bool {
	grid := m.App.Month(m.CalendarMonth)
	if m.CalendarCursor < 0 || m.CalendarCursor >= len(grid.Days) {
		return false
	}
	day := grid.Days[m.CalendarCursor]
	if !day.Selectable() {
		return false
	}
	m.DayDetail = day.Date
	return true
}
