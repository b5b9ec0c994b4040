package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/metrics"
	"github.com/julianstephens/habitual/internal/tui/components/calendar"
	"github.com/julianstephens/habitual/internal/utils"
)

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	if m.ConfirmDeleteID != "" {
		return m.viewConfirmDelete()
	}

	switch m.Screen {
	case constants.ScreenUnauthenticated:
		return m.viewAuth()
	case constants.ScreenAdd, constants.ScreenEdit:
		if m.Form == nil {
			return ""
		}
		return docStyle.Render(m.Form.View())
	}

	var content string
	switch m.Screen {
	case constants.ScreenHome:
		content = m.HomeView.View()
	case constants.ScreenCalendar:
		content = m.viewCalendar()
	case constants.ScreenStats:
		content = m.StatsView.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewStatus(),
		docStyle.Render(content),
		m.Help.View(m.Keys),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	screens := []constants.Screen{constants.ScreenHome, constants.ScreenCalendar, constants.ScreenStats}
	titles := []string{"Home", "Calendar", "Stats"}
	for i, s := range screens {
		if m.Screen == s {
			tabs = append(tabs, activeTabStyle.Render(titles[i]))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(titles[i]))
		}
	}
	tabs = append(tabs, inactiveTabStyle.Render("+ Add"))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	user := "@" + m.App.Session.Username
	if m.Busy() {
		return statusStyle.Render(fmt.Sprintf("%s  %s syncing", user, m.Spinner.View()))
	}
	return statusStyle.Render(user)
}

func (m Model) viewAuth() string {
	title := "Log in to habitual"
	if m.AuthMode == constants.AuthSignup {
		title = "Create a habitual account"
	}

	parts := []string{titleStyle.Render(title), ""}
	if m.Form != nil {
		parts = append(parts, m.Form.View())
	}
	if m.Submitting {
		parts = append(parts, m.Spinner.View()+" contacting server")
	}
	if m.AuthError != "" {
		parts = append(parts, dangerStyle.Render(m.AuthError))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewCalendar() string {
	grid := m.CalendarView.View()
	if m.DayDetail == "" {
		return grid
	}

	title := m.DayDetail
	if t, err := utils.KeyTime(m.DayDetail, m.App.Location()); err == nil {
		title = metrics.LongDateLabel(t, m.App.Locale())
	}
	overlay := calendar.DetailView(title, m.App.DayDetail(m.DayDetail))
	return lipgloss.JoinVertical(lipgloss.Left, grid, overlay)
}

func (m Model) viewConfirmDelete() string {
	name := "this habit"
	if h, ok := m.App.Habits.Get(m.ConfirmDeleteID); ok {
		name = fmt.Sprintf("%s %s", h.Emoji, h.Name)
	}
	return lipgloss.Place(m.Width, m.Height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %s?", name)),
			warningStyle.Render("All of its history is removed too."),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
