package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/metrics"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(6).
			Align(lipgloss.Center)

	cellStyle = lipgloss.NewStyle().
			Width(6).
			Align(lipgloss.Center)

	todayStyle = cellStyle.
			Foreground(lipgloss.Color("205")).
			Bold(true)

	cursorStyle = cellStyle.
			Background(lipgloss.Color("236")).
			Bold(true)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 2)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// intensity shades, indexed by completions on the day
var shades = []lipgloss.Color{"240", "22", "28", "34", "40", "46"}

// mondayFirst is a week used only to derive weekday labels
var mondayFirst = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type Model struct {
	grid   metrics.MonthGrid
	cursor int
	locale string
}

func New(locale string) Model {
	return Model{locale: locale}
}

func (m *Model) SetGrid(grid metrics.MonthGrid, cursor int) {
	m.grid = grid
	m.cursor = cursor
}

func marker(intensity int) string {
	if intensity == 0 {
		return "·"
	}
	shade := shades[min(intensity, len(shades)-1)]
	return lipgloss.NewStyle().Foreground(shade).Render("●")
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.grid.Label))
	b.WriteString("\n")

	headers := make([]string, 7)
	for i := range headers {
		headers[i] = headerStyle.Render(metrics.ShortWeekday(mondayFirst.AddDate(0, 0, i), m.locale))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, headers...))
	b.WriteString("\n")

	cells := make([]string, 0, 42)
	for i := 0; i < m.grid.Leading; i++ {
		cells = append(cells, cellStyle.Render(""))
	}
	for i, d := range m.grid.Days {
		label := fmt.Sprintf("%2d %s", d.Day, marker(d.Intensity))
		style := cellStyle
		switch {
		case i == m.cursor:
			style = cursorStyle
		case d.IsToday:
			style = todayStyle
		}
		cells = append(cells, style.Render(label))
	}
	for start := 0; start < len(cells); start += 7 {
		end := min(start+7, len(cells))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells[start:end]...))
		b.WriteString("\n")
	}
	return b.String()
}

// DetailView renders the day-detail overlay.
func DetailView(title string, habits []metrics.DayHabit) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if len(habits) == 0 {
		b.WriteString(dimStyle.Render("Nothing recorded."))
	}
	for _, h := range habits {
		b.WriteString(fmt.Sprintf("%s %s  done %d times\n", h.Habit.Emoji, h.Habit.Name, h.Count))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("[esc] close"))
	return overlayStyle.Render(b.String())
}
