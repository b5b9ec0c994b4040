package home

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/app"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 2)

	streakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(8)

	fullStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true).
			Width(8)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	bar      progress.Model
	rows     []app.HabitRow
	cursor   int
	streak   int
	label    string
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(20)),
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	// the streak card takes four lines
	m.viewport.Height = max(height-4, 1)
	m.bar.Width = max(min(width/3, 30), 10)
	m.Render()
}

// SetData replaces the rows and the streak card.
func (m *Model) SetData(rows []app.HabitRow, cursor, streak int, label string) {
	m.rows = rows
	m.cursor = cursor
	m.streak = streak
	m.label = label
	m.Render()
}

func (m *Model) Render() {
	if len(m.rows) == 0 {
		m.viewport.SetContent(emptyStyle.Render("No habits yet. Press 'a' to add one."))
		return
	}

	var b strings.Builder
	for i, r := range m.rows {
		name := fmt.Sprintf("%s %s", r.Habit.Emoji, r.Habit.Name)
		pointer := "  "
		if i == m.cursor {
			pointer = "> "
			name = selectedStyle.Render(name)
		} else {
			name = nameStyle.Render(name)
		}

		count := countStyle.Render(fmt.Sprintf("%d/%d", r.Today, r.Habit.DailyTarget))
		if r.Full {
			count = fullStyle.Render(fmt.Sprintf("✓ %d/%d", r.Today, r.Habit.DailyTarget))
		}

		week := dateStyle.Render(fmt.Sprintf("%d/%d days", r.Week, r.Habit.WeeklyTarget))
		b.WriteString(fmt.Sprintf("%s%s\n  %s %s %s\n\n", pointer, name, count, m.bar.ViewAs(r.Progress/100), week))
	}
	m.viewport.SetContent(b.String())

	// keep the selected row visible; each row renders as three lines
	top := m.cursor * 3
	if top < m.viewport.YOffset || top+3 > m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(top)
	}
}

func (m Model) View() string {
	card := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		streakStyle.Render(fmt.Sprintf("🔥 %d day streak", m.streak)),
		dateStyle.Render(m.label),
	))
	return lipgloss.JoinVertical(lipgloss.Left, card, m.viewport.View())
}
