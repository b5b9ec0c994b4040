package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/metrics"
)

const chartHeight = 8

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	todayBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(5).
			Align(lipgloss.Center)

	rankStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	trend []metrics.DayActivity
	freq  []metrics.HabitFrequency
	width int
}

func New() Model {
	return Model{}
}

func (m *Model) SetSize(width int) {
	m.width = width
}

func (m *Model) SetData(trend []metrics.DayActivity, freq []metrics.HabitFrequency) {
	m.trend = trend
	m.freq = freq
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Last 7 days"),
		m.trendView(),
		"",
		titleStyle.Render("Most frequent"),
		m.frequencyView(),
	)
}

func (m Model) trendView() string {
	scale := metrics.TrendScale(m.trend)
	cols := make([]string, len(m.trend))
	for i, d := range m.trend {
		filled := int(math.Round(metrics.BarHeight(d.Count, scale) / 100 * chartHeight))
		style := barStyle
		if d.IsToday {
			style = todayBarStyle
		}
		var col strings.Builder
		col.WriteString(labelStyle.Render(fmt.Sprintf("%d", d.Count)))
		for row := chartHeight; row > 0; row-- {
			col.WriteString("\n")
			if row <= filled {
				col.WriteString(labelStyle.Render(style.Render("███")))
			} else {
				col.WriteString(labelStyle.Render(""))
			}
		}
		col.WriteString("\n")
		label := d.Label
		if d.IsToday {
			label = todayBarStyle.Render(label)
		}
		col.WriteString(labelStyle.Render(label))
		cols[i] = col.String()
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, cols...)
}

func (m Model) frequencyView() string {
	if len(m.freq) == 0 {
		return dimStyle.Render("No habits yet.")
	}
	barWidth := max(min(m.width/2, 40), 10)
	var b strings.Builder
	for _, f := range m.freq {
		n := int(math.Round(f.Width / 100 * float64(barWidth)))
		b.WriteString(fmt.Sprintf("%s %-16s %s %d\n",
			f.Habit.Emoji,
			f.Habit.Name,
			rankStyle.Render(strings.Repeat("█", n)+strings.Repeat("░", barWidth-n)),
			f.Count,
		))
	}
	return b.String()
}
