package app

import (
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/metrics"
	"github.com/julianstephens/habitual/internal/models"
)

// HabitRow is one line of the home list
type HabitRow struct {
	Habit    models.Habit
	Today    int
	Full     bool
	Week     int
	Progress float64
}

// Rows returns the home list in registry order.
func (a *App) Rows() []HabitRow {
	now := a.Now()
	habits := a.Habits.List()
	rows := make([]HabitRow, 0, len(habits))
	for _, h := range habits {
		count := metrics.DailyCount(a.Logs, h.ID, now)
		rows = append(rows, HabitRow{
			Habit:    h,
			Today:    count,
			Full:     count >= h.DailyTarget,
			Week:     metrics.DaysCompletedThisWeek(a.Logs, h.ID, now),
			Progress: metrics.WeeklyProgress(a.Logs, h, now),
		})
	}
	return rows
}

// Streak returns the current streak across all habits.
func (a *App) Streak() int {
	return metrics.Streak(a.Logs, a.Now())
}

// TodayLabel returns today's long weekday and date, e.g. "Kamis, 6 Juni".
func (a *App) TodayLabel() string {
	now := a.Now()
	return metrics.LongWeekday(now, a.locale) + ", " + metrics.DayMonthLabel(now, a.locale)
}

// Trend returns the last seven days of activity.
func (a *App) Trend() []metrics.DayActivity {
	return metrics.LastNDays(a.Logs, a.Now(), constants.TrendDays, a.locale)
}

// Frequency returns the habit ranking by total completions.
func (a *App) Frequency() []metrics.HabitFrequency {
	return metrics.FrequencyRanking(a.Habits.List(), a.Logs)
}

// Month returns the calendar grid of the month containing t.
func (a *App) Month(t time.Time) metrics.MonthGrid {
	return metrics.Month(a.Logs, t.In(a.loc), a.Now(), a.locale)
}

// DayDetail returns the habits completed on a date.
func (a *App) DayDetail(date string) []metrics.DayHabit {
	return metrics.LogsForDate(a.Habits, a.Logs, date)
}
