// Package metrics derives streaks, weekly progress and aggregate counts from the
// current log and habit collections. Nothing here is cached: callers recompute on
// every render.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logstore"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// HabitLookup resolves habit ids against the registry
type HabitLookup interface {
	Get(id string) (models.Habit, bool)
}

// DayActivity is one bar of the trend chart
type DayActivity struct {
	Date    string
	Label   string
	Count   int
	IsToday bool
}

// HabitFrequency is one row of the frequency ranking
type HabitFrequency struct {
	Habit models.Habit
	Count int
	Width float64 // percentage of the top count
}

// DayHabit is a habit completed on a given day
type DayHabit struct {
	Habit models.Habit
	Count int
}

func key(t time.Time) string {
	return utils.DateKeyIn(t, t.Location())
}

// Streak counts consecutive active days ending today, or ending yesterday while
// today has no entries yet. Activity of any habit counts.
func Streak(logs *logstore.Store, now time.Time) int {
	dates := logs.UniqueDates()
	if len(dates) == 0 {
		return 0
	}

	cursor := now
	if !dates[key(now)] {
		cursor = utils.AddDays(now, -1)
		if !dates[key(cursor)] {
			return 0
		}
	}

	streak := 0
	for dates[key(cursor)] {
		streak++
		cursor = utils.AddDays(cursor, -1)
	}
	return streak
}

// WeekDates returns the keys of Monday through Sunday of the week containing now.
func WeekDates(now time.Time) []string {
	monday := utils.StartOfWeek(now)
	out := make([]string, 7)
	for i := range out {
		out[i] = key(utils.AddDays(monday, i))
	}
	return out
}

// DaysCompletedThisWeek counts the days of the current week with at least one entry for the habit.
func DaysCompletedThisWeek(logs *logstore.Store, habitID string, now time.Time) int {
	n := 0
	for _, d := range WeekDates(now) {
		if logs.HasMatching(habitID, d) {
			n++
		}
	}
	return n
}

// WeeklyProgress returns the completion percentage of the weekly target, capped at 100.
func WeeklyProgress(logs *logstore.Store, habit models.Habit, now time.Time) float64 {
	target := habit.WeeklyTarget
	if target < constants.MinWeeklyTarget {
		target = constants.MinWeeklyTarget
	}
	done := DaysCompletedThisWeek(logs, habit.ID, now)
	return math.Min(float64(done)/float64(target)*100, 100)
}

// DailyCount returns how many times the habit was done today.
func DailyCount(logs *logstore.Store, habitID string, now time.Time) int {
	return logs.CountMatching(habitID, key(now))
}

// IsFull reports whether today's count reached the daily target.
func IsFull(logs *logstore.Store, habit models.Habit, now time.Time) bool {
	return DailyCount(logs, habit.ID, now) >= habit.DailyTarget
}

// LastNDays returns per-day totals for the trailing n days, oldest first, today last.
func LastNDays(logs *logstore.Store, now time.Time, n int, locale string) []DayActivity {
	today := key(now)
	days := make([]DayActivity, 0, n)
	for i := n - 1; i >= 0; i-- {
		d := utils.AddDays(now, -i)
		k := key(d)
		days = append(days, DayActivity{
			Date:    k,
			Label:   ShortWeekday(d, locale),
			Count:   logs.CountForDate(k),
			IsToday: k == today,
		})
	}
	return days
}

// TrendScale is the bar chart denominator: the largest count, but never below 5.
func TrendScale(days []DayActivity) int {
	scale := constants.TrendMinScale
	for _, d := range days {
		if d.Count > scale {
			scale = d.Count
		}
	}
	return scale
}

// BarHeight returns a day's bar height as a percentage of scale.
func BarHeight(count, scale int) float64 {
	if scale <= 0 {
		return 0
	}
	return float64(count) / float64(scale) * 100
}

// FrequencyRanking orders habits by all-time entry count, highest first. Ties keep
// registry order. Widths are relative to the top count with a minimum denominator of 1.
func FrequencyRanking(habits []models.Habit, logs *logstore.Store) []HabitFrequency {
	ranked := make([]HabitFrequency, len(habits))
	maxCount := 1
	for i, h := range habits {
		c := logs.CountForHabit(h.ID)
		ranked[i] = HabitFrequency{Habit: h, Count: c}
		if c > maxCount {
			maxCount = c
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	for i := range ranked {
		ranked[i].Width = float64(ranked[i].Count) / float64(maxCount) * 100
	}
	return ranked
}

// LogsForDate returns the distinct habits completed on date, in order of first
// completion. Ids no longer present in the registry are dropped.
func LogsForDate(habits HabitLookup, logs *logstore.Store, date string) []DayHabit {
	seen := make(map[string]bool)
	var out []DayHabit
	for _, e := range logs.ForDate(date) {
		if seen[e.HabitID] {
			continue
		}
		seen[e.HabitID] = true
		h, ok := habits.Get(e.HabitID)
		if !ok {
			continue
		}
		out = append(out, DayHabit{Habit: h, Count: logs.CountMatching(h.ID, date)})
	}
	return out
}
