package models

import (
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// Habit is a user-defined practice with daily and weekly targets
type Habit struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Emoji        string `json:"emoji"`
	WeeklyTarget int    `json:"weeklyTarget"`
	DailyTarget  int    `json:"dailyTarget"`
}

// IsTemporary reports whether the id was generated locally and still awaits a server id.
func (h Habit) IsTemporary() bool {
	return strings.HasPrefix(h.ID, constants.TempIDPrefix)
}

// Normalize clamps targets into their allowed ranges and fills the default emoji.
func (h Habit) Normalize() Habit {
	if h.Emoji == "" {
		h.Emoji = constants.DefaultEmoji
	}
	h.WeeklyTarget = clamp(h.WeeklyTarget, constants.MinWeeklyTarget, constants.MaxWeeklyTarget)
	h.DailyTarget = clamp(h.DailyTarget, constants.MinDailyTarget, constants.MaxDailyTarget)
	return h
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LogEntry is one completion increment of a habit on a day.
// Several entries may share the same (HabitID, Date) pair.
type LogEntry struct {
	HabitID string `json:"habitId"`
	Date    string `json:"date"` // YYYY-MM-DD format
	Status  string `json:"status"`
}

// Session identifies the authenticated user
type Session struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// Valid reports whether both session values are present.
func (s Session) Valid() bool {
	return s.UserID != "" && s.Username != ""
}

// Snapshot is the full state returned by a fetch
type Snapshot struct {
	Habits    []Habit    `json:"habits"`
	Logs      []LogEntry `json:"logs"`
	FetchedAt time.Time  `json:"fetched_at"`
}
