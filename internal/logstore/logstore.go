// Package logstore holds completion events in insertion order.
package logstore

import (
	"sort"

	"github.com/julianstephens/habitual/internal/models"
)

// Store is an ordered sequence of log entries. Insertion order matters:
// RemoveLastMatching always takes the most recent entry of a (habit, date) group.
type Store struct {
	entries []models.LogEntry
}

// New creates a store holding a copy of entries.
func New(entries []models.LogEntry) *Store {
	s := &Store{}
	s.Replace(entries)
	return s
}

// Replace swaps the whole sequence, used when an authoritative fetch arrives.
func (s *Store) Replace(entries []models.LogEntry) {
	s.entries = append([]models.LogEntry(nil), entries...)
}

// All returns a copy of every entry in insertion order.
func (s *Store) All() []models.LogEntry {
	return append([]models.LogEntry(nil), s.entries...)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Append adds an entry to the end of the sequence.
func (s *Store) Append(entry models.LogEntry) {
	s.entries = append(s.entries, entry)
}

// RemoveLastMatching removes the most recent entry for (habitID, date).
// It reports false and leaves the store untouched when nothing matches.
func (s *Store) RemoveLastMatching(habitID, date string) bool {
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if e.HabitID == habitID && e.Date == date {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// CountMatching returns the done count of a habit on a day.
func (s *Store) CountMatching(habitID, date string) int {
	n := 0
	for _, e := range s.entries {
		if e.HabitID == habitID && e.Date == date {
			n++
		}
	}
	return n
}

// HasMatching reports whether at least one entry exists for (habitID, date).
func (s *Store) HasMatching(habitID, date string) bool {
	for _, e := range s.entries {
		if e.HabitID == habitID && e.Date == date {
			return true
		}
	}
	return false
}

// CountForDate returns the number of entries of any habit on a day.
func (s *Store) CountForDate(date string) int {
	n := 0
	for _, e := range s.entries {
		if e.Date == date {
			n++
		}
	}
	return n
}

// CountForHabit returns the all-time number of entries for a habit.
func (s *Store) CountForHabit(habitID string) int {
	n := 0
	for _, e := range s.entries {
		if e.HabitID == habitID {
			n++
		}
	}
	return n
}

// RemoveAllForHabit deletes every entry of a habit and returns how many were removed.
func (s *Store) RemoveAllForHabit(habitID string) int {
	kept := s.entries[:0]
	removed := 0
	for _, e := range s.entries {
		if e.HabitID == habitID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed
}

// ForDate returns the entries of a day in insertion order.
func (s *Store) ForDate(date string) []models.LogEntry {
	var out []models.LogEntry
	for _, e := range s.entries {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// UniqueDates returns the set of dates that have at least one entry.
func (s *Store) UniqueDates() map[string]bool {
	dates := make(map[string]bool)
	for _, e := range s.entries {
		dates[e.Date] = true
	}
	return dates
}

// SortedDates returns the distinct dates, newest first.
func (s *Store) SortedDates() []string {
	set := s.UniqueDates()
	dates := make([]string, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}
