package metrics

import (
	"time"

	"github.com/julianstephens/habitual/internal/logstore"
	"github.com/julianstephens/habitual/internal/utils"
)

// CalendarDay is one cell of the month view
type CalendarDay struct {
	Day       int
	Date      string
	Intensity int
	IsToday   bool
}

// MonthGrid is a Monday-first month layout
type MonthGrid struct {
	Month   time.Time
	Label   string
	Leading int // blank cells before the 1st
	Days    []CalendarDay
}

// Month builds the calendar grid of the month containing month.
func Month(logs *logstore.Store, month, now time.Time, locale string) MonthGrid {
	first := utils.StartOfMonth(month)
	today := key(now)
	n := utils.DaysInMonth(first)

	grid := MonthGrid{
		Month:   first,
		Label:   MonthLabel(first, locale),
		Leading: utils.ISOWeekday(first) - 1,
		Days:    make([]CalendarDay, n),
	}
	for i := 0; i < n; i++ {
		k := key(utils.AddDays(first, i))
		grid.Days[i] = CalendarDay{
			Day:       i + 1,
			Date:      k,
			Intensity: logs.CountForDate(k),
			IsToday:   k == today,
		}
	}
	return grid
}

// Selectable reports whether the day-detail overlay may open for the day.
func (d CalendarDay) Selectable() bool {
	return d.Intensity > 0
}

// ShiftMonth moves month by delta months, staying on the 1st.
func ShiftMonth(month time.Time, delta int) time.Time {
	first := utils.StartOfMonth(month)
	return time.Date(first.Year(), first.Month()+time.Month(delta), 1, 12, 0, 0, 0, first.Location())
}
