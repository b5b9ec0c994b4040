package metrics

import (
	"time"

	"github.com/goodsign/monday"

	"github.com/julianstephens/habitual/internal/constants"
)

func locale(name string) monday.Locale {
	if name == "" {
		name = constants.DefaultLocale
	}
	return monday.Locale(name)
}

// ShortWeekday formats the abbreviated weekday name of t in the given locale.
func ShortWeekday(t time.Time, loc string) string {
	return monday.Format(t, "Mon", locale(loc))
}

// LongWeekday formats the full weekday name of t.
func LongWeekday(t time.Time, loc string) string {
	return monday.Format(t, "Monday", locale(loc))
}

// DayMonthLabel formats "2 January" style labels.
func DayMonthLabel(t time.Time, loc string) string {
	return monday.Format(t, "2 January", locale(loc))
}

// LongDateLabel formats "2 January 2006" style labels.
func LongDateLabel(t time.Time, loc string) string {
	return monday.Format(t, "2 January 2006", locale(loc))
}

// MonthLabel formats "January 2006" style labels.
func MonthLabel(t time.Time, loc string) string {
	return monday.Format(t, "January 2006", locale(loc))
}
