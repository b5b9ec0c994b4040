package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// ErrInvalidDate is returned by ParseDateKey for input that is not a recognizable date.
var ErrInvalidDate = errors.New("invalid date")

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Layouts tried, in order, when the input is neither a timestamp nor a date key.
var fallbackLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.RFC822Z,
	time.RFC822,
	time.ANSIC,
	time.UnixDate,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
}

// DateKey normalizes a date-like value into a YYYY-MM-DD key in the local timezone.
// Unparseable strings are returned unchanged.
func DateKey(v any) string {
	return DateKeyIn(v, time.Local)
}

// DateKeyIn is DateKey with an explicit location for time values and parsed strings.
func DateKeyIn(v any, loc *time.Location) string {
	switch d := v.(type) {
	case time.Time:
		return formatKey(d, loc)
	case *time.Time:
		if d == nil {
			return ""
		}
		return formatKey(*d, loc)
	case string:
		return stringKey(d, loc)
	case fmt.Stringer:
		return stringKey(d.String(), loc)
	case nil:
		return ""
	default:
		return stringKey(fmt.Sprint(d), loc)
	}
}

// IsDateKey reports whether s is already in canonical form.
func IsDateKey(s string) bool {
	return dateKeyPattern.MatchString(s)
}

// ParseDateKey is the strict variant of DateKey: it reports ErrInvalidDate instead of
// passing unparseable input through.
func ParseDateKey(s string, loc *time.Location) (string, error) {
	key := DateKeyIn(s, loc)
	if !IsDateKey(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if _, err := time.ParseInLocation(constants.DateFormat, key, loc); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return key, nil
}

// KeyTime returns the time at noon of the given key in loc.
func KeyTime(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc), nil
}

func stringKey(s string, loc *time.Location) string {
	if s == "" {
		return ""
	}
	// Timestamp fast path: keep the leading date digits as-is, no timezone conversion.
	if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') && IsDateKey(s[:10]) {
		return s[:10]
	}
	if IsDateKey(s) {
		return s
	}
	candidate := strings.TrimSpace(s)
	// JavaScript Date strings carry a trailing zone name, e.g. "(Western Indonesia Time)".
	if idx := strings.Index(candidate, " ("); idx > 0 {
		candidate = candidate[:idx]
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, candidate, loc); err == nil {
			return formatKey(t, loc)
		}
	}
	return s
}

func formatKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(constants.DateFormat)
}
