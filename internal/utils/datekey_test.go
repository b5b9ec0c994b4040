package utils

import (
	"errors"
	"testing"
	"time"
)

func TestDateKey(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"canonical key", "2024-02-20", "2024-02-20"},
		{"iso timestamp fast path", "2024-02-20T17:00:00.000Z", "2024-02-20"},
		{"space separated timestamp", "2024-02-20 08:15:00", "2024-02-20"},
		{"time value", time.Date(2024, 6, 5, 23, 30, 0, 0, jakarta), "2024-06-05"},
		{"slash date", "2024/06/05", "2024-06-05"},
		{"us date", "06/05/2024", "2024-06-05"},
		{"long date", "June 5, 2024", "2024-06-05"},
		{"javascript date string", "Wed Jun 05 2024 10:00:00 GMT+0700 (Western Indonesia Time)", "2024-06-05"},
		{"weekday starting with T is parsed, not cut", "Tue Feb 20 2024", "2024-02-20"},
		{"unpadded timestamp is not cut", "2024-6-1T10:00", "2024-6-1T10:00"},
		{"unparseable passes through", "not a date", "not a date"},
		{"empty", "", ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DateKeyIn(tt.input, jakarta)
			if got != tt.want {
				t.Errorf("DateKeyIn(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateKeyTimeUsesLocation(t *testing.T) {
	// 2024-06-05 20:00 UTC is already June 6 in UTC+7
	ts := time.Date(2024, 6, 5, 20, 0, 0, 0, time.UTC)
	if got := DateKeyIn(ts, time.FixedZone("WIB", 7*60*60)); got != "2024-06-06" {
		t.Errorf("DateKeyIn() = %q, want 2024-06-06", got)
	}
	if got := DateKeyIn(ts, time.UTC); got != "2024-06-05" {
		t.Errorf("DateKeyIn() = %q, want 2024-06-05", got)
	}
}

func TestDateKeyIdempotent(t *testing.T) {
	inputs := []string{
		"2024-02-20",
		"2024-02-20T23:59:59Z",
		"2024/02/20T10:00",
		"Tue Feb 20 2024",
		"February 20, 2024",
		"garbage",
		"2024-13-45",
		"",
	}
	for _, in := range inputs {
		once := DateKeyIn(in, time.UTC)
		twice := DateKeyIn(once, time.UTC)
		if once != twice {
			t.Errorf("DateKey not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestParseDateKey(t *testing.T) {
	key, err := ParseDateKey("2024-06-05T08:00:00Z", time.UTC)
	if err != nil {
		t.Fatalf("ParseDateKey() failed: %v", err)
	}
	if key != "2024-06-05" {
		t.Errorf("ParseDateKey() = %q, want 2024-06-05", key)
	}

	for _, in := range []string{"garbage", "2024-13-45", ""} {
		if _, err := ParseDateKey(in, time.UTC); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDateKey(%q) error = %v, want ErrInvalidDate", in, err)
		}
	}
}

func TestWeekHelpers(t *testing.T) {
	sunday := time.Date(2024, 6, 9, 9, 0, 0, 0, time.UTC)
	if got := ISOWeekday(sunday); got != 7 {
		t.Errorf("ISOWeekday(sunday) = %d, want 7", got)
	}
	monday := StartOfWeek(sunday)
	if got := monday.Format("2006-01-02"); got != "2024-06-03" {
		t.Errorf("StartOfWeek(sunday) = %s, want 2024-06-03", got)
	}
	if got := StartOfWeek(monday).Format("2006-01-02"); got != "2024-06-03" {
		t.Errorf("StartOfWeek(monday) = %s, want 2024-06-03", got)
	}
	if got := DaysInMonth(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)); got != 29 {
		t.Errorf("DaysInMonth(Feb 2024) = %d, want 29", got)
	}
	if got := AddDays(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), -1).Format("2006-01-02"); got != "2024-02-29" {
		t.Errorf("AddDays() = %s, want 2024-02-29", got)
	}
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("Local")
	if err != nil || loc != time.Local {
		t.Errorf("LoadLocation(Local) = %v, %v", loc, err)
	}
	if ValidateTimezone("Not/AZone") {
		t.Error("ValidateTimezone accepted an invalid zone")
	}
}
