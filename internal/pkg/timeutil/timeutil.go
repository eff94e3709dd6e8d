package timeutil

import (
	"fmt"
	"time"
)

// Campus weekdays run Monday (1) through Saturday (6).
// Sunday is not a bookable day and is reported as an error instead of
// being folded into Saturday.
var ErrSunday = fmt.Errorf("sunday is outside the campus week")

// ParseHHMM parses a wall-clock "15:04" string into minutes from midnight.
func ParseHHMM(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatHHMM renders minutes from midnight back into "15:04" form.
func FormatHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a date-only "2006-01-02" string as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// At returns the absolute timestamp for the given minutes-from-midnight
// offset on the given day. day is expected to be a midnight timestamp.
func At(day time.Time, minutes int) time.Time {
	return day.Add(time.Duration(minutes) * time.Minute)
}

// CampusWeekday maps a timestamp to the 1..6 Monday-Saturday convention
// used by open hours and slot notes. Sundays return ErrSunday.
func CampusWeekday(t time.Time) (int, error) {
	switch wd := t.Weekday(); wd {
	case time.Sunday:
		return 0, ErrSunday
	default:
		return int(wd), nil
	}
}

// MinutesOfDay returns the wall-clock minutes-from-midnight of t.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
