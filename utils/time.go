package utils

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	DateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// ParseDate reads a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseClock reads HH:MM (seconds are accepted and dropped).
func ParseClock(s string) (datatypes.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
		}
	}
	return datatypes.NewTime(t.Hour(), t.Minute(), 0, 0), nil
}

func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

func FormatClock(t datatypes.Time) string {
	d := time.Duration(t)
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// Today truncates now to its calendar day in UTC.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
