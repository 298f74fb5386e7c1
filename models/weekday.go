package models

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var weekdayLabels = map[time.Weekday]string{
	time.Monday:    "Lunes",
	time.Tuesday:   "Martes",
	time.Wednesday: "Miércoles",
	time.Thursday:  "Jueves",
	time.Friday:    "Viernes",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}

// Weekdays lists the labels from Monday to Sunday.
func Weekdays() []string {
	return []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}
}

// WeekdayLabel translates a weekday into the label stored in provider availability.
func WeekdayLabel(d time.Weekday) (string, bool) {
	label, ok := weekdayLabels[d]
	return label, ok
}

// CanonicalWeekday maps user input such as "miercoles" onto its label.
func CanonicalWeekday(s string) (string, bool) {
	for _, label := range Weekdays() {
		if SameWeekday(s, label) {
			return label, true
		}
	}
	return "", false
}

// SameWeekday compares two labels ignoring case and diacritics.
func SameWeekday(a, b string) bool {
	return foldLabel(a) == foldLabel(b)
}

func foldLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
