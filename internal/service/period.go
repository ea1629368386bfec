package service

import (
	"fmt"
	"time"
)

// DateLayout is the user-facing date format for periods (DD-MM-YYYY).
const DateLayout = "02-01-2006"

// ParseDate parses a user-supplied DD-MM-YYYY date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want DD-MM-YYYY", s)
	}
	return t, nil
}

// PeriodLabel is the filename-safe label for a period: DD-MM-YYYY for a
// single day, DD-MM-YYYY_to_DD-MM-YYYY for a range.
func PeriodLabel(start, end time.Time) string {
	if sameDay(start, end) {
		return start.Format(DateLayout)
	}
	return fmt.Sprintf("%s_to_%s", start.Format(DateLayout), end.Format(DateLayout))
}

// PeriodDisplay is the human-readable period used in report titles and
// captions.
func PeriodDisplay(start, end time.Time) string {
	if sameDay(start, end) {
		return start.Format(DateLayout)
	}
	return fmt.Sprintf("%s — %s", start.Format(DateLayout), end.Format(DateLayout))
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
