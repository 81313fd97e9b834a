package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/arosling/casewatch/schema"
)

// Define the regular expression to capture "N [units] ago"
// e.g., "2 years ago", "3 months ago", "1 week ago".
var relativeDayRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day)s?\s+ago$`)

// ParseDay converts a date string into a calendar day (midnight UTC).
// It accepts ISO dates ("2025-01-31") and relative forms ("3 months ago"),
// resolved against the injected as-of day rather than the system clock so
// runs stay reproducible.
func ParseDay(s string, asOf time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, err := time.ParseInLocation(schema.DateFormat, s, time.UTC); err == nil {
		return t, nil
	}

	matches := relativeDayRe.FindStringSubmatch(strings.ToLower(s))
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid date format: %q (want YYYY-MM-DD or e.g. \"3 months ago\")", s)
	}

	value, _ := strconv.Atoi(matches[1])
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	switch matches[2] {
	case "year":
		return day.AddDate(-value, 0, 0), nil
	case "month":
		return day.AddDate(0, -value, 0), nil
	case "week":
		return day.AddDate(0, 0, -7*value), nil
	default: // "day"
		return day.AddDate(0, 0, -value), nil
	}
}

// MonthStart returns the first day of the month containing t, midnight UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
