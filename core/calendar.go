// Package core has the series completion, control-limit and
// threshold-resolution engine for casewatch.
package core

import (
	"errors"
	"fmt"
	"iter"
	"time"
)

// ErrInvalidRange is returned when a calendar range ends before it starts.
var ErrInvalidRange = errors.New("end date precedes start date")

// DayOf normalizes a timestamp to its calendar day: midnight UTC.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NumDays returns the number of calendar days in [start, end] inclusive.
func NumDays(start, end time.Time) int {
	start, end = DayOf(start), DayOf(end)
	return int(end.Sub(start).Hours()/24) + 1
}

// Days returns a lazy, restartable sequence of every calendar day in
// [start, end] inclusive, ascending. Each day is derived from the start
// day plus an integer offset, so multi-year ranges need no backing table.
func Days(start, end time.Time) (iter.Seq[time.Time], error) {
	start, end = DayOf(start), DayOf(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	n := NumDays(start, end)
	return func(yield func(time.Time) bool) {
		for i := range n {
			if !yield(start.AddDate(0, 0, i)) {
				return
			}
		}
	}, nil
}
