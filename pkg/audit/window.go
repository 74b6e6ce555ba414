// Package audit computes period metrics, vendor rankings and compliance
// heuristics over a collection of transactions.
package audit

import (
	"errors"
	"time"
)

// ErrInvalidDateRange is returned when a window starts after it ends.
var ErrInvalidDateRange = errors.New("start date is after end date")

// Window is a closed range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow truncates start and end to calendar days.
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: calendarDay(start), End: calendarDay(end)}
	if w.Start.After(w.End) {
		return Window{}, ErrInvalidDateRange
	}
	return w, nil
}

// Contains reports whether day falls inside the window, bounds included.
func (w Window) Contains(day time.Time) bool {
	d := calendarDay(day)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days is the number of calendar days covered, bounds included.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
