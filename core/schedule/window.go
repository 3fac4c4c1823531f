// Package schedule models the occupied time window of a trip and the
// overlap test used by availability and conflict checks.
package schedule

import (
	"time"

	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
)

const (
	// DateLayout is the calendar-day format carried on trips.
	DateLayout = "2006-01-02"
	// ClockLayout is the wall-clock format of start and return times.
	ClockLayout = "15:04"
)

// Window is the interval a trip occupies on its calendar day. Occupying
// trips are widened by the configured buffer on both sides; candidate
// windows are built raw so the buffer is not counted twice. It is a
// derived value, computed per check and never persisted.
type Window struct {
	Date  string
	Start time.Time
	End   time.Time
}

// IsZero reports whether the window could not be derived. Zero windows
// never overlap anything: the engine degrades to "not busy" instead of
// failing the whole check on malformed input.
func (w Window) IsZero() bool { return w.Start.IsZero() && w.End.IsZero() }

// IsPoint reports whether the window collapses to a single instant, as
// happens for a trip without a return time when no buffer widens it.
func (w Window) IsPoint() bool { return w.Start.Equal(w.End) }

// Overlaps reports whether two windows intersect. Windows on different
// calendar days never overlap; zero windows never overlap. Proper
// intervals are half-open [Start, End), so back-to-back bookings do not
// conflict. A point window occupies its instant: two points conflict
// only when they coincide, and a point inside [Start, End) conflicts
// with the interval. The test is symmetric in its arguments.
func (w Window) Overlaps(o Window) bool {
	if w.IsZero() || o.IsZero() || w.Date != o.Date {
		return false
	}
	switch {
	case w.IsPoint() && o.IsPoint():
		return w.Start.Equal(o.Start)
	case w.IsPoint():
		return !w.Start.Before(o.Start) && w.Start.Before(o.End)
	case o.IsPoint():
		return !o.Start.Before(w.Start) && o.Start.Before(w.End)
	}
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// ParseClock converts an HH:MM string to an offset from midnight. Missing
// or malformed values report ok=false and are treated as 00:00 by
// callers, per the tolerant-input contract.
func ParseClock(s string) (time.Duration, bool) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

// ForTrip derives the trip's occupied window. The window runs from the
// start time to the return time when one exists, otherwise it is the
// start instant alone; both ends are then widened by bufferHours. A trip
// whose date cannot be parsed yields the zero window.
func ForTrip(t model.Trip, bufferHours float64) Window {
	return Build(t.Date, t.StartTime, t.ReturnTime, bufferHours)
}

// Build derives a window from raw date and clock strings. Invalid clock
// strings degrade to midnight; an invalid date yields the zero window.
func Build(date, startClock, returnClock string, bufferHours float64) Window {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return Window{Date: date}
	}
	startOff, _ := ParseClock(startClock)
	start := day.Add(startOff)
	end := start
	if retOff, ok := ParseClock(returnClock); ok && retOff > startOff {
		end = day.Add(retOff)
	}
	buffer := time.Duration(bufferHours * float64(time.Hour))
	if buffer < 0 {
		buffer = 0
	}
	return Window{Date: date, Start: start.Add(-buffer), End: end.Add(buffer)}
}
