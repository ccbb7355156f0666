package domain

import "time"

// TimeWindow represents a half-open time interval [Start, Start+Duration).
// Two windows overlap iff a.Start < b.End && b.Start < a.End; a window that
// starts exactly when another ends is not a conflict.
type TimeWindow struct {
	Start    time.Time
	Duration time.Duration
}

// NewTimeWindow builds a window from a start instant and a duration in minutes
func NewTimeWindow(start time.Time, durationMinutes int) TimeWindow {
	return TimeWindow{
		Start:    start,
		Duration: time.Duration(durationMinutes) * time.Minute,
	}
}

// End returns the exclusive end instant of the window
func (w TimeWindow) End() time.Time {
	return w.Start.Add(w.Duration)
}

// Overlaps reports whether two half-open windows intersect
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.Before(other.End()) && other.Start.Before(w.End())
}

// Contains reports whether the instant t falls inside the window
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End())
}

// DayBoundsFor returns the [dayStart, dayStart+24h) bounds of the calendar
// day containing t in the given location. The location must be the salon's
// reference timezone, not the host timezone.
func DayBoundsFor(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return dayStart, dayStart.Add(24 * time.Hour)
}
