package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeWindow_Overlaps(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		a        TimeWindow
		b        TimeWindow
		overlaps bool
	}{
		{
			name:     "identical windows",
			a:        NewTimeWindow(base, 30),
			b:        NewTimeWindow(base, 30),
			overlaps: true,
		},
		{
			name:     "partial overlap",
			a:        NewTimeWindow(base, 30),
			b:        NewTimeWindow(base.Add(15*time.Minute), 30),
			overlaps: true,
		},
		{
			name:     "one contains the other",
			a:        NewTimeWindow(base, 60),
			b:        NewTimeWindow(base.Add(15*time.Minute), 15),
			overlaps: true,
		},
		{
			name:     "back to back is not a conflict",
			a:        NewTimeWindow(base, 30),
			b:        NewTimeWindow(base.Add(30*time.Minute), 30),
			overlaps: false,
		},
		{
			name:     "back to back reversed",
			a:        NewTimeWindow(base.Add(30*time.Minute), 30),
			b:        NewTimeWindow(base, 30),
			overlaps: false,
		},
		{
			name:     "disjoint windows",
			a:        NewTimeWindow(base, 30),
			b:        NewTimeWindow(base.Add(2*time.Hour), 30),
			overlaps: false,
		},
		{
			name:     "one minute overlap at the tail",
			a:        NewTimeWindow(base, 30),
			b:        NewTimeWindow(base.Add(29*time.Minute), 30),
			overlaps: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tt.a.Overlaps(tt.b))
			// Overlap is symmetric
			assert.Equal(t, tt.overlaps, tt.b.Overlaps(tt.a))
		})
	}
}

func TestTimeWindow_End(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	w := NewTimeWindow(start, 45)

	assert.Equal(t, start.Add(45*time.Minute), w.End())
}

func TestTimeWindow_Contains(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	w := NewTimeWindow(start, 30)

	assert.True(t, w.Contains(start), "start is inside the half-open interval")
	assert.True(t, w.Contains(start.Add(29*time.Minute)))
	assert.False(t, w.Contains(w.End()), "end is exclusive")
	assert.False(t, w.Contains(start.Add(-time.Minute)))
}

func TestDayBoundsFor_UTC(t *testing.T) {
	instant := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)

	dayStart, dayEnd := DayBoundsFor(instant, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), dayStart)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), dayEnd)
}

func TestDayBoundsFor_SalonTimezone(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	// 22:30 UTC = 01:30 следующего дня по Москве
	instant := time.Date(2026, 3, 1, 22, 30, 0, 0, time.UTC)

	dayStart, dayEnd := DayBoundsFor(instant, moscow)

	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, moscow), dayStart)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, moscow), dayEnd)
	assert.Equal(t, 24*time.Hour, dayEnd.Sub(dayStart))
}
