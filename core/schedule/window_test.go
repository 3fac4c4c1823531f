package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
)

func mustClock(t *testing.T, s string) time.Duration {
	t.Helper()
	d, ok := ParseClock(s)
	require.True(t, ok, "parse %q", s)
	return d
}

func TestParseClock(t *testing.T) {
	assert.Equal(t, 10*time.Hour+30*time.Minute, mustClock(t, "10:30"))

	for _, bad := range []string{"", "25:00", "banana", "10:65"} {
		_, ok := ParseClock(bad)
		assert.False(t, ok, "expected %q to be rejected", bad)
	}
}

func TestBuildWindow(t *testing.T) {
	w := Build("2024-01-01", "10:00", "14:00", 1)
	require.False(t, w.IsZero())
	assert.Equal(t, "09:00", w.Start.Format(ClockLayout))
	assert.Equal(t, "15:00", w.End.Format(ClockLayout))
}

func TestBuildWindowNoReturnIsPoint(t *testing.T) {
	w := Build("2024-01-01", "10:00", "", 1)
	assert.Equal(t, "09:00", w.Start.Format(ClockLayout))
	assert.Equal(t, "11:00", w.End.Format(ClockLayout))
}

func TestBuildWindowTolerantInput(t *testing.T) {
	// Malformed clocks degrade to midnight rather than failing.
	w := Build("2024-01-01", "oops", "", 0.5)
	require.False(t, w.IsZero())
	assert.Equal(t, "23:30", w.Start.Format(ClockLayout))

	// A malformed date yields a zero window that overlaps nothing.
	z := Build("not-a-date", "10:00", "", 1)
	assert.True(t, z.IsZero())
	assert.False(t, z.Overlaps(w))
	assert.False(t, w.Overlaps(z))
}

func TestOverlapsSymmetry(t *testing.T) {
	a := Build("2024-01-01", "10:00", "12:00", 0.5)
	b := Build("2024-01-01", "11:00", "13:00", 0.5)
	c := Build("2024-01-01", "15:00", "16:00", 0.5)
	d := Build("2024-01-02", "10:00", "12:00", 0.5)

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
	assert.False(t, c.Overlaps(a))
	// Same clock range on another day never overlaps.
	assert.False(t, a.Overlaps(d))
}

func TestOverlapsBufferMonotonic(t *testing.T) {
	// Widening the buffer can only turn available into busy, never the
	// reverse: once two windows overlap at buffer b they overlap at b+x.
	for _, buffers := range [][2]float64{{0, 1}, {0.5, 2}, {1, 4}} {
		narrowA := Build("2024-01-01", "08:00", "09:00", buffers[0])
		narrowB := Build("2024-01-01", "10:00", "11:00", buffers[0])
		wideA := Build("2024-01-01", "08:00", "09:00", buffers[1])
		wideB := Build("2024-01-01", "10:00", "11:00", buffers[1])
		if narrowA.Overlaps(narrowB) {
			assert.True(t, wideA.Overlaps(wideB))
		}
	}

	tight := Build("2024-01-01", "08:00", "09:00", 0)
	next := Build("2024-01-01", "09:30", "10:30", 0)
	assert.False(t, tight.Overlaps(next))
	loose := Build("2024-01-01", "08:00", "09:00", 1)
	looseNext := Build("2024-01-01", "09:30", "10:30", 1)
	assert.True(t, loose.Overlaps(looseNext))
}

func TestOverlapsPointWindows(t *testing.T) {
	p := Build("2024-01-01", "10:00", "", 0)
	require.True(t, p.IsPoint())

	// Two departures at the same instant claim the same resource.
	same := Build("2024-01-01", "10:00", "", 0)
	assert.True(t, p.Overlaps(same))
	later := Build("2024-01-01", "10:30", "", 0)
	assert.False(t, p.Overlaps(later))
	assert.False(t, later.Overlaps(p))

	// A point inside a proper interval conflicts; a point at the
	// interval's end does not, matching the half-open convention.
	covering := Build("2024-01-01", "09:00", "11:00", 0)
	assert.True(t, p.Overlaps(covering))
	assert.True(t, covering.Overlaps(p))
	ending := Build("2024-01-01", "09:00", "10:00", 0)
	assert.False(t, p.Overlaps(ending))
	assert.False(t, ending.Overlaps(p))
	starting := Build("2024-01-01", "10:00", "12:00", 0)
	assert.True(t, p.Overlaps(starting))
}

func TestForTrip(t *testing.T) {
	trip := model.Trip{ID: "t1", Date: "2024-03-10", StartTime: "07:45", ReturnTime: "09:15"}
	w := ForTrip(trip, 0)
	assert.Equal(t, "07:45", w.Start.Format(ClockLayout))
	assert.Equal(t, "09:15", w.End.Format(ClockLayout))
	assert.Equal(t, "2024-03-10", w.Date)
}
