package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
	"github.com/ahmedNJ467/koormatics-dispatch/core/schedule"
)

func candidateAt(start, ret string) schedule.Window {
	return schedule.Build("2024-01-01", start, ret, 0)
}

func TestCheckFreeDriver(t *testing.T) {
	chk := NewChecker(nil)
	trips := []model.Trip{
		{ID: "t1", Date: "2024-01-01", StartTime: "06:00", ReturnTime: "07:00", Status: model.StatusScheduled, DriverID: "d1"},
	}
	res := chk.Check(model.DriverRef("d2"), candidateAt("10:00", "12:00"), trips, Options{BufferHours: 1})
	assert.True(t, res.Available)
	assert.Empty(t, res.Reason)
}

func TestCheckBusyDriver(t *testing.T) {
	chk := NewChecker(nil)
	trips := []model.Trip{
		{ID: "t1", Date: "2024-01-01", StartTime: "10:00", ReturnTime: "12:00", Status: model.StatusScheduled, DriverID: "d1"},
	}
	res := chk.Check(model.DriverRef("d1"), candidateAt("11:00", "13:00"), trips, Options{BufferHours: 1})
	require.False(t, res.Available)
	require.NotNil(t, res.ConflictingTrip)
	assert.Equal(t, "t1", res.ConflictingTrip.ID)
	// AvailableAt = conflicting end (12:00) + 1h buffer.
	require.NotNil(t, res.AvailableAt)
	assert.Equal(t, "13:00", res.AvailableAt.Format(schedule.ClockLayout))
	assert.Contains(t, res.Reason, "driver d1")
	assert.Contains(t, res.Reason, "t1")
}

func TestCheckAvailableAtTakesLatestConflict(t *testing.T) {
	chk := NewChecker(nil)
	trips := []model.Trip{
		{ID: "early", Date: "2024-01-01", StartTime: "09:00", ReturnTime: "10:00", Status: model.StatusScheduled, DriverID: "d1"},
		{ID: "late", Date: "2024-01-01", StartTime: "11:00", ReturnTime: "15:00", Status: model.StatusInProgress, DriverID: "d1"},
	}
	res := chk.Check(model.DriverRef("d1"), candidateAt("09:30", "12:00"), trips, Options{BufferHours: 0})
	require.False(t, res.Available)
	assert.Equal(t, "late", res.ConflictingTrip.ID)
	require.NotNil(t, res.AvailableAt)
	assert.Equal(t, "15:00", res.AvailableAt.Format(schedule.ClockLayout))
}

func TestCheckAvailableAtPassesFreshCheck(t *testing.T) {
	chk := NewChecker(nil)
	trips := []model.Trip{
		{ID: "t1", Date: "2024-01-01", StartTime: "09:00", ReturnTime: "12:00", Status: model.StatusScheduled, DriverID: "d1"},
	}
	opts := Options{BufferHours: 1}

	busy := chk.Check(model.DriverRef("d1"), candidateAt("12:30", "14:00"), trips, opts)
	require.False(t, busy.Available)
	require.NotNil(t, busy.AvailableAt)
	assert.Equal(t, "13:00", busy.AvailableAt.Format(schedule.ClockLayout))

	// A booking placed at the reported instant must clear its own check.
	at := busy.AvailableAt.Format(schedule.ClockLayout)
	retry := chk.Check(model.DriverRef("d1"), candidateAt(at, "15:00"), trips, opts)
	assert.True(t, retry.Available, "resource should be free at its reported AvailableAt")
}

func TestCheckPointTripBlocksItsInstant(t *testing.T) {
	chk := NewChecker(nil)
	trips := []model.Trip{
		{ID: "t1", Date: "2024-01-01", StartTime: "10:00", Status: model.StatusScheduled, DriverID: "d1"},
	}
	opts := Options{BufferHours: 0}

	busy := chk.Check(model.DriverRef("d1"), candidateAt("09:00", "11:00"), trips, opts)
	require.False(t, busy.Available)
	require.NotNil(t, busy.AvailableAt)
	assert.Equal(t, "10:01", busy.AvailableAt.Format(schedule.ClockLayout))

	at := busy.AvailableAt.Format(schedule.ClockLayout)
	retry := chk.Check(model.DriverRef("d1"), candidateAt(at, "11:00"), trips, opts)
	assert.True(t, retry.Available)
}

func TestCheckExcludesEditedTrip(t *testing.T) {
	chk := NewChecker(nil)
	trips := []model.Trip{
		{ID: "t1", Date: "2024-01-01", StartTime: "10:00", ReturnTime: "12:00", Status: model.StatusScheduled, DriverID: "d1"},
	}
	res := chk.Check(model.DriverRef("d1"), candidateAt("10:00", "12:00"), trips, Options{BufferHours: 1, ExcludeTripID: "t1"})
	assert.True(t, res.Available, "a trip must not conflict with itself while being edited")
}

func TestCheckIgnoresOtherDatesAndReleasedTrips(t *testing.T) {
	chk := NewChecker(nil)
	trips := []model.Trip{
		{ID: "other-day", Date: "2024-01-02", StartTime: "10:00", ReturnTime: "12:00", Status: model.StatusScheduled, DriverID: "d1"},
		{ID: "done", Date: "2024-01-01", StartTime: "10:00", ReturnTime: "12:00", Status: model.StatusCompleted, DriverID: "d1"},
		{ID: "cancelled", Date: "2024-01-01", StartTime: "10:00", ReturnTime: "12:00", Status: model.StatusCancelled, DriverID: "d1"},
	}
	res := chk.Check(model.DriverRef("d1"), candidateAt("10:00", "12:00"), trips, Options{BufferHours: 1})
	assert.True(t, res.Available)
}

func TestCheckVehicleReferences(t *testing.T) {
	chk := NewChecker(nil)
	trips := []model.Trip{
		{ID: "t1", Date: "2024-01-01", StartTime: "10:00", ReturnTime: "12:00", Status: model.StatusScheduled,
			VehicleID:          "v-primary",
			AssignedVehicleIDs: []string{"v-carrier"},
			EscortVehicleIDs:   []string{"v-escort"},
		},
	}
	for _, id := range []string{"v-primary", "v-carrier", "v-escort"} {
		res := chk.Check(model.VehicleRef(id), candidateAt("11:00", "13:00"), trips, Options{BufferHours: 0})
		assert.False(t, res.Available, "vehicle %s should be busy", id)
	}
	free := chk.Check(model.VehicleRef("v-other"), candidateAt("11:00", "13:00"), trips, Options{BufferHours: 0})
	assert.True(t, free.Available)
}

func TestCheckDegradesOnMalformedInput(t *testing.T) {
	chk := NewChecker(nil)
	trips := []model.Trip{
		// Unparseable date: the trip is skipped, not fatal.
		{ID: "broken", Date: "2024-01-01", StartTime: "10:00", Status: model.StatusScheduled, DriverID: "d1"},
	}
	trips[0].Date = "garbage"
	res := chk.Check(model.DriverRef("d1"), candidateAt("10:00", "12:00"), trips, Options{BufferHours: 1})
	assert.True(t, res.Available)

	// Unparseable candidate window: assume free rather than crash.
	zero := schedule.Build("garbage", "10:00", "", 1)
	res = chk.Check(model.DriverRef("d1"), zero, trips, Options{BufferHours: 1})
	assert.True(t, res.Available)
}
