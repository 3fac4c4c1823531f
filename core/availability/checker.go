// Package availability decides whether a driver or vehicle is free for a
// candidate time window, given the full trip snapshot.
package availability

import (
	"fmt"
	"time"

	"github.com/ahmedNJ467/koormatics-dispatch/core/logger"
	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
	"github.com/ahmedNJ467/koormatics-dispatch/core/schedule"
)

// Options tunes a single availability check.
type Options struct {
	// BufferHours widens each occupying trip's window on both sides to
	// keep turnaround time between back-to-back bookings. The candidate
	// window is taken as-is; callers must build it without a buffer.
	BufferHours float64
	// ExcludeTripID is the trip being edited; it never conflicts with
	// itself.
	ExcludeTripID string
	// Now is the reference instant for reporting. Zero means time.Now.
	Now time.Time
}

// Result is the outcome of one check. When the resource is busy,
// AvailableAt is the earliest instant it is free across all conflicting
// trips and ConflictingTrip references the one occupying it the longest.
type Result struct {
	Available       bool        `json:"available"`
	Reason          string      `json:"reason,omitempty"`
	AvailableAt     *time.Time  `json:"available_at,omitempty"`
	ConflictingTrip *model.Trip `json:"conflicting_trip,omitempty"`
}

// Checker performs availability checks. All methods are pure functions
// over the snapshot passed in; nothing is cached between calls.
type Checker struct {
	log logger.Logger
}

// NewChecker creates a Checker. A nil logger falls back to a no-op.
func NewChecker(log logger.Logger) *Checker {
	if log == nil {
		log = logger.Nop{}
	}
	return &Checker{log: log}
}

// Check reports whether the resource is free for the candidate window.
// The candidate must be built without a buffer; each occupying trip is
// widened by BufferHours here, so the turnaround gap is counted once.
// Trips on another date, trips that no longer occupy their resources and
// the excluded trip are skipped. When several trips conflict, the
// reported AvailableAt is the latest conflicting widened end, so a new
// booking starting there passes a fresh check.
func (c *Checker) Check(res model.ResourceRef, candidate schedule.Window, trips []model.Trip, opts Options) Result {
	if candidate.IsZero() {
		// Malformed candidate input: degrade to available rather than
		// abort the caller's session.
		c.log.Warnf("availability: unparseable candidate window on %s, assuming free", candidate.Date)
		return Result{Available: true}
	}

	var worst *model.Trip
	var freeAt time.Time
	for i := range trips {
		t := trips[i]
		if t.ID == opts.ExcludeTripID || !t.Status.Occupying() || t.Date != candidate.Date {
			continue
		}
		if !references(t, res) {
			continue
		}
		w := schedule.ForTrip(t, opts.BufferHours)
		if w.IsZero() {
			c.log.Warnf("availability: trip %s has unparseable times, skipping", t.ID)
			continue
		}
		if !candidate.Overlaps(w) {
			continue
		}
		end := w.End
		if w.IsPoint() {
			// A point trip blocks its exact instant; the resource is
			// next free at the following clock minute.
			end = end.Add(time.Minute)
		}
		if end.After(freeAt) {
			freeAt = end
			worst = &trips[i]
		}
	}

	if worst == nil {
		return Result{Available: true}
	}
	conflicting := worst.Clone()
	return Result{
		Available:       false,
		Reason:          fmt.Sprintf("%s is booked on trip %s until %s", res, conflicting.ID, freeAt.Format(schedule.ClockLayout)),
		AvailableAt:     &freeAt,
		ConflictingTrip: &conflicting,
	}
}

// references reports whether the trip uses the resource as driver,
// primary vehicle, assigned carrier vehicle or escort vehicle.
func references(t model.Trip, res model.ResourceRef) bool {
	switch res.Kind {
	case model.ResourceDriver:
		return res.ID != "" && t.DriverID == res.ID
	case model.ResourceVehicle:
		if res.ID == "" {
			return false
		}
		if t.VehicleID == res.ID {
			return true
		}
		for _, id := range t.AssignedVehicleIDs {
			if id == res.ID {
				return true
			}
		}
		for _, id := range t.EscortVehicleIDs {
			if id == res.ID {
				return true
			}
		}
	}
	return false
}
