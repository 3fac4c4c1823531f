package model

import "time"

// TripStatus describes the lifecycle state of a trip.
type TripStatus string

const (
	StatusScheduled  TripStatus = "scheduled"
	StatusInProgress TripStatus = "in_progress"
	StatusCompleted  TripStatus = "completed"
	StatusCancelled  TripStatus = "cancelled"
)

// Occupying reports whether a trip in this status holds on to its
// assigned resources. Completed and cancelled trips release them.
func (s TripStatus) Occupying() bool {
	return s == StatusScheduled || s == StatusInProgress
}

// Trip is a scheduled transport mission. It is created externally by the
// booking flow and only its assignment fields are written by this engine.
type Trip struct {
	ID         string     `json:"id"`
	Date       string     `json:"date"`        // calendar day, YYYY-MM-DD
	StartTime  string     `json:"start_time"`  // HH:MM, local fleet time
	ReturnTime string     `json:"return_time"` // optional HH:MM
	Status     TripStatus `json:"status"`

	// Resource requirements declared by the booking.
	ArmouredCount int  `json:"armoured_count"`
	SoftSkinCount int  `json:"soft_skin_count"`
	HasEscort     bool `json:"has_escort"`
	EscortCount   int  `json:"escort_count"`

	// Assigned resources. DriverID and VehicleID are the legacy single
	// fields kept in sync with the first carrier slot.
	DriverID           string   `json:"driver_id"`
	VehicleID          string   `json:"vehicle_id"`
	AssignedVehicleIDs []string `json:"assigned_vehicle_ids"`
	EscortVehicleIDs   []string `json:"escort_vehicle_ids"`

	// Version is the optimistic-concurrency token bumped on every
	// assignment update.
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RequiredVehicles returns the number of carrier vehicles the trip needs
// before it may transition to in_progress.
func (t Trip) RequiredVehicles() int {
	n := t.ArmouredCount + t.SoftSkinCount
	if n < 0 {
		return 0
	}
	return n
}

// Clone returns a deep copy of the trip. Slices are copied so callers can
// mutate the result without aliasing stored state.
func (t Trip) Clone() Trip {
	c := t
	c.AssignedVehicleIDs = append([]string(nil), t.AssignedVehicleIDs...)
	c.EscortVehicleIDs = append([]string(nil), t.EscortVehicleIDs...)
	return c
}
