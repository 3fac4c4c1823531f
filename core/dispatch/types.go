package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
)

// ErrTripNotFound is returned when a trip ID does not resolve.
var ErrTripNotFound = errors.New("dispatch: trip not found")

// ErrVersionConflict is returned when a trip update loses an optimistic
// concurrency race. Callers may refetch and retry.
var ErrVersionConflict = errors.New("dispatch: trip version conflict")

// TripAssignmentUpdate carries the assignment fields written back to a
// trip at commit time. Version must match the stored trip for the
// update to apply.
type TripAssignmentUpdate struct {
	TripID             string
	Version            int64
	DriverID           string
	VehicleID          string
	AssignedVehicleIDs []string
	EscortVehicleIDs   []string
}

// TripSource provides read and write access to trips.
type TripSource interface {
	ListTrips(ctx context.Context) ([]model.Trip, error)
	GetTrip(ctx context.Context, id string) (model.Trip, error)
	UpdateAssignment(ctx context.Context, upd TripAssignmentUpdate) (model.Trip, error)
}

// DriverSource provides the driver roster.
type DriverSource interface {
	ListDrivers(ctx context.Context) ([]model.Driver, error)
}

// VehicleSource provides the vehicle fleet.
type VehicleSource interface {
	ListVehicles(ctx context.Context) ([]model.Vehicle, error)
}

// Notification severities.
const (
	SeveritySuccess = "success"
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Notification is a user-facing message emitted by the manager.
type Notification struct {
	Title       string
	Description string
	Severity    string
}

// Notifier delivers notifications to an external channel.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// CommitResult summarizes one commit attempt.
type CommitResult struct {
	TripID    string
	Outcome   string // committed | rejected | failed
	Trip      model.Trip
	Resources []model.ResourceRef
	Err       error
	Latency   time.Duration
	Time      time.Time
}

// CommitError wraps a commit failure with its trip context.
type CommitError struct {
	TripID string
	Err    error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit trip %s: %v", e.TripID, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
