package model

import "time"

// AssignmentStatus is the initial lifecycle state of an assignment row.
// This engine only ever writes pending; downstream systems move the row
// forward and the record is never updated in place here.
type AssignmentStatus string

const AssignmentPending AssignmentStatus = "pending"

// Assignment links a driver to a trip. Rows are immutable history.
type Assignment struct {
	ID        string           `json:"id"`
	TripID    string           `json:"trip_id"`
	DriverID  string           `json:"driver_id"`
	Status    AssignmentStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}
