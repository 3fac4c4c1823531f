// Package assignmentlog persists the history of committed trip
// assignments and supports querying it back.
package assignmentlog

import (
	"context"
	"time"
)

// Record captures one assignment row written at commit time.
type Record struct {
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	DriverID  string    `json:"driver_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Query defines filters for retrieving records. Zero-valued fields
// match everything.
type Query struct {
	Start    time.Time
	End      time.Time
	TripID   string
	DriverID string
	Status   string
}

// Matches reports whether the record passes every set filter.
func (q Query) Matches(r Record) bool {
	if !q.Start.IsZero() && r.CreatedAt.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.CreatedAt.After(q.End) {
		return false
	}
	if q.TripID != "" && r.TripID != q.TripID {
		return false
	}
	if q.DriverID != "" && r.DriverID != q.DriverID {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
