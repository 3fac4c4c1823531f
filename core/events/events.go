// Package events defines the event types published on the internal bus.
package events

import (
	"time"

	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
)

// SessionEvent signals an allocation session state change.
type SessionEvent struct {
	TripID string
	State  string
}

// CommitEvent signals the outcome of a commit attempt.
type CommitEvent struct {
	TripID    string
	Outcome   string // committed | rejected | failed
	Resources int
	Err       error
}

// ConflictEvent signals the result of an advisory conflict scan.
type ConflictEvent struct {
	Date    string
	Drivers int
	Trips   int
}

// NotificationEvent mirrors an operator-facing message for subscribers
// that render or archive notifications.
type NotificationEvent struct {
	Title       string
	Description string
	Severity    string
	Time        time.Time
}

// TripUpdatedEvent carries the trip state after a successful commit.
type TripUpdatedEvent struct {
	Trip model.Trip
}
