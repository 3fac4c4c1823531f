package model

// DriverStatus describes whether a driver can be offered for assignment.
type DriverStatus string

const (
	DriverActive   DriverStatus = "active"
	DriverInactive DriverStatus = "inactive"
)

// Driver is a fleet driver referenced by trips and assignments.
type Driver struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Contact string       `json:"contact"`
	Status  DriverStatus `json:"status"`
}

// Assignable reports whether the driver may appear in candidate pools.
// An empty status is treated as active for records synced from sources
// that predate the status field.
func (d Driver) Assignable() bool {
	return d.Status == DriverActive || d.Status == ""
}
