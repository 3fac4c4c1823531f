package model

// VehicleType classifies a vehicle for slot matching.
type VehicleType string

const (
	VehicleArmoured VehicleType = "armoured"
	VehicleSoftSkin VehicleType = "soft_skin"
)

// Vehicle is a fleet vehicle referenced by trips. It has no owning trip;
// its availability is computed from the trip snapshot, except for the
// denormalized IsEscortAssigned flag maintained by the booking platform
// and used as a fallback signal when escort lists are missing upstream.
type Vehicle struct {
	ID               string      `json:"id"`
	Make             string      `json:"make"`
	Model            string      `json:"model"`
	Registration     string      `json:"registration"`
	Type             VehicleType `json:"type"`
	IsEscortAssigned bool        `json:"is_escort_assigned"`
}

// Label returns a short human-readable identifier for notifications.
func (v Vehicle) Label() string {
	if v.Registration != "" {
		return v.Registration
	}
	return v.ID
}
