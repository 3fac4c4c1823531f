package model

import "fmt"

// ResourceKind is a closed enumeration of assignable resource kinds. It
// exists so a vehicle id can never be passed where a driver id is
// expected: every id travels together with its kind.
type ResourceKind int

const (
	ResourceDriver ResourceKind = iota
	ResourceVehicle
)

// String returns a human-readable representation of the kind.
func (k ResourceKind) String() string {
	switch k {
	case ResourceDriver:
		return "driver"
	case ResourceVehicle:
		return "vehicle"
	default:
		return "unknown"
	}
}

// ParseResourceKind converts the wire representation back to a kind.
func ParseResourceKind(s string) (ResourceKind, bool) {
	switch s {
	case "driver":
		return ResourceDriver, true
	case "vehicle":
		return ResourceVehicle, true
	default:
		return 0, false
	}
}

// ResourceRef identifies one resource as a tagged (kind, id) pair.
type ResourceRef struct {
	Kind ResourceKind
	ID   string
}

// DriverRef builds a reference to a driver.
func DriverRef(id string) ResourceRef { return ResourceRef{Kind: ResourceDriver, ID: id} }

// VehicleRef builds a reference to a vehicle.
func VehicleRef(id string) ResourceRef { return ResourceRef{Kind: ResourceVehicle, ID: id} }

// String renders the reference for logs and reasons.
func (r ResourceRef) String() string { return fmt.Sprintf("%s %s", r.Kind, r.ID) }
