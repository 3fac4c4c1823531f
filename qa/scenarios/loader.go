package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
)

type TripDef struct {
	ID            string `yaml:"id"`
	Date          string `yaml:"date"`
	StartTime     string `yaml:"start_time"`
	ReturnTime    string `yaml:"return_time"`
	Status        string `yaml:"status,omitempty"`
	ArmouredCount int    `yaml:"armoured_count"`
	SoftSkinCount int    `yaml:"soft_skin_count"`
	HasEscort     bool   `yaml:"has_escort"`
	EscortCount   int    `yaml:"escort_count"`
	DriverID      string `yaml:"driver_id,omitempty"`
	VehicleID     string `yaml:"vehicle_id,omitempty"`
}

func (t TripDef) ToModel() model.Trip {
	status := model.TripStatus(t.Status)
	if t.Status == "" {
		status = model.StatusScheduled
	}
	return model.Trip{
		ID:            t.ID,
		Date:          t.Date,
		StartTime:     t.StartTime,
		ReturnTime:    t.ReturnTime,
		Status:        status,
		ArmouredCount: t.ArmouredCount,
		SoftSkinCount: t.SoftSkinCount,
		HasEscort:     t.HasEscort,
		EscortCount:   t.EscortCount,
		DriverID:      t.DriverID,
		VehicleID:     t.VehicleID,
	}
}

type DriverDef struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Status string `yaml:"status,omitempty"`
}

func (d DriverDef) ToModel() model.Driver {
	status := model.DriverStatus(d.Status)
	if d.Status == "" {
		status = model.DriverActive
	}
	return model.Driver{ID: d.ID, Name: d.Name, Status: status}
}

type VehicleDef struct {
	ID           string `yaml:"id"`
	Type         string `yaml:"type"`
	Registration string `yaml:"registration,omitempty"`
}

func (v VehicleDef) ToModel() model.Vehicle {
	return model.Vehicle{
		ID:           v.ID,
		Type:         model.VehicleType(v.Type),
		Registration: v.Registration,
	}
}

type AssignmentDef struct {
	TripID          string   `yaml:"trip_id"`
	CarrierDrivers  []string `yaml:"carrier_drivers,omitempty"`
	CarrierVehicles []string `yaml:"carrier_vehicles,omitempty"`
	EscortDrivers   []string `yaml:"escort_drivers,omitempty"`
	EscortVehicles  []string `yaml:"escort_vehicles,omitempty"`
}

type Expected struct {
	Committed       int `yaml:"committed"`
	Rejected        int `yaml:"rejected"`
	ConflictedTrips int `yaml:"conflicted_trips"`
}

type Scenario struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	BufferHours float64         `yaml:"buffer_hours"`
	Trips       []TripDef       `yaml:"trips"`
	Drivers     []DriverDef     `yaml:"drivers"`
	Vehicles    []VehicleDef    `yaml:"vehicles"`
	Assignments []AssignmentDef `yaml:"assignments"`
	Expected    Expected        `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
