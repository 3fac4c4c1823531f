// Package storage provides trip, driver and vehicle stores backing the
// dispatch manager's sources.
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/ahmedNJ467/koormatics-dispatch/core/dispatch"
	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
)

// MemoryStore keeps the fleet state in memory. It implements the
// dispatch source interfaces and is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	trips    map[string]model.Trip
	drivers  map[string]model.Driver
	vehicles map[string]model.Vehicle
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trips:    make(map[string]model.Trip),
		drivers:  make(map[string]model.Driver),
		vehicles: make(map[string]model.Vehicle),
	}
}

// PutTrip inserts or replaces a trip. A zero version is initialized to 1.
func (s *MemoryStore) PutTrip(t model.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Version == 0 {
		t.Version = 1
	}
	s.trips[t.ID] = t.Clone()
}

// PutDriver inserts or replaces a driver.
func (s *MemoryStore) PutDriver(d model.Driver) {
	s.mu.Lock()
	s.drivers[d.ID] = d
	s.mu.Unlock()
}

// PutVehicle inserts or replaces a vehicle.
func (s *MemoryStore) PutVehicle(v model.Vehicle) {
	s.mu.Lock()
	s.vehicles[v.ID] = v
	s.mu.Unlock()
}

// ListTrips returns all trips.
func (s *MemoryStore) ListTrips(context.Context) ([]model.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Trip, 0, len(s.trips))
	for _, t := range s.trips {
		out = append(out, t.Clone())
	}
	return out, nil
}

// GetTrip returns the trip by id.
func (s *MemoryStore) GetTrip(_ context.Context, id string) (model.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trips[id]
	if !ok {
		return model.Trip{}, dispatch.ErrTripNotFound
	}
	return t.Clone(), nil
}

// UpdateAssignment applies the update if the stored version matches,
// bumping it on success.
func (s *MemoryStore) UpdateAssignment(_ context.Context, upd dispatch.TripAssignmentUpdate) (model.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[upd.TripID]
	if !ok {
		return model.Trip{}, dispatch.ErrTripNotFound
	}
	if t.Version != upd.Version {
		return model.Trip{}, dispatch.ErrVersionConflict
	}
	t.DriverID = upd.DriverID
	t.VehicleID = upd.VehicleID
	t.AssignedVehicleIDs = append([]string(nil), upd.AssignedVehicleIDs...)
	t.EscortVehicleIDs = append([]string(nil), upd.EscortVehicleIDs...)
	t.Version++
	t.UpdatedAt = time.Now()
	s.trips[upd.TripID] = t
	return t.Clone(), nil
}

// ListDrivers returns all drivers.
func (s *MemoryStore) ListDrivers(context.Context) ([]model.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Driver, 0, len(s.drivers))
	for _, d := range s.drivers {
		out = append(out, d)
	}
	return out, nil
}

// ListVehicles returns all vehicles.
func (s *MemoryStore) ListVehicles(context.Context) ([]model.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, v)
	}
	return out, nil
}
