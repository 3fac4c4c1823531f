package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ahmedNJ467/koormatics-dispatch/core/dispatch"
	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
)

// SQLiteStore persists the fleet state in a SQLite database. Trips carry
// a version column used for optimistic concurrency on assignment writes.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `
    CREATE TABLE IF NOT EXISTS trips (
        id TEXT PRIMARY KEY,
        version INTEGER NOT NULL,
        record TEXT NOT NULL
    );
    CREATE TABLE IF NOT EXISTS drivers (
        id TEXT PRIMARY KEY,
        record TEXT NOT NULL
    );
    CREATE TABLE IF NOT EXISTS vehicles (
        id TEXT PRIMARY KEY,
        record TEXT NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// PutTrip inserts or replaces a trip. A zero version is initialized to 1.
func (s *SQLiteStore) PutTrip(ctx context.Context, t model.Trip) error {
	if t.Version == 0 {
		t.Version = 1
	}
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO trips (id, version, record) VALUES (?, ?, ?)`,
		t.ID, t.Version, string(b))
	return err
}

// PutDriver inserts or replaces a driver.
func (s *SQLiteStore) PutDriver(ctx context.Context, d model.Driver) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO drivers (id, record) VALUES (?, ?)`, d.ID, string(b))
	return err
}

// PutVehicle inserts or replaces a vehicle.
func (s *SQLiteStore) PutVehicle(ctx context.Context, v model.Vehicle) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO vehicles (id, record) VALUES (?, ?)`, v.ID, string(b))
	return err
}

// ListTrips returns all trips.
func (s *SQLiteStore) ListTrips(ctx context.Context) ([]model.Trip, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM trips`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Trip
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var t model.Trip
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("unmarshal trip: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetTrip returns the trip by id.
func (s *SQLiteStore) GetTrip(ctx context.Context, id string) (model.Trip, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM trips WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Trip{}, dispatch.ErrTripNotFound
	}
	if err != nil {
		return model.Trip{}, err
	}
	var t model.Trip
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return model.Trip{}, fmt.Errorf("unmarshal trip: %w", err)
	}
	return t, nil
}

// UpdateAssignment applies the update guarded by the version column. A
// zero row count distinguishes a lost race from a missing trip.
func (s *SQLiteStore) UpdateAssignment(ctx context.Context, upd dispatch.TripAssignmentUpdate) (model.Trip, error) {
	t, err := s.GetTrip(ctx, upd.TripID)
	if err != nil {
		return model.Trip{}, err
	}
	t.DriverID = upd.DriverID
	t.VehicleID = upd.VehicleID
	t.AssignedVehicleIDs = append([]string(nil), upd.AssignedVehicleIDs...)
	t.EscortVehicleIDs = append([]string(nil), upd.EscortVehicleIDs...)
	t.Version = upd.Version + 1
	t.UpdatedAt = time.Now()
	b, err := json.Marshal(t)
	if err != nil {
		return model.Trip{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE trips SET version = ?, record = ? WHERE id = ? AND version = ?`,
		t.Version, string(b), upd.TripID, upd.Version)
	if err != nil {
		return model.Trip{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Trip{}, err
	}
	if n == 0 {
		return model.Trip{}, dispatch.ErrVersionConflict
	}
	return t, nil
}

// ListDrivers returns all drivers.
func (s *SQLiteStore) ListDrivers(ctx context.Context) ([]model.Driver, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM drivers`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Driver
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var d model.Driver
		if err := json.Unmarshal([]byte(data), &d); err != nil {
			return nil, fmt.Errorf("unmarshal driver: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListVehicles returns all vehicles.
func (s *SQLiteStore) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM vehicles`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Vehicle
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var v model.Vehicle
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			return nil, fmt.Errorf("unmarshal vehicle: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
