package assignmentlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const logSchema = `CREATE TABLE IF NOT EXISTS assignment_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts INTEGER NOT NULL,
	trip_id TEXT NOT NULL,
	driver_id TEXT NOT NULL,
	status TEXT NOT NULL,
	record TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assignment_logs_trip ON assignment_logs(trip_id);
CREATE INDEX IF NOT EXISTS idx_assignment_logs_driver ON assignment_logs(driver_id);`

// SQLiteStore persists assignment records to a SQLite database. The
// full record is kept as JSON next to the indexed filter columns.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(logSchema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes one record.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assignment_logs (ts, trip_id, driver_id, status, record) VALUES (?, ?, ?, ?, ?)`,
		rec.CreatedAt.Unix(), rec.TripID, rec.DriverID, rec.Status, string(payload))
	return err
}

// Query returns records matching q in append order.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Record, error) {
	clauses := []string{"1=1"}
	var args []any
	if !q.Start.IsZero() {
		clauses = append(clauses, "ts >= ?")
		args = append(args, q.Start.Unix())
	}
	if !q.End.IsZero() {
		clauses = append(clauses, "ts <= ?")
		args = append(args, q.End.Unix())
	}
	if q.TripID != "" {
		clauses = append(clauses, "trip_id = ?")
		args = append(args, q.TripID)
	}
	if q.DriverID != "" {
		clauses = append(clauses, "driver_id = ?")
		args = append(args, q.DriverID)
	}
	if q.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, q.Status)
	}

	stmt := `SELECT record FROM assignment_logs WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY id`
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var res []Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var r Record
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
