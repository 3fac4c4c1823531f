package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedNJ467/koormatics-dispatch/core/assignmentlog"
)

func TestAssignmentsCommandExportsCSV(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "assignments.log")

	store, err := assignmentlog.NewRotatingJSONLStore(logPath, 0, 0, 0)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), assignmentlog.Record{
		ID: "a1", TripID: "t1", DriverID: "d1", Status: "pending",
		CreatedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.Append(context.Background(), assignmentlog.Record{
		ID: "a2", TripID: "t2", DriverID: "d2", Status: "pending",
		CreatedAt: time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.Close())

	cfgFile := filepath.Join(dir, "config.yaml")
	cfgYAML := fmt.Sprintf("assignment_log:\n  backend: jsonl\n  path: %s\n", logPath)
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfgYAML), 0o644))

	oldPath, oldFormat, oldTrip := cfgPath, assignmentsFormat, assignmentsTrip
	t.Cleanup(func() { cfgPath, assignmentsFormat, assignmentsTrip = oldPath, oldFormat, oldTrip })
	cfgPath = cfgFile
	assignmentsFormat = "csv"
	assignmentsTrip = "t1"

	var buf bytes.Buffer
	assignmentsCmd.SetOut(&buf)
	assignmentsCmd.SetContext(context.Background())
	require.NoError(t, runAssignments(assignmentsCmd, nil))

	out := buf.String()
	assert.Contains(t, out, "id,trip_id,driver_id,status,created_at")
	assert.Contains(t, out, "a1,t1,d1,pending,2026-09-01T10:00:00Z")
	assert.NotContains(t, out, "a2", "trip filter should drop the other record")
}
