// Package export renders conflict reports and assignment records for
// operators and spreadsheets.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"time"

	"github.com/ahmedNJ467/koormatics-dispatch/core/assignmentlog"
	"github.com/ahmedNJ467/koormatics-dispatch/core/conflict"
)

// WriteConflictsJSON writes the conflict report to w in JSON format.
func WriteConflictsJSON(w io.Writer, rep conflict.Report) error {
	enc := json.NewEncoder(w)
	return enc.Encode(rep)
}

// WriteConflictsCSV writes the conflict report to w as one row per
// conflicted trip, sorted by driver then trip id.
func WriteConflictsCSV(w io.Writer, rep conflict.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"driver_id", "trip_id", "date", "start_time", "return_time"}); err != nil {
		return err
	}
	drivers := make([]string, 0, len(rep.ByDriver))
	for d := range rep.ByDriver {
		drivers = append(drivers, d)
	}
	sort.Strings(drivers)
	for _, d := range drivers {
		for _, t := range rep.ByDriver[d] {
			rec := []string{d, t.ID, t.Date, t.StartTime, t.ReturnTime}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAssignmentsJSON writes assignment records to w in JSON format.
func WriteAssignmentsJSON(w io.Writer, recs []assignmentlog.Record) error {
	enc := json.NewEncoder(w)
	return enc.Encode(recs)
}

// WriteAssignmentsCSV writes assignment records to w in CSV format.
func WriteAssignmentsCSV(w io.Writer, recs []assignmentlog.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "trip_id", "driver_id", "status", "created_at"}); err != nil {
		return err
	}
	for _, r := range recs {
		rec := []string{r.ID, r.TripID, r.DriverID, r.Status, r.CreatedAt.Format(time.RFC3339)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
