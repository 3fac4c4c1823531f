// Package assignments exposes the assignment history over HTTP.
package assignments

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ahmedNJ467/koormatics-dispatch/core/assignmentlog"
)

// Response wraps the record list so the count survives an empty result.
type Response struct {
	Count   int                    `json:"count"`
	Records []assignmentlog.Record `json:"records"`
}

// NewLogHandler returns an HTTP handler exposing assignment records via
// GET /api/assignments. When token is non-empty, requests must carry it
// as "Authorization: Bearer <token>".
func NewLogHandler(store assignmentlog.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q, err := queryFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []assignmentlog.Record{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(Response{Count: len(records), Records: records}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func queryFromRequest(r *http.Request) (assignmentlog.Query, error) {
	params := r.URL.Query()
	q := assignmentlog.Query{
		TripID:   params.Get("trip_id"),
		DriverID: params.Get("driver_id"),
		Status:   params.Get("status"),
	}
	var err error
	if q.Start, err = parseRFC3339(params.Get("start")); err != nil {
		return q, err
	}
	q.End, err = parseRFC3339(params.Get("end"))
	return q, err
}

func parseRFC3339(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q, want RFC3339", s)
	}
	return ts, nil
}
