// Package trips exposes trip conflict scans and assignment commits over
// HTTP.
package trips

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ahmedNJ467/koormatics-dispatch/core/allocation"
	"github.com/ahmedNJ467/koormatics-dispatch/core/dispatch"
)

// NewConflictHandler returns an HTTP handler exposing the advisory
// conflict scan via GET /api/trips/conflicts.
func NewConflictHandler(mgr *dispatch.DispatchManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rep, err := mgr.ScanConflicts(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rep); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// AssignmentRequest is the payload for POST /api/trips/assignment. Slot
// lists are positional; empty strings clear a slot.
type AssignmentRequest struct {
	TripID          string   `json:"trip_id"`
	CarrierDrivers  []string `json:"carrier_drivers"`
	CarrierVehicles []string `json:"carrier_vehicles"`
	EscortDrivers   []string `json:"escort_drivers"`
	EscortVehicles  []string `json:"escort_vehicles"`
}

// AssignmentResponse reports the commit outcome.
type AssignmentResponse struct {
	TripID  string `json:"trip_id"`
	Outcome string `json:"outcome"`
	Version int64  `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewAssignmentHandler returns an HTTP handler committing assignments
// via POST /api/trips/assignment.
func NewAssignmentHandler(mgr *dispatch.DispatchManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req AssignmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.TripID == "" {
			http.Error(w, "trip_id is required", http.StatusBadRequest)
			return
		}

		sess, err := mgr.OpenSession(r.Context(), req.TripID)
		if err != nil {
			writeError(w, req.TripID, err)
			return
		}
		if err := sess.Apply(req.selections()); err != nil {
			writeError(w, req.TripID, err)
			return
		}

		res, err := mgr.Commit(r.Context(), sess)
		if err != nil {
			writeError(w, req.TripID, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(AssignmentResponse{
			TripID:  res.TripID,
			Outcome: res.Outcome,
			Version: res.Trip.Version,
		})
	})
}

func (r AssignmentRequest) selections() allocation.Selections {
	return allocation.Selections{
		CarrierDrivers:  r.CarrierDrivers,
		CarrierVehicles: r.CarrierVehicles,
		EscortDrivers:   r.EscortDrivers,
		EscortVehicles:  r.EscortVehicles,
	}
}

func writeError(w http.ResponseWriter, tripID string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dispatch.ErrTripNotFound):
		status = http.StatusNotFound
	case errors.Is(err, dispatch.ErrVersionConflict):
		status = http.StatusConflict
	case allocation.IsValidation(err), allocation.IsConflict(err):
		status = http.StatusUnprocessableEntity
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(AssignmentResponse{
		TripID:  tripID,
		Outcome: "rejected",
		Error:   err.Error(),
	})
}
