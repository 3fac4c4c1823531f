// Package resources exposes resource availability checks over HTTP.
package resources

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ahmedNJ467/koormatics-dispatch/core/availability"
	"github.com/ahmedNJ467/koormatics-dispatch/core/dispatch"
	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
	"github.com/ahmedNJ467/koormatics-dispatch/core/schedule"
)

// NewAvailabilityHandler returns an HTTP handler answering availability
// queries via GET /api/resources/availability. Expected parameters:
// kind (driver|vehicle), id, date (YYYY-MM-DD), start and end (HH:MM),
// plus optional buffer_hours and exclude_trip_id.
func NewAvailabilityHandler(mgr *dispatch.DispatchManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := r.URL.Query()
		kind, ok := model.ParseResourceKind(q.Get("kind"))
		if !ok {
			http.Error(w, "kind must be driver or vehicle", http.StatusBadRequest)
			return
		}
		id := q.Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		opts := availability.Options{ExcludeTripID: q.Get("exclude_trip_id")}
		if s := q.Get("buffer_hours"); s != "" {
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				opts.BufferHours = v
			}
		}
		window := schedule.Build(q.Get("date"), q.Get("start"), q.Get("end"), 0)

		res, err := mgr.CheckAvailability(r.Context(), model.ResourceRef{Kind: kind, ID: id}, window, opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
