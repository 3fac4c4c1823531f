package resources

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedNJ467/koormatics-dispatch/core/availability"
	"github.com/ahmedNJ467/koormatics-dispatch/core/dispatch"
	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/storage"
)

func setup(t *testing.T) *dispatch.DispatchManager {
	t.Helper()
	store := storage.NewMemoryStore()
	store.PutTrip(model.Trip{
		ID: "t1", Date: "2026-09-01", StartTime: "09:00", ReturnTime: "12:00",
		Status: model.StatusScheduled, DriverID: "d1",
	})
	mgr, err := dispatch.NewDispatchManager(store, store, store, dispatch.Config{}, nil, nil, nil, nil)
	require.NoError(t, err)
	return mgr
}

func TestAvailabilityHandler_Busy(t *testing.T) {
	h := NewAvailabilityHandler(setup(t))
	req := httptest.NewRequest(http.MethodGet,
		"/api/resources/availability?kind=driver&id=d1&date=2026-09-01&start=10:00&end=11:00", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res availability.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.False(t, res.Available)
	assert.Contains(t, res.Reason, "d1")
}

func TestAvailabilityHandler_Free(t *testing.T) {
	h := NewAvailabilityHandler(setup(t))
	req := httptest.NewRequest(http.MethodGet,
		"/api/resources/availability?kind=vehicle&id=v1&date=2026-09-01&start=10:00&end=11:00", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res availability.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.True(t, res.Available)
}

func TestAvailabilityHandler_FreeOmitsAvailableAt(t *testing.T) {
	h := NewAvailabilityHandler(setup(t))
	req := httptest.NewRequest(http.MethodGet,
		"/api/resources/availability?kind=vehicle&id=v1&date=2026-09-01&start=10:00&end=11:00", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotContains(t, body, "available_at", "free results carry no availability timestamp")
}

func TestAvailabilityHandler_ExcludesEditedTrip(t *testing.T) {
	h := NewAvailabilityHandler(setup(t))
	req := httptest.NewRequest(http.MethodGet,
		"/api/resources/availability?kind=driver&id=d1&date=2026-09-01&start=10:00&end=11:00&exclude_trip_id=t1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res availability.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.True(t, res.Available)
}

func TestAvailabilityHandler_BadKind(t *testing.T) {
	h := NewAvailabilityHandler(setup(t))
	req := httptest.NewRequest(http.MethodGet, "/api/resources/availability?kind=plane&id=x", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
