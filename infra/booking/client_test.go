package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedNJ467/koormatics-dispatch/core/dispatch"
	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL}, nil)
}

func TestClient_ListTrips(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/trips", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]model.Trip{{ID: "t1", Date: "2026-09-01", Version: 1}})
	})
	trips, err := client.ListTrips(context.Background())
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "t1", trips[0].ID)
}

func TestClient_GetTripNotFound(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := client.GetTrip(context.Background(), "nope")
	assert.ErrorIs(t, err, dispatch.ErrTripNotFound)
}

func TestClient_UpdateAssignment(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/trips/t1/assignment", r.URL.Path)
		var body struct {
			Version  int64  `json:"version"`
			DriverID string `json:"driver_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(3), body.Version)
		assert.Equal(t, "d1", body.DriverID)
		_ = json.NewEncoder(w).Encode(model.Trip{ID: "t1", DriverID: "d1", Version: 4})
	})
	upd := dispatch.TripAssignmentUpdate{TripID: "t1", Version: 3, DriverID: "d1"}
	trip, err := client.UpdateAssignment(context.Background(), upd)
	require.NoError(t, err)
	assert.Equal(t, int64(4), trip.Version)
}

func TestClient_UpdateAssignmentConflict(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	_, err := client.UpdateAssignment(context.Background(), dispatch.TripAssignmentUpdate{TripID: "t1"})
	assert.ErrorIs(t, err, dispatch.ErrVersionConflict)
}

func TestClient_AuthHeader(t *testing.T) {
	var gotAuth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600}`))
			return
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]model.Driver{})
	}))
	defer api.Close()

	cfg := Config{BaseURL: api.URL}
	cfg.Auth.ClientID = "id"
	cfg.Auth.ClientSecret = "secret"
	cfg.Auth.AuthURL = api.URL + "/token"
	client := NewClient(cfg, nil)
	_, err := client.ListDrivers(context.Background())
	require.NoError(t, err)
	assert.Contains(t, gotAuth, "tok")
}
