// Package booking implements the dispatch source interfaces on top of
// the booking platform's REST API.
package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ahmedNJ467/koormatics-dispatch/auth"
	"github.com/ahmedNJ467/koormatics-dispatch/core/dispatch"
	"github.com/ahmedNJ467/koormatics-dispatch/core/logger"
	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
)

// Config defines the booking API endpoint and credentials.
type Config struct {
	BaseURL        string    `json:"base_url"`
	TimeoutSeconds int       `json:"timeout_seconds"`
	Auth           auth.Conf `json:"auth"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Client talks to the booking platform. It implements the trip, driver
// and vehicle sources consumed by the dispatch manager.
type Client struct {
	base string
	http *http.Client
	cred *auth.ClientCred
	log  logger.Logger
}

// NewClient creates a Client for the configured endpoint. Credentials
// are optional; without them requests are sent unauthenticated.
func NewClient(cfg Config, log logger.Logger) *Client {
	cfg.SetDefaults()
	if log == nil {
		log = logger.Nop{}
	}
	c := &Client{
		base: cfg.BaseURL,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:  log,
	}
	if cfg.Auth.Enabled() {
		c.cred = auth.NewClientCred(cfg.Auth)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cred != nil {
		if err := c.cred.SetAuthHeader(ctx, req); err != nil {
			return fmt.Errorf("booking auth: %w", err)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	switch resp.StatusCode {
	case http.StatusNotFound:
		return dispatch.ErrTripNotFound
	case http.StatusConflict:
		return dispatch.ErrVersionConflict
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("booking: %s %s returned %d: %s", method, path, resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ListTrips fetches all trips.
func (c *Client) ListTrips(ctx context.Context) ([]model.Trip, error) {
	var out []model.Trip
	if err := c.do(ctx, http.MethodGet, "/api/v1/trips", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTrip fetches a single trip.
func (c *Client) GetTrip(ctx context.Context, id string) (model.Trip, error) {
	var out model.Trip
	if err := c.do(ctx, http.MethodGet, "/api/v1/trips/"+id, nil, &out); err != nil {
		return model.Trip{}, err
	}
	return out, nil
}

// UpdateAssignment writes the assignment back. The server enforces the
// version check and answers 409 when the trip moved on.
func (c *Client) UpdateAssignment(ctx context.Context, upd dispatch.TripAssignmentUpdate) (model.Trip, error) {
	body := struct {
		Version            int64    `json:"version"`
		DriverID           string   `json:"driver_id"`
		VehicleID          string   `json:"vehicle_id"`
		AssignedVehicleIDs []string `json:"assigned_vehicle_ids"`
		EscortVehicleIDs   []string `json:"escort_vehicle_ids"`
	}{upd.Version, upd.DriverID, upd.VehicleID, upd.AssignedVehicleIDs, upd.EscortVehicleIDs}
	var out model.Trip
	if err := c.do(ctx, http.MethodPatch, "/api/v1/trips/"+upd.TripID+"/assignment", body, &out); err != nil {
		return model.Trip{}, err
	}
	return out, nil
}

// ListDrivers fetches the driver roster.
func (c *Client) ListDrivers(ctx context.Context) ([]model.Driver, error) {
	var out []model.Driver
	if err := c.do(ctx, http.MethodGet, "/api/v1/drivers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListVehicles fetches the vehicle fleet.
func (c *Client) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	var out []model.Vehicle
	if err := c.do(ctx, http.MethodGet, "/api/v1/vehicles", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
