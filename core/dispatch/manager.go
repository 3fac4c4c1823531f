package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ahmedNJ467/koormatics-dispatch/core/allocation"
	"github.com/ahmedNJ467/koormatics-dispatch/core/assignmentlog"
	"github.com/ahmedNJ467/koormatics-dispatch/core/availability"
	"github.com/ahmedNJ467/koormatics-dispatch/core/conflict"
	"github.com/ahmedNJ467/koormatics-dispatch/core/events"
	"github.com/ahmedNJ467/koormatics-dispatch/core/logger"
	"github.com/ahmedNJ467/koormatics-dispatch/core/metrics"
	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
	"github.com/ahmedNJ467/koormatics-dispatch/core/schedule"
	"github.com/ahmedNJ467/koormatics-dispatch/internal/eventbus"
)

// DispatchManager coordinates allocation sessions over the trip,
// driver and vehicle sources: it opens sessions, derives candidate
// pools, and commits validated selections back to the trip source.
type DispatchManager struct {
	trips    TripSource
	drivers  DriverSource
	vehicles VehicleSource
	checker  *availability.Checker
	detector conflict.Detector
	notifier Notifier
	logger   logger.Logger
	metrics  metrics.MetricsSink
	bus      eventbus.EventBus
	store    assignmentlog.Store
	cfg      Config
	history  []CommitResult
	mu       sync.Mutex
}

// NewDispatchManager creates a new manager. The three sources are
// required; sink, bus, notifier and log may be nil.
func NewDispatchManager(trips TripSource, drivers DriverSource, vehicles VehicleSource, cfg Config, sink metrics.MetricsSink, bus eventbus.EventBus, notifier Notifier, log logger.Logger) (*DispatchManager, error) {
	if trips == nil || drivers == nil || vehicles == nil {
		return nil, fmt.Errorf("dispatch: nil source provided to NewDispatchManager")
	}
	if log == nil {
		log = logger.Nop{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	cfg.SetDefaults()
	return &DispatchManager{
		trips:    trips,
		drivers:  drivers,
		vehicles: vehicles,
		checker:  availability.NewChecker(log),
		detector: conflict.Detector{ThresholdMinutes: cfg.ConflictThresholdMinutes},
		notifier: notifier,
		logger:   log,
		metrics:  sink,
		bus:      bus,
		cfg:      cfg,
	}, nil
}

// SetLogStore configures the store used to persist committed
// assignments.
func (m *DispatchManager) SetLogStore(store assignmentlog.Store) {
	m.mu.Lock()
	m.store = store
	m.mu.Unlock()
}

func (m *DispatchManager) opts() availability.Options {
	return availability.Options{BufferHours: m.cfg.BufferHours}
}

// OpenSession fetches the trip and opens an allocation session on it.
// When the trip requests more escorts than the dialog can surface, the
// overflow is reported as a warning rather than silently dropped.
func (m *DispatchManager) OpenSession(ctx context.Context, tripID string) (*allocation.Session, error) {
	trip, err := m.trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	plan := allocation.ResolveSlots(trip)
	if plan.EscortOverflow > 0 {
		m.logger.Warnf("trip %s requests %d escort vehicles, only %d selectable", trip.ID, trip.EscortCount, allocation.MaxVisibleEscortSlots)
		m.notify(ctx, Notification{
			Title:       "Escort capacity exceeded",
			Description: fmt.Sprintf("Trip %s requests %d escort vehicles; only %d can be assigned here.", trip.ID, trip.EscortCount, allocation.MaxVisibleEscortSlots),
			Severity:    SeverityWarning,
		})
	}
	sess := allocation.NewSession(trip, plan)
	if m.bus != nil {
		m.bus.Publish(events.SessionEvent{TripID: trip.ID, State: sess.State().String()})
	}
	return sess, nil
}

// snapshot loads the current trip set for availability decisions.
func (m *DispatchManager) snapshot(ctx context.Context) ([]model.Trip, error) {
	trips, err := m.trips.ListTrips(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return trips, nil
}

// CandidateCarrierDrivers returns the drivers selectable for the given
// carrier slot of the session.
func (m *DispatchManager) CandidateCarrierDrivers(ctx context.Context, sess *allocation.Session, slot int) ([]model.Driver, error) {
	pool, err := m.drivers.ListDrivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	trips, err := m.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return sess.CandidateCarrierDrivers(slot, pool, trips, m.checker, m.opts()), nil
}

// CandidateEscortDrivers returns the drivers selectable for the given
// escort slot of the session.
func (m *DispatchManager) CandidateEscortDrivers(ctx context.Context, sess *allocation.Session, slot int) ([]model.Driver, error) {
	pool, err := m.drivers.ListDrivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	trips, err := m.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return sess.CandidateEscortDrivers(slot, pool, trips, m.checker, m.opts()), nil
}

// CandidateCarrierVehicles returns the vehicles selectable for the
// given carrier slot of the session.
func (m *DispatchManager) CandidateCarrierVehicles(ctx context.Context, sess *allocation.Session, slot int) ([]model.Vehicle, error) {
	pool, err := m.vehicles.ListVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	trips, err := m.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return sess.CandidateCarrierVehicles(slot, pool, trips, m.checker, m.opts()), nil
}

// CandidateEscortVehicles returns the vehicles selectable for the given
// escort slot of the session.
func (m *DispatchManager) CandidateEscortVehicles(ctx context.Context, sess *allocation.Session, slot int) ([]model.Vehicle, error) {
	pool, err := m.vehicles.ListVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	trips, err := m.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return sess.CandidateEscortVehicles(slot, pool, trips, m.checker, m.opts()), nil
}

// CheckAvailability reports whether the resource is free for the
// candidate window given the current trip set.
func (m *DispatchManager) CheckAvailability(ctx context.Context, res model.ResourceRef, candidate schedule.Window, opts availability.Options) (availability.Result, error) {
	trips, err := m.snapshot(ctx)
	if err != nil {
		return availability.Result{}, err
	}
	if opts.BufferHours == 0 {
		opts.BufferHours = m.cfg.BufferHours
	}
	availabilityChecks.Inc()
	return m.checker.Check(res, candidate, trips, opts), nil
}

// Commit validates the session, re-checks every selected resource
// against a fresh trip snapshot, and writes the assignment back with
// optimistic concurrency. The trip write is authoritative; the
// assignment log append afterwards is best effort.
func (m *DispatchManager) Commit(ctx context.Context, sess *allocation.Session) (CommitResult, error) {
	start := time.Now()
	trip := sess.Trip()

	if err := sess.Validate(); err != nil {
		sess.MarkRejected()
		return m.finish(ctx, sess, CommitResult{TripID: trip.ID, Outcome: "rejected", Err: err}, start), err
	}

	trips, err := m.snapshot(ctx)
	if err != nil {
		sess.MarkRejected()
		cerr := &CommitError{TripID: trip.ID, Err: err}
		return m.finish(ctx, sess, CommitResult{TripID: trip.ID, Outcome: "failed", Err: cerr}, start), cerr
	}
	if err := m.recheck(sess, trips); err != nil {
		sess.MarkRejected()
		return m.finish(ctx, sess, CommitResult{TripID: trip.ID, Outcome: "rejected", Err: err}, start), err
	}

	changes := sess.Changes()
	upd := TripAssignmentUpdate{
		TripID:             trip.ID,
		Version:            trip.Version,
		DriverID:           changes.DriverID,
		VehicleID:          changes.VehicleID,
		AssignedVehicleIDs: changes.AssignedVehicleIDs,
		EscortVehicleIDs:   changes.EscortVehicleIDs,
	}

	var updated model.Trip
	for attempt := 0; ; attempt++ {
		updated, err = m.trips.UpdateAssignment(ctx, upd)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrVersionConflict) || attempt >= m.cfg.CommitRetries {
			sess.MarkRejected()
			cerr := &CommitError{TripID: trip.ID, Err: err}
			return m.finish(ctx, sess, CommitResult{TripID: trip.ID, Outcome: "failed", Err: cerr}, start), cerr
		}
		m.logger.Warnf("trip %s changed concurrently, retrying commit (%d/%d)", trip.ID, attempt+1, m.cfg.CommitRetries)
		fresh, gerr := m.trips.GetTrip(ctx, trip.ID)
		if gerr != nil {
			sess.MarkRejected()
			cerr := &CommitError{TripID: trip.ID, Err: gerr}
			return m.finish(ctx, sess, CommitResult{TripID: trip.ID, Outcome: "failed", Err: cerr}, start), cerr
		}
		trips, err = m.snapshot(ctx)
		if err != nil {
			sess.MarkRejected()
			cerr := &CommitError{TripID: trip.ID, Err: err}
			return m.finish(ctx, sess, CommitResult{TripID: trip.ID, Outcome: "failed", Err: cerr}, start), cerr
		}
		if rerr := m.recheck(sess, trips); rerr != nil {
			sess.MarkRejected()
			return m.finish(ctx, sess, CommitResult{TripID: trip.ID, Outcome: "rejected", Err: rerr}, start), rerr
		}
		upd.Version = fresh.Version
	}

	sess.MarkCommitted()
	m.appendLog(ctx, sess)
	m.rescanDate(ctx, updated.Date)

	res := CommitResult{
		TripID:    trip.ID,
		Outcome:   "committed",
		Trip:      updated,
		Resources: sess.SelectedResources(),
	}
	if m.bus != nil {
		m.bus.Publish(events.TripUpdatedEvent{Trip: updated})
	}
	return m.finish(ctx, sess, res, start), nil
}

// recheck verifies every selected resource is still free for the
// trip's window against the given snapshot.
func (m *DispatchManager) recheck(sess *allocation.Session, trips []model.Trip) error {
	trip := sess.Trip()
	opts := m.opts()
	opts.ExcludeTripID = trip.ID
	window := schedule.ForTrip(trip, 0)
	for _, ref := range sess.SelectedResources() {
		availabilityChecks.Inc()
		res := m.checker.Check(ref, window, trips, opts)
		if !res.Available {
			return allocation.NewConflictError(ref, res.Reason)
		}
	}
	return nil
}

// appendLog persists one pending assignment per selected driver. A
// failure here is logged and reported but never rolls the trip back.
func (m *DispatchManager) appendLog(ctx context.Context, sess *allocation.Session) {
	m.mu.Lock()
	store := m.store
	m.mu.Unlock()
	if store == nil {
		return
	}
	for _, d := range sess.AssignmentDrafts() {
		rec := assignmentlog.Record{
			ID:        uuid.NewString(),
			TripID:    d.TripID,
			DriverID:  d.DriverID,
			Status:    string(model.AssignmentPending),
			CreatedAt: time.Now(),
		}
		if err := store.Append(ctx, rec); err != nil {
			m.logger.Errorf("assignment log append failed for trip %s: %v", d.TripID, err)
			m.notify(ctx, Notification{
				Title:       "Assignment record failed",
				Description: fmt.Sprintf("Trip %s was updated but the assignment record could not be created.", d.TripID),
				Severity:    SeverityWarning,
			})
		}
	}
}

// rescanDate runs an advisory conflict scan after a commit and surfaces
// any double-booking on the trip's date.
func (m *DispatchManager) rescanDate(ctx context.Context, date string) {
	trips, err := m.snapshot(ctx)
	if err != nil {
		m.logger.Errorf("conflict rescan failed: %v", err)
		return
	}
	var dated []model.Trip
	for _, t := range trips {
		if t.Date == date {
			dated = append(dated, t)
		}
	}
	rep := m.detector.Find(dated)
	if rep.Empty() {
		return
	}
	m.logger.Warnf("conflict scan on %s: %d trips across %d drivers", date, rep.TripCount(), len(rep.ByDriver))
	// The event collector owns the scan metric; recording it here as
	// well would double-count every rescan.
	if m.bus != nil {
		m.bus.Publish(events.ConflictEvent{Date: date, Drivers: len(rep.ByDriver), Trips: rep.TripCount()})
	}
	m.notify(ctx, Notification{
		Title:       "Driver schedule conflict",
		Description: fmt.Sprintf("%d trips on %s have drivers booked within %d minutes of each other.", rep.TripCount(), date, m.detector.ThresholdMinutes),
		Severity:    SeverityWarning,
	})
}

// ScanConflicts runs the advisory scan over the full trip set.
func (m *DispatchManager) ScanConflicts(ctx context.Context) (conflict.Report, error) {
	trips, err := m.snapshot(ctx)
	if err != nil {
		return conflict.Report{}, err
	}
	rep := m.detector.Find(trips)
	conflictsDetected.Set(float64(rep.TripCount()))
	return rep, nil
}

// finish records the result in metrics, history and notifications.
func (m *DispatchManager) finish(ctx context.Context, sess *allocation.Session, res CommitResult, start time.Time) CommitResult {
	res.Latency = time.Since(start)
	res.Time = time.Now()

	commitsTotal.WithLabelValues(res.Outcome).Inc()
	commitLatency.WithLabelValues(res.Outcome).Observe(res.Latency.Seconds())
	if err := m.metrics.RecordCommit([]metrics.CommitRecord{{
		TripID:    res.TripID,
		Outcome:   res.Outcome,
		Resources: len(res.Resources),
		Latency:   res.Latency,
		Time:      res.Time,
	}}); err != nil {
		m.logger.Errorf("commit metrics error: %v", err)
	}
	if m.bus != nil {
		m.bus.Publish(events.CommitEvent{TripID: res.TripID, Outcome: res.Outcome, Resources: len(res.Resources), Err: res.Err})
		m.bus.Publish(events.SessionEvent{TripID: res.TripID, State: sess.State().String()})
	}

	switch res.Outcome {
	case "committed":
		m.notify(ctx, Notification{
			Title:       "Trip updated",
			Description: fmt.Sprintf("Trip %s assignments saved.", res.TripID),
			Severity:    SeveritySuccess,
		})
	case "rejected":
		m.notify(ctx, Notification{
			Title:       "Assignment rejected",
			Description: res.Err.Error(),
			Severity:    SeverityError,
		})
	default:
		m.notify(ctx, Notification{
			Title:       "Assignment failed",
			Description: res.Err.Error(),
			Severity:    SeverityError,
		})
	}

	m.mu.Lock()
	m.history = append(m.history, res)
	m.mu.Unlock()
	return res
}

func (m *DispatchManager) notify(ctx context.Context, n Notification) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.Notify(ctx, n); err != nil {
		m.logger.Errorf("notification failed: %v", err)
	}
	if m.bus != nil {
		m.bus.Publish(events.NotificationEvent{Title: n.Title, Description: n.Description, Severity: n.Severity, Time: time.Now()})
	}
}

// History returns a copy of all commit results seen by the manager.
func (m *DispatchManager) History() []CommitResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CommitResult(nil), m.history...)
}

// Close releases resources held by the manager.
func (m *DispatchManager) Close() error {
	if m.bus != nil {
		m.bus.Close()
	}
	m.mu.Lock()
	store := m.store
	m.mu.Unlock()
	if store != nil {
		return store.Close()
	}
	return nil
}
