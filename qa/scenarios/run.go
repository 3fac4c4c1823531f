package scenarios

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ahmedNJ467/koormatics-dispatch/core/allocation"
	"github.com/ahmedNJ467/koormatics-dispatch/core/dispatch"
	coremetrics "github.com/ahmedNJ467/koormatics-dispatch/core/metrics"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/metrics"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/notify"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/storage"
	"github.com/ahmedNJ467/koormatics-dispatch/internal/eventbus"
)

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	store := storage.NewMemoryStore()
	for _, td := range sc.Trips {
		store.PutTrip(td.ToModel())
	}
	for _, dd := range sc.Drivers {
		store.PutDriver(dd.ToModel())
	}
	for _, vd := range sc.Vehicles {
		store.PutVehicle(vd.ToModel())
	}

	bus := eventbus.New()
	notifier := &notify.MockNotifier{}
	mgr, err := dispatch.NewDispatchManager(
		store,
		store,
		store,
		dispatch.Config{BufferHours: sc.BufferHours},
		sink,
		bus,
		notifier,
		nil,
	)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}

	ctx := context.Background()
	committed, rejected := 0, 0
	for _, a := range sc.Assignments {
		sess, err := mgr.OpenSession(ctx, a.TripID)
		if err != nil {
			t.Fatalf("open session for %s: %v", a.TripID, err)
		}
		if err := sess.Apply(a.selections()); err != nil {
			t.Fatalf("apply selections for %s: %v", a.TripID, err)
		}
		res, err := mgr.Commit(ctx, sess)
		switch res.Outcome {
		case "committed":
			committed++
		case "rejected":
			rejected++
		default:
			t.Fatalf("commit %s: unexpected outcome %s (%v)", a.TripID, res.Outcome, err)
		}
	}

	rep, err := mgr.ScanConflicts(ctx)
	if err != nil {
		t.Fatalf("scan conflicts: %v", err)
	}

	if committed != sc.Expected.Committed {
		t.Errorf("scenario %s expected %d committed, got %d", sc.Name, sc.Expected.Committed, committed)
	}
	if rejected != sc.Expected.Rejected {
		t.Errorf("scenario %s expected %d rejected, got %d", sc.Name, sc.Expected.Rejected, rejected)
	}
	if rep.TripCount() != sc.Expected.ConflictedTrips {
		t.Errorf("scenario %s expected %d conflicted trips, got %d", sc.Name, sc.Expected.ConflictedTrips, rep.TripCount())
	}
}

func (a AssignmentDef) selections() allocation.Selections {
	return allocation.Selections{
		CarrierDrivers:  a.CarrierDrivers,
		CarrierVehicles: a.CarrierVehicles,
		EscortDrivers:   a.EscortDrivers,
		EscortVehicles:  a.EscortVehicles,
	}
}
