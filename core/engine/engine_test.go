package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kmartel07/gridride/core/dispatch"
	"github.com/kmartel07/gridride/core/errs"
	"github.com/kmartel07/gridride/core/logger"
	"github.com/kmartel07/gridride/core/model"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

var _ logger.Logger = nopLogger{}

// newTestEngine returns an engine on a 10x10 grid with sequential ids
// (id-001, id-002, ...) so tie-breaking follows creation order.
func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	n := 0
	gen := func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
	opts = append([]Option{WithIDGenerator(gen)}, opts...)
	e, err := New(10, dispatch.NearestDispatcher{}, nopLogger{}, opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestNewValidatesParameters(t *testing.T) {
	if _, err := New(0, dispatch.NearestDispatcher{}, nopLogger{}); err == nil {
		t.Error("expected error for zero grid size")
	}
	if _, err := New(10, nil, nopLogger{}); err == nil {
		t.Error("expected error for nil dispatcher")
	}
}

func TestCreateDriverRejectsOutOfBounds(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.CreateDriver(model.Location{X: 10, Y: 0})
	var inv errs.InvalidStateError
	if !errors.As(err, &inv) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
	if len(e.Drivers()) != 0 {
		t.Error("failed create must not mutate the store")
	}
}

func TestCreateRiderValidation(t *testing.T) {
	e := newTestEngine(t)
	var inv errs.InvalidStateError
	if _, err := e.CreateRider(model.Location{X: -1, Y: 0}, model.Location{X: 1, Y: 1}); !errors.As(err, &inv) {
		t.Fatalf("expected InvalidStateError for pickup, got %v", err)
	}
	if _, err := e.CreateRider(model.Location{X: 1, Y: 1}, model.Location{X: 1, Y: 1}); !errors.As(err, &inv) {
		t.Fatalf("expected InvalidStateError for equal pickup/dropoff, got %v", err)
	}
}

func TestRequestRideUnknownRider(t *testing.T) {
	e := newTestEngine(t)
	var nf errs.NotFoundError
	if _, err := e.RequestRide("missing"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDispatchSelectsNearestDriver(t *testing.T) {
	e := newTestEngine(t)
	d1, err := e.CreateDriver(model.Location{X: 0, Y: 0})
	if err != nil {
		t.Fatal(err)
	}
	d2, err := e.CreateDriver(model.Location{X: 5, Y: 5})
	if err != nil {
		t.Fatal(err)
	}
	rider, err := e.CreateRider(model.Location{X: 5, Y: 6}, model.Location{X: 9, Y: 9})
	if err != nil {
		t.Fatal(err)
	}

	ride, err := e.RequestRide(rider.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ride.Status != model.RideAssigned {
		t.Fatalf("ride status %s, want assigned", ride.Status)
	}
	if ride.AssignedDriverID != d2.ID {
		t.Fatalf("assigned to %s, want %s (distance 1 beats 11)", ride.AssignedDriverID, d2.ID)
	}

	got, err := e.PendingRides(d2.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != ride.ID {
		t.Fatalf("pending rides for %s = %v", d2.ID, got)
	}
	if got, err := e.PendingRides(d1.ID); err != nil || len(got) != 0 {
		t.Fatalf("pending rides for idle driver = %v, %v", got, err)
	}
}

func TestRideStaysWaitingWithoutDrivers(t *testing.T) {
	e := newTestEngine(t)
	rider, err := e.CreateRider(model.Location{X: 1, Y: 1}, model.Location{X: 2, Y: 2})
	if err != nil {
		t.Fatal(err)
	}
	ride, err := e.RequestRide(rider.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ride.Status != model.RideWaiting || ride.AssignedDriverID != "" {
		t.Fatalf("ride should stay waiting, got %s assigned to %q", ride.Status, ride.AssignedDriverID)
	}

	// Explicit re-dispatch with an empty pool is a no-op, not an error.
	out, err := e.Dispatch(ride.ID)
	if err != nil {
		t.Fatal(err)
	}
	if out.Assigned {
		t.Fatal("dispatch should report no driver available")
	}

	// A newly created driver is matched opportunistically.
	d, err := e.CreateDriver(model.Location{X: 0, Y: 0})
	if err != nil {
		t.Fatal(err)
	}
	rides := e.Rides()
	if len(rides) != 1 || rides[0].Status != model.RideAssigned || rides[0].AssignedDriverID != d.ID {
		t.Fatalf("expected opportunistic assignment to %s, got %+v", d.ID, rides)
	}
}

func TestDispatchRejectsNonWaitingRide(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.CreateDriver(model.Location{X: 0, Y: 0}); err != nil {
		t.Fatal(err)
	}
	rider, err := e.CreateRider(model.Location{X: 1, Y: 1}, model.Location{X: 2, Y: 2})
	if err != nil {
		t.Fatal(err)
	}
	ride, err := e.RequestRide(rider.ID)
	if err != nil {
		t.Fatal(err)
	}
	var inv errs.InvalidStateError
	if _, err := e.Dispatch(ride.ID); !errors.As(err, &inv) {
		t.Fatalf("expected InvalidStateError for assigned ride, got %v", err)
	}
}

func TestWaitingRidesServedOldestFirst(t *testing.T) {
	e := newTestEngine(t)
	r1, err := e.CreateRider(model.Location{X: 1, Y: 0}, model.Location{X: 9, Y: 0})
	if err != nil {
		t.Fatal(err)
	}
	r2, err := e.CreateRider(model.Location{X: 2, Y: 0}, model.Location{X: 9, Y: 9})
	if err != nil {
		t.Fatal(err)
	}
	ride1, err := e.RequestRide(r1.ID)
	if err != nil {
		t.Fatal(err)
	}
	ride2, err := e.RequestRide(r2.ID)
	if err != nil {
		t.Fatal(err)
	}

	// One driver arrives: the older request wins even though the newer
	// pickup is closer once the driver spawns next to it.
	d, err := e.CreateDriver(model.Location{X: 2, Y: 0})
	if err != nil {
		t.Fatal(err)
	}
	rides := e.Rides()
	byID := map[string]model.RideRequest{}
	for _, r := range rides {
		byID[r.ID] = r
	}
	if byID[ride1.ID].AssignedDriverID != d.ID {
		t.Fatalf("oldest ride not served first: %+v", byID[ride1.ID])
	}
	if byID[ride2.ID].Status != model.RideWaiting {
		t.Fatalf("newer ride should still wait, got %s", byID[ride2.ID].Status)
	}
}

func TestDeleteDriverProtectedWhileAssigned(t *testing.T) {
	e := newTestEngine(t)
	d, err := e.CreateDriver(model.Location{X: 0, Y: 0})
	if err != nil {
		t.Fatal(err)
	}
	rider, err := e.CreateRider(model.Location{X: 0, Y: 1}, model.Location{X: 0, Y: 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.RequestRide(rider.ID); err != nil {
		t.Fatal(err)
	}
	var conflict errs.ConflictError
	if err := e.DeleteDriver(d.ID); !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if err := e.DeleteRider(rider.ID); !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestStateSnapshotAndReset(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.CreateDriver(model.Location{X: 0, Y: 0}); err != nil {
		t.Fatal(err)
	}
	rider, err := e.CreateRider(model.Location{X: 0, Y: 3}, model.Location{X: 0, Y: 5})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.RequestRide(rider.ID); err != nil {
		t.Fatal(err)
	}
	e.AdvanceTick()

	snap := e.State()
	if snap.Tick != 1 || snap.GridSize != 10 {
		t.Fatalf("snapshot header wrong: %+v", snap)
	}
	if snap.Stats.DriversByStatus["en_route_to_pickup"] != 1 {
		t.Errorf("driver stats wrong: %v", snap.Stats.DriversByStatus)
	}
	if snap.Stats.RidesByStatus["assigned"] != 1 {
		t.Errorf("ride stats wrong: %v", snap.Stats.RidesByStatus)
	}

	e.Reset()
	snap = e.State()
	if snap.Tick != 0 || len(snap.Drivers) != 0 || len(snap.Riders) != 0 || len(snap.Rides) != 0 {
		t.Fatalf("reset incomplete: %+v", snap)
	}
}
