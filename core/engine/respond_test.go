package engine

import (
	"errors"
	"testing"

	"github.com/kmartel07/gridride/core/errs"
	"github.com/kmartel07/gridride/core/model"
)

func TestRespondRequiresAssignedRide(t *testing.T) {
	e := newTestEngine(t)
	rider, err := e.CreateRider(model.Location{X: 1, Y: 1}, model.Location{X: 2, Y: 2})
	if err != nil {
		t.Fatal(err)
	}
	ride, err := e.RequestRide(rider.ID) // no drivers: stays waiting
	if err != nil {
		t.Fatal(err)
	}
	var inv errs.InvalidStateError
	if _, err := e.Respond(ride.ID, true); !errors.As(err, &inv) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
	var nf errs.NotFoundError
	if _, err := e.Respond("missing", true); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestAcceptKeepsDriverMoving(t *testing.T) {
	e := newTestEngine(t)
	d, err := e.CreateDriver(model.Location{X: 0, Y: 0})
	if err != nil {
		t.Fatal(err)
	}
	rider, err := e.CreateRider(model.Location{X: 0, Y: 2}, model.Location{X: 0, Y: 4})
	if err != nil {
		t.Fatal(err)
	}
	ride, err := e.RequestRide(rider.ID)
	if err != nil {
		t.Fatal(err)
	}

	got, err := e.Respond(ride.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.RideAccepted || got.AssignedDriverID != d.ID {
		t.Fatalf("unexpected ride after accept: %+v", got)
	}
	driver := e.Drivers()[0]
	if driver.Status != model.DriverEnRouteToPickup || driver.Destination == nil {
		t.Fatalf("accept must not disturb the driver: %+v", driver)
	}

	// A second response is illegal.
	var inv errs.InvalidStateError
	if _, err := e.Respond(ride.ID, false); !errors.As(err, &inv) {
		t.Fatalf("expected InvalidStateError on double response, got %v", err)
	}
}

func TestRejectReassignsToNextDriver(t *testing.T) {
	e := newTestEngine(t)
	near, err := e.CreateDriver(model.Location{X: 0, Y: 1})
	if err != nil {
		t.Fatal(err)
	}
	far, err := e.CreateDriver(model.Location{X: 9, Y: 9})
	if err != nil {
		t.Fatal(err)
	}
	rider, err := e.CreateRider(model.Location{X: 0, Y: 0}, model.Location{X: 5, Y: 5})
	if err != nil {
		t.Fatal(err)
	}
	ride, err := e.RequestRide(rider.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ride.AssignedDriverID != near.ID {
		t.Fatalf("expected nearest driver %s first, got %s", near.ID, ride.AssignedDriverID)
	}

	got, err := e.Respond(ride.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.RideAssigned || got.AssignedDriverID != far.ID {
		t.Fatalf("expected reassignment to %s, got %+v", far.ID, got)
	}
	if got.RejectedBy[0] != near.ID {
		t.Fatalf("rejection history missing: %+v", got.RejectedBy)
	}

	// The rejecting driver is fully released.
	drivers := e.Drivers()
	for _, d := range drivers {
		if d.ID == near.ID {
			if d.Status != model.DriverAvailable || d.Destination != nil || d.CurrentRideID != "" {
				t.Fatalf("rejecting driver not released: %+v", d)
			}
		}
	}
}

func TestRejectWithoutAlternativesFailsRide(t *testing.T) {
	e := newTestEngine(t)
	d, err := e.CreateDriver(model.Location{X: 0, Y: 0})
	if err != nil {
		t.Fatal(err)
	}
	rider, err := e.CreateRider(model.Location{X: 0, Y: 3}, model.Location{X: 0, Y: 5})
	if err != nil {
		t.Fatal(err)
	}
	ride, err := e.RequestRide(rider.ID)
	if err != nil {
		t.Fatal(err)
	}

	got, err := e.Respond(ride.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.RideFailed {
		t.Fatalf("ride status %s, want failed", got.Status)
	}
	if got.AssignedDriverID != "" {
		t.Fatalf("failed ride still assigned to %s", got.AssignedDriverID)
	}
	driver := e.Drivers()[0]
	if driver.Status != model.DriverAvailable || driver.Destination != nil || driver.CurrentRideID != "" {
		t.Fatalf("driver not released after failure: %+v", driver)
	}

	// Failure is terminal even when drivers free up later.
	if _, err := e.Dispatch(ride.ID); err == nil {
		t.Fatal("dispatching a failed ride should be rejected")
	}

	// The rejecting driver stays eligible for future requests.
	rider2, err := e.CreateRider(model.Location{X: 1, Y: 0}, model.Location{X: 1, Y: 3})
	if err != nil {
		t.Fatal(err)
	}
	ride2, err := e.RequestRide(rider2.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ride2.Status != model.RideAssigned || ride2.AssignedDriverID != d.ID {
		t.Fatalf("rejecting driver should serve future requests: %+v", ride2)
	}
}

// A rejecting driver becomes available and may be matched to a different
// waiting ride in the same call.
func TestRejectFreesDriverForOtherWaitingRides(t *testing.T) {
	e := newTestEngine(t)
	d, err := e.CreateDriver(model.Location{X: 0, Y: 0})
	if err != nil {
		t.Fatal(err)
	}
	r1, err := e.CreateRider(model.Location{X: 0, Y: 1}, model.Location{X: 0, Y: 2})
	if err != nil {
		t.Fatal(err)
	}
	ride1, err := e.RequestRide(r1.ID)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := e.CreateRider(model.Location{X: 0, Y: 2}, model.Location{X: 0, Y: 3})
	if err != nil {
		t.Fatal(err)
	}
	ride2, err := e.RequestRide(r2.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ride2.Status != model.RideWaiting {
		t.Fatalf("second ride should wait, got %s", ride2.Status)
	}

	if _, err := e.Respond(ride1.ID, false); err != nil {
		t.Fatal(err)
	}
	snap := e.State()
	byID := map[string]model.RideRequest{}
	for _, r := range snap.Rides {
		byID[r.ID] = r
	}
	if byID[ride1.ID].Status != model.RideFailed {
		t.Fatalf("rejected ride should fail with no alternative, got %s", byID[ride1.ID].Status)
	}
	if got := byID[ride2.ID]; got.Status != model.RideAssigned || got.AssignedDriverID != d.ID {
		t.Fatalf("freed driver should serve the other waiting ride: %+v", got)
	}
}
