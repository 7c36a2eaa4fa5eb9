package engine

import (
	"github.com/kmartel07/gridride/core/errs"
	"github.com/kmartel07/gridride/core/events"
	"github.com/kmartel07/gridride/core/metrics"
	"github.com/kmartel07/gridride/core/model"
)

// DispatchOutcome is the result of a dispatch attempt. NoDriverAvailable is
// a normal outcome, not an error: the ride simply stays Waiting.
type DispatchOutcome struct {
	Assigned bool   `json:"assigned"`
	DriverID string `json:"driver_id,omitempty"`
}

// Dispatch attempts to assign a driver to a Waiting ride. Callers re-invoke
// it explicitly after a driver frees up; the engine also runs it internally
// on ride creation, on rejection and after trip completion.
func (e *Engine) Dispatch(rideID string) (DispatchOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ride, err := e.store.Ride(rideID)
	if err != nil {
		return DispatchOutcome{}, err
	}
	if ride.Status != model.RideWaiting {
		return DispatchOutcome{}, errs.InvalidStatef("ride %s is %s, only waiting rides can be dispatched", rideID, ride.Status)
	}
	driverID, ok := e.tryDispatch(rideID, nil, false)
	return DispatchOutcome{Assigned: ok, DriverID: driverID}, nil
}

// tryDispatch selects the nearest available driver for the ride and applies
// the assignment transition. The caller must hold e.mu and guarantee the
// ride exists in the Waiting state. The exclude set holds driver ids that
// are ineligible for this attempt only.
func (e *Engine) tryDispatch(rideID string, exclude map[string]bool, reassigned bool) (string, bool) {
	ride, err := e.store.Ride(rideID)
	if err != nil {
		return "", false
	}
	driverID, ok := e.dispatcher.Select(e.store.Drivers(), ride.Pickup, exclude)
	if !ok {
		e.log.Debugf("no driver available for ride %s", rideID)
		return "", false
	}
	driver, err := e.store.Driver(driverID)
	if err != nil {
		return "", false
	}

	pickup := ride.Pickup
	driver.Status = model.DriverEnRouteToPickup
	driver.Destination = &pickup
	driver.CurrentRideID = ride.ID
	ride.Status = model.RideAssigned
	ride.AssignedDriverID = driver.ID
	if err := e.store.UpdateDriver(driver); err != nil {
		return "", false
	}
	if err := e.store.UpdateRide(ride); err != nil {
		return "", false
	}

	dist := model.Distance(driver.Location, pickup)
	e.log.Debugw("ride assigned", map[string]any{
		"ride_id":   ride.ID,
		"driver_id": driver.ID,
		"distance":  dist,
	})
	e.publish(events.RideAssignedEvent{
		RideID:     ride.ID,
		DriverID:   driver.ID,
		Distance:   dist,
		Tick:       e.store.Tick(),
		Reassigned: reassigned,
	})
	if err := e.sink.RecordAssignment(metrics.Assignment{
		RideID:     ride.ID,
		DriverID:   driver.ID,
		Distance:   dist,
		Tick:       e.store.Tick(),
		Reassigned: reassigned,
	}); err != nil {
		e.log.Errorf("metrics error: %v", err)
	}
	return driver.ID, true
}

// dispatchWaiting matches outstanding Waiting rides, oldest first, against
// the current driver pool. Called whenever a driver becomes newly available.
// The caller must hold e.mu.
func (e *Engine) dispatchWaiting() {
	for _, ride := range e.store.WaitingRides() {
		if _, ok := e.tryDispatch(ride.ID, nil, false); !ok {
			// No available driver for this ride means none for any:
			// exclusions do not apply on this path.
			return
		}
	}
}
