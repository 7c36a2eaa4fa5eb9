package engine

import (
	"github.com/kmartel07/gridride/core/errs"
	"github.com/kmartel07/gridride/core/events"
	"github.com/kmartel07/gridride/core/model"
)

// Respond applies the assigned driver's accept or reject decision.
//
// Accept moves the ride to Accepted; the driver keeps moving toward the
// pickup. Reject releases the driver, returns the ride to Waiting and
// immediately re-dispatches it, excluding every driver that already rejected
// this ride so the same pair cannot bounce it back and forth. If no other
// driver is available the ride fails terminally. Rejectors stay eligible for
// other rides, and for this ride on later dispatch rounds.
func (e *Engine) Respond(rideID string, accept bool) (model.RideRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ride, err := e.store.Ride(rideID)
	if err != nil {
		return model.RideRequest{}, err
	}
	if ride.Status != model.RideAssigned {
		return model.RideRequest{}, errs.InvalidStatef("ride %s is %s, only assigned rides accept a response", rideID, ride.Status)
	}
	driver, err := e.store.Driver(ride.AssignedDriverID)
	if err != nil {
		return model.RideRequest{}, err
	}

	e.publish(events.RideRespondedEvent{RideID: ride.ID, DriverID: driver.ID, Accepted: accept, Tick: e.store.Tick()})

	if accept {
		ride.Status = model.RideAccepted
		if err := e.store.UpdateRide(ride); err != nil {
			return model.RideRequest{}, err
		}
		e.log.Infof("ride %s accepted by driver %s", ride.ID, driver.ID)
		return ride, nil
	}

	// Release the rejecting driver before re-dispatch so it can serve other
	// waiting rides, but never this attempt.
	rejectedID := driver.ID
	driver.Status = model.DriverAvailable
	driver.Destination = nil
	driver.CurrentRideID = ""
	if err := e.store.UpdateDriver(driver); err != nil {
		return model.RideRequest{}, err
	}

	ride.Status = model.RideWaiting
	ride.AssignedDriverID = ""
	ride.RejectedBy = append(ride.RejectedBy, rejectedID)
	if err := e.store.UpdateRide(ride); err != nil {
		return model.RideRequest{}, err
	}
	e.log.Infof("ride %s rejected by driver %s, re-dispatching", ride.ID, rejectedID)

	exclude := make(map[string]bool, len(ride.RejectedBy))
	for _, id := range ride.RejectedBy {
		exclude[id] = true
	}
	if _, ok := e.tryDispatch(ride.ID, exclude, true); !ok {
		ride, err = e.store.Ride(rideID)
		if err != nil {
			return model.RideRequest{}, err
		}
		ride.Status = model.RideFailed
		if err := e.store.UpdateRide(ride); err != nil {
			return model.RideRequest{}, err
		}
		e.log.Warnf("ride %s failed: driver pool exhausted", ride.ID)
		e.publish(events.RideFailedEvent{RideID: ride.ID, Tick: e.store.Tick()})
		// The rejector is available again even though this ride failed.
		e.dispatchWaiting()
		return ride, nil
	}

	// The rejecting driver is available again; it may be the closest match
	// for some other waiting ride.
	e.dispatchWaiting()
	return e.store.Ride(rideID)
}
