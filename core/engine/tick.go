package engine

import (
	"github.com/kmartel07/gridride/core/events"
	"github.com/kmartel07/gridride/core/model"
)

// TickResult summarizes one tick advancement.
type TickResult struct {
	Tick           int `json:"tick"`
	MovedDrivers   int `json:"moved_drivers"`
	CompletedRides int `json:"completed_rides"`
}

// AdvanceTick moves simulated time forward by exactly one unit. Every driver
// with an active destination takes one grid step; reaching the pickup starts
// the trip, reaching the dropoff completes it and frees the driver. Drivers
// without a destination are untouched.
func (e *Engine) AdvanceTick() TickResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	tick := e.store.AdvanceTick()
	res := TickResult{Tick: tick}
	freed := false

	for _, driver := range e.store.Drivers() {
		if !driver.Moving() {
			continue
		}
		dest := *driver.Destination
		next := model.StepToward(driver.Location, dest)
		if next != driver.Location {
			driver.Location = next
			res.MovedDrivers++
		}
		if driver.Location != dest {
			if err := e.store.UpdateDriver(driver); err != nil {
				e.log.Errorf("tick: update driver %s: %v", driver.ID, err)
			}
			continue
		}
		if completed := e.arrive(&driver); completed {
			res.CompletedRides++
			freed = true
		}
		if err := e.store.UpdateDriver(driver); err != nil {
			e.log.Errorf("tick: update driver %s: %v", driver.ID, err)
		}
	}

	if freed {
		// Completed trips freed drivers; they may now be the closest match
		// for outstanding waiting rides.
		e.dispatchWaiting()
	}

	e.log.Debugw("tick advanced", map[string]any{
		"tick":            res.Tick,
		"moved_drivers":   res.MovedDrivers,
		"completed_rides": res.CompletedRides,
	})
	e.publish(events.TickAdvancedEvent{Tick: res.Tick, MovedDrivers: res.MovedDrivers, CompletedRides: res.CompletedRides})
	return res
}

// arrive handles a driver that reached its destination this tick. It mutates
// the driver in place and reports whether a ride completed. The caller must
// hold e.mu and persist the driver afterwards.
func (e *Engine) arrive(driver *model.Driver) bool {
	ride, err := e.store.Ride(driver.CurrentRideID)
	if err != nil {
		e.log.Errorf("tick: driver %s references missing ride %s", driver.ID, driver.CurrentRideID)
		return false
	}

	switch driver.Status {
	case model.DriverEnRouteToPickup:
		ride.Status = model.RideInProgress
		dropoff := ride.Dropoff
		driver.Status = model.DriverOnTrip
		driver.Destination = &dropoff
		if err := e.store.UpdateRide(ride); err != nil {
			e.log.Errorf("tick: update ride %s: %v", ride.ID, err)
			return false
		}
		e.log.Infof("driver %s picked up ride %s", driver.ID, ride.ID)
		return false

	case model.DriverOnTrip:
		ride.Status = model.RideCompleted
		ride.AssignedDriverID = ""
		driver.Status = model.DriverAvailable
		driver.Destination = nil
		driver.CurrentRideID = ""
		if err := e.store.UpdateRide(ride); err != nil {
			e.log.Errorf("tick: update ride %s: %v", ride.ID, err)
			return false
		}
		e.log.Infof("ride %s completed by driver %s", ride.ID, driver.ID)
		e.publish(events.RideCompletedEvent{RideID: ride.ID, DriverID: driver.ID, Tick: e.store.Tick()})
		return true
	}
	return false
}
