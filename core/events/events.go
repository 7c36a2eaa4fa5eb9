// Package events defines the notifications published on the event bus while
// a simulation runs. Subscribers (metrics collector, scenario runner) consume
// them read-only; the engine never waits on subscribers.
package events

// RideAssignedEvent is published when dispatch binds a driver to a ride.
type RideAssignedEvent struct {
	RideID     string
	DriverID   string
	Distance   int // Manhattan distance driver -> pickup at assignment time
	Tick       int
	Reassigned bool // true when the assignment follows a rejection
}

// RideRespondedEvent is published for each accept or reject decision.
type RideRespondedEvent struct {
	RideID   string
	DriverID string
	Accepted bool
	Tick     int
}

// RideCompletedEvent is published when a driver reaches the dropoff.
type RideCompletedEvent struct {
	RideID   string
	DriverID string
	Tick     int
}

// RideFailedEvent is published when a ride exhausts the driver pool.
type RideFailedEvent struct {
	RideID string
	Tick   int
}

// TickAdvancedEvent is published once per tick.
type TickAdvancedEvent struct {
	Tick           int
	MovedDrivers   int
	CompletedRides int
}
