package model

import "fmt"

// RideStatus tracks the lifecycle of a ride request.
//
// Waiting -> Assigned -> Accepted -> InProgress -> Completed is the happy
// path. A rejection returns the ride to Waiting (re-dispatched immediately)
// or moves it to Failed when no driver remains. Completed, Failed and
// Rejected are terminal.
type RideStatus int

const (
	RideWaiting RideStatus = iota
	RideAssigned
	RideAccepted
	RideRejected
	RideInProgress
	RideCompleted
	RideFailed
)

// String returns a human-readable representation of the ride status.
func (s RideStatus) String() string {
	switch s {
	case RideWaiting:
		return "waiting"
	case RideAssigned:
		return "assigned"
	case RideAccepted:
		return "accepted"
	case RideRejected:
		return "rejected"
	case RideInProgress:
		return "in_progress"
	case RideCompleted:
		return "completed"
	case RideFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler for API payloads.
func (s RideStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *RideStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "waiting":
		*s = RideWaiting
	case "assigned":
		*s = RideAssigned
	case "accepted":
		*s = RideAccepted
	case "rejected":
		*s = RideRejected
	case "in_progress":
		*s = RideInProgress
	case "completed":
		*s = RideCompleted
	case "failed":
		*s = RideFailed
	default:
		return fmt.Errorf("unknown ride status %q", text)
	}
	return nil
}

// Terminal reports whether the status admits no further transitions.
func (s RideStatus) Terminal() bool {
	return s == RideCompleted || s == RideFailed || s == RideRejected
}

// RideRequest binds a rider to a driver for a single trip. Pickup and
// dropoff are copied from the rider at creation time and never change.
// AssignedDriverID is set iff the status is Assigned, Accepted or InProgress.
type RideRequest struct {
	ID               string     `json:"id"`
	RiderID          string     `json:"rider_id"`
	Pickup           Location   `json:"pickup"`
	Dropoff          Location   `json:"dropoff"`
	Status           RideStatus `json:"status"`
	AssignedDriverID string     `json:"assigned_driver_id,omitempty"`
	RejectedBy       []string   `json:"rejected_by,omitempty"`
	CreatedAtTick    int        `json:"created_at_tick"`
}

// Active reports whether the ride still occupies a driver or may occupy one.
func (r RideRequest) Active() bool {
	return !r.Status.Terminal()
}
