package model

import "fmt"

// DriverStatus tracks where a driver is in the ride lifecycle.
type DriverStatus int

const (
	DriverAvailable DriverStatus = iota
	DriverEnRouteToPickup
	DriverOnTrip
	DriverOffline
)

// String returns a human-readable representation of the driver status.
func (s DriverStatus) String() string {
	switch s {
	case DriverAvailable:
		return "available"
	case DriverEnRouteToPickup:
		return "en_route_to_pickup"
	case DriverOnTrip:
		return "on_trip"
	case DriverOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so statuses serialize as
// their names in API payloads.
func (s DriverStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *DriverStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "available":
		*s = DriverAvailable
	case "en_route_to_pickup":
		*s = DriverEnRouteToPickup
	case "on_trip":
		*s = DriverOnTrip
	case "offline":
		*s = DriverOffline
	default:
		return fmt.Errorf("unknown driver status %q", text)
	}
	return nil
}

// Driver is a vehicle on the grid. Destination is non-nil iff the driver is
// en route to a pickup or on a trip; a driver carries at most one active ride.
type Driver struct {
	ID            string       `json:"id"`
	Location      Location     `json:"location"`
	Status        DriverStatus `json:"status"`
	Destination   *Location    `json:"destination,omitempty"`
	CurrentRideID string       `json:"current_ride_id,omitempty"`
}

// Moving reports whether the driver has an active destination to step toward.
func (d Driver) Moving() bool {
	return d.Destination != nil
}
