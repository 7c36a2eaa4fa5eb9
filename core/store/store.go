// Package store holds the in-memory entity registries backing a simulation.
// The store is the single source of truth for drivers, riders and ride
// requests; records are stored and returned by value so callers never hold
// aliases into the registries.
//
// The store itself is not safe for concurrent use. The engine serializes
// every state-changing operation behind one mutex, which is the single
// serialization point for the whole simulation.
package store

import (
	"sort"

	"github.com/kmartel07/gridride/core/errs"
	"github.com/kmartel07/gridride/core/model"
)

// Store maps entity identifiers to their current records and tracks the
// simulation tick counter.
type Store struct {
	drivers map[string]model.Driver
	riders  map[string]model.Rider
	rides   map[string]model.RideRequest
	tick    int
}

// New creates an empty store at tick zero.
func New() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset clears all three registries and the tick counter atomically.
func (s *Store) Reset() {
	s.drivers = make(map[string]model.Driver)
	s.riders = make(map[string]model.Rider)
	s.rides = make(map[string]model.RideRequest)
	s.tick = 0
}

// Tick returns the current tick counter.
func (s *Store) Tick() int { return s.tick }

// AdvanceTick increments the tick counter by exactly one and returns it.
func (s *Store) AdvanceTick() int {
	s.tick++
	return s.tick
}

// AddDriver registers a new driver. A duplicate id is a conflict.
func (s *Store) AddDriver(d model.Driver) error {
	if _, ok := s.drivers[d.ID]; ok {
		return errs.Conflictf("driver %s already exists", d.ID)
	}
	s.drivers[d.ID] = d
	return nil
}

// Driver returns the driver with the given id.
func (s *Store) Driver(id string) (model.Driver, error) {
	d, ok := s.drivers[id]
	if !ok {
		return model.Driver{}, errs.NotFound("driver", id)
	}
	return d, nil
}

// UpdateDriver replaces an existing driver record.
func (s *Store) UpdateDriver(d model.Driver) error {
	if _, ok := s.drivers[d.ID]; !ok {
		return errs.NotFound("driver", d.ID)
	}
	s.drivers[d.ID] = d
	return nil
}

// DeleteDriver removes a driver. Deleting a driver referenced by a
// non-terminal ride is a conflict: the ride would be orphaned mid-flight.
func (s *Store) DeleteDriver(id string) error {
	if _, ok := s.drivers[id]; !ok {
		return errs.NotFound("driver", id)
	}
	for _, r := range s.rides {
		if r.Active() && r.AssignedDriverID == id {
			return errs.Conflictf("driver %s is assigned to ride %s", id, r.ID)
		}
	}
	delete(s.drivers, id)
	return nil
}

// Drivers returns all drivers ordered by ascending id. Map iteration order
// is not stable, and dispatch tie-breaking depends on this ordering.
func (s *Store) Drivers() []model.Driver {
	out := make([]model.Driver, 0, len(s.drivers))
	for _, d := range s.drivers {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddRider registers a new rider. A duplicate id is a conflict.
func (s *Store) AddRider(r model.Rider) error {
	if _, ok := s.riders[r.ID]; ok {
		return errs.Conflictf("rider %s already exists", r.ID)
	}
	s.riders[r.ID] = r
	return nil
}

// Rider returns the rider with the given id.
func (s *Store) Rider(id string) (model.Rider, error) {
	r, ok := s.riders[id]
	if !ok {
		return model.Rider{}, errs.NotFound("rider", id)
	}
	return r, nil
}

// DeleteRider removes a rider. Deleting a rider with a non-terminal ride
// request is a conflict.
func (s *Store) DeleteRider(id string) error {
	if _, ok := s.riders[id]; !ok {
		return errs.NotFound("rider", id)
	}
	for _, r := range s.rides {
		if r.Active() && r.RiderID == id {
			return errs.Conflictf("rider %s has active ride %s", id, r.ID)
		}
	}
	delete(s.riders, id)
	return nil
}

// Riders returns all riders ordered by ascending id.
func (s *Store) Riders() []model.Rider {
	out := make([]model.Rider, 0, len(s.riders))
	for _, r := range s.riders {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddRide registers a new ride request. A duplicate id is a conflict.
func (s *Store) AddRide(r model.RideRequest) error {
	if _, ok := s.rides[r.ID]; ok {
		return errs.Conflictf("ride %s already exists", r.ID)
	}
	s.rides[r.ID] = r
	return nil
}

// Ride returns the ride request with the given id.
func (s *Store) Ride(id string) (model.RideRequest, error) {
	r, ok := s.rides[id]
	if !ok {
		return model.RideRequest{}, errs.NotFound("ride", id)
	}
	return r, nil
}

// UpdateRide replaces an existing ride record.
func (s *Store) UpdateRide(r model.RideRequest) error {
	if _, ok := s.rides[r.ID]; !ok {
		return errs.NotFound("ride", r.ID)
	}
	s.rides[r.ID] = r
	return nil
}

// Rides returns all ride requests ordered by ascending id.
func (s *Store) Rides() []model.RideRequest {
	out := make([]model.RideRequest, 0, len(s.rides))
	for _, r := range s.rides {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// WaitingRides returns rides in the Waiting state, oldest tick first, ties
// broken by ascending id. This is the queue order for opportunistic
// re-dispatch when a driver frees up.
func (s *Store) WaitingRides() []model.RideRequest {
	var out []model.RideRequest
	for _, r := range s.rides {
		if r.Status == model.RideWaiting {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAtTick != out[j].CreatedAtTick {
			return out[i].CreatedAtTick < out[j].CreatedAtTick
		}
		return out[i].ID < out[j].ID
	})
	return out
}
