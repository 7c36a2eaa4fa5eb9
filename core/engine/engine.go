// Package engine drives the ride-dispatch simulation: entity lifecycle,
// driver assignment, accept/reject handling and tick advancement.
//
// Every state-changing operation runs under one mutex, so concurrent API
// calls never interleave partial updates to a driver/ride pair. Validation
// precedes mutation: a returned error means the store is unchanged for that
// call.
package engine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kmartel07/gridride/core/dispatch"
	"github.com/kmartel07/gridride/core/errs"
	"github.com/kmartel07/gridride/core/logger"
	"github.com/kmartel07/gridride/core/metrics"
	"github.com/kmartel07/gridride/core/model"
	"github.com/kmartel07/gridride/core/store"
	"github.com/kmartel07/gridride/internal/eventbus"
)

// DefaultGridSize matches the reference simulation grid.
const DefaultGridSize = 100

// Engine owns the entity store and applies every legal state transition.
type Engine struct {
	mu         sync.Mutex
	gridSize   int
	store      *store.Store
	dispatcher dispatch.Dispatcher
	log        logger.Logger
	sink       metrics.MetricsSink
	bus        eventbus.EventBus

	newID func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithMetricsSink attaches a metrics sink. A nil sink is ignored.
func WithMetricsSink(sink metrics.MetricsSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

// WithEventBus attaches an event bus the engine publishes to.
func WithEventBus(bus eventbus.EventBus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithIDGenerator overrides the uuid generator, used by tests that need
// predictable identifiers.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// New creates an Engine for a square grid of the given size.
func New(gridSize int, d dispatch.Dispatcher, log logger.Logger, opts ...Option) (*Engine, error) {
	if gridSize <= 0 {
		return nil, fmt.Errorf("engine: grid size must be positive, got %d", gridSize)
	}
	if d == nil || log == nil {
		return nil, fmt.Errorf("engine: nil parameter provided to New")
	}
	e := &Engine{
		gridSize:   gridSize,
		store:      store.New(),
		dispatcher: d,
		log:        log,
		sink:       metrics.NopSink{},
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// GridSize returns the configured grid size.
func (e *Engine) GridSize() int { return e.gridSize }

// CreateDriver registers a new available driver at the given location and
// opportunistically matches outstanding waiting rides against it.
func (e *Engine) CreateDriver(loc model.Location) (model.Driver, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !loc.InBounds(e.gridSize) {
		return model.Driver{}, errs.InvalidStatef("location (%d,%d) is outside the %dx%d grid", loc.X, loc.Y, e.gridSize, e.gridSize)
	}
	d := model.Driver{
		ID:       e.newID(),
		Location: loc,
		Status:   model.DriverAvailable,
	}
	if err := e.store.AddDriver(d); err != nil {
		return model.Driver{}, err
	}
	e.log.Infof("driver %s created at (%d,%d)", d.ID, loc.X, loc.Y)
	e.recordFleetSize()
	e.dispatchWaiting()
	return e.store.Driver(d.ID)
}

// DeleteDriver removes a driver unless a non-terminal ride references it.
func (e *Engine) DeleteDriver(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.DeleteDriver(id); err != nil {
		return err
	}
	e.log.Infof("driver %s deleted", id)
	e.recordFleetSize()
	return nil
}

// Drivers returns all drivers ordered by id.
func (e *Engine) Drivers() []model.Driver {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Drivers()
}

// CreateRider registers a rider with fixed pickup and dropoff locations.
func (e *Engine) CreateRider(pickup, dropoff model.Location) (model.Rider, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !pickup.InBounds(e.gridSize) {
		return model.Rider{}, errs.InvalidStatef("pickup (%d,%d) is outside the %dx%d grid", pickup.X, pickup.Y, e.gridSize, e.gridSize)
	}
	if !dropoff.InBounds(e.gridSize) {
		return model.Rider{}, errs.InvalidStatef("dropoff (%d,%d) is outside the %dx%d grid", dropoff.X, dropoff.Y, e.gridSize, e.gridSize)
	}
	if pickup == dropoff {
		return model.Rider{}, errs.InvalidStatef("pickup and dropoff must differ")
	}
	r := model.Rider{ID: e.newID(), Pickup: pickup, Dropoff: dropoff}
	if err := e.store.AddRider(r); err != nil {
		return model.Rider{}, err
	}
	e.log.Infof("rider %s created pickup=(%d,%d) dropoff=(%d,%d)", r.ID, pickup.X, pickup.Y, dropoff.X, dropoff.Y)
	return r, nil
}

// DeleteRider removes a rider unless a non-terminal ride references it.
func (e *Engine) DeleteRider(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.DeleteRider(id); err != nil {
		return err
	}
	e.log.Infof("rider %s deleted", id)
	return nil
}

// Riders returns all riders ordered by id.
func (e *Engine) Riders() []model.Rider {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Riders()
}

// RequestRide creates a ride request for the rider, copying the rider's
// pickup and dropoff, and immediately attempts dispatch. The ride stays
// Waiting when no driver is available.
func (e *Engine) RequestRide(riderID string) (model.RideRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rider, err := e.store.Rider(riderID)
	if err != nil {
		return model.RideRequest{}, err
	}
	ride := model.RideRequest{
		ID:            e.newID(),
		RiderID:       rider.ID,
		Pickup:        rider.Pickup,
		Dropoff:       rider.Dropoff,
		Status:        model.RideWaiting,
		CreatedAtTick: e.store.Tick(),
	}
	if err := e.store.AddRide(ride); err != nil {
		return model.RideRequest{}, err
	}
	e.log.Infof("ride %s requested by rider %s", ride.ID, rider.ID)
	e.tryDispatch(ride.ID, nil, false)
	return e.store.Ride(ride.ID)
}

// Rides returns all ride requests ordered by id.
func (e *Engine) Rides() []model.RideRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Rides()
}

// PendingRides returns the rides currently assigned to the driver and
// awaiting its accept/reject response.
func (e *Engine) PendingRides(driverID string) ([]model.RideRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.store.Driver(driverID); err != nil {
		return nil, err
	}
	var out []model.RideRequest
	for _, r := range e.store.Rides() {
		if r.Status == model.RideAssigned && r.AssignedDriverID == driverID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Reset clears all entities and the tick counter.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Reset()
	e.recordFleetSize()
	e.log.Infof("simulation state cleared")
}

func (e *Engine) publish(ev eventbus.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

// recordFleetSize is called with the engine lock held.
func (e *Engine) recordFleetSize() {
	if r, ok := e.sink.(metrics.FleetSizeRecorder); ok {
		if err := r.RecordFleetSize(len(e.store.Drivers())); err != nil {
			e.log.Warnf("record fleet size: %v", err)
		}
	}
}
