// Package simulator runs scripted fleet scenarios against the simulation
// engine: a generated fleet of drivers, a batch of riders, and a response
// policy replayed tick by tick.
package simulator

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/kmartel07/gridride/core/dispatch"
	"github.com/kmartel07/gridride/core/engine"
	"github.com/kmartel07/gridride/core/model"
	"github.com/kmartel07/gridride/infra/logger"
)

// Config holds parameters for a scripted run.
type Config struct {
	Seed       int64
	GridSize   int
	Drivers    int
	Riders     int
	Ticks      int
	AcceptRate float64
}

// SetDefaults fills zero values with a small default scenario.
func (c *Config) SetDefaults() {
	if c.GridSize == 0 {
		c.GridSize = engine.DefaultGridSize
	}
	if c.Drivers == 0 {
		c.Drivers = 10
	}
	if c.Riders == 0 {
		c.Riders = 20
	}
	if c.Ticks == 0 {
		c.Ticks = 200
	}
	if c.AcceptRate == 0 {
		c.AcceptRate = 0.9
	}
}

// Validate rejects scenarios that cannot run.
func (c Config) Validate() error {
	if c.GridSize <= 0 {
		return fmt.Errorf("simulator: grid size must be positive, got %d", c.GridSize)
	}
	if c.Drivers < 0 || c.Riders < 0 || c.Ticks < 0 {
		return fmt.Errorf("simulator: counts must be non-negative")
	}
	if c.AcceptRate < 0 || c.AcceptRate > 1 {
		return fmt.Errorf("simulator: accept rate must be in [0,1], got %v", c.AcceptRate)
	}
	return nil
}

// RespondStrategy decides how a driver answers an assignment.
type RespondStrategy interface {
	Accept(driverID, rideID string) bool
}

// AutoAccept accepts every assignment.
type AutoAccept struct{}

// Accept implements RespondStrategy.
func (AutoAccept) Accept(string, string) bool { return true }

// RandomResponder accepts with the configured probability.
type RandomResponder struct {
	Rate float64
	rng  *rand.Rand
}

// NewRandomResponder creates a responder with its own seeded source so runs
// are reproducible.
func NewRandomResponder(rate float64, seed int64) *RandomResponder {
	return &RandomResponder{Rate: rate, rng: rand.New(rand.NewSource(seed))}
}

// Accept implements RespondStrategy.
func (r *RandomResponder) Accept(string, string) bool {
	return r.rng.Float64() < r.Rate
}

// Result summarizes a finished run.
type Result struct {
	Ticks     int
	Completed int
	Failed    int
	Waiting   int
	Snapshot  engine.Snapshot
}

// Runner owns an engine and replays a scenario against it.
type Runner struct {
	cfg      Config
	eng      *engine.Engine
	strategy RespondStrategy
	rng      *rand.Rand
	log      logger.Logger
}

// New builds a Runner with a fresh engine. A zero seed is used as-is, so
// identical configurations produce identical runs.
func New(cfg Config, log logger.Logger) (*Runner, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seq := 0
	eng, err := engine.New(cfg.GridSize, dispatch.NearestDispatcher{}, log,
		engine.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("sim%04d", seq)
		}))
	if err != nil {
		return nil, err
	}
	var strategy RespondStrategy = AutoAccept{}
	if cfg.AcceptRate < 1 {
		strategy = NewRandomResponder(cfg.AcceptRate, cfg.Seed)
	}
	return &Runner{
		cfg:      cfg,
		eng:      eng,
		strategy: strategy,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		log:      log,
	}, nil
}

// Engine exposes the underlying engine, mostly for tests.
func (r *Runner) Engine() *engine.Engine { return r.eng }

// Run executes the scenario and returns the aggregate outcome. It stops
// early when the context is cancelled.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	riders, err := r.populate()
	if err != nil {
		return Result{}, err
	}

	next := 0
	for i := 0; i < r.cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return r.result(i), ctx.Err()
		default:
		}

		// One new ride request per tick until every rider has one.
		if next < len(riders) {
			if _, err := r.eng.RequestRide(riders[next].ID); err != nil {
				return Result{}, fmt.Errorf("request ride for %s: %w", riders[next].ID, err)
			}
			next++
		}

		r.respondAll()
		tick := r.eng.AdvanceTick()
		if tick.CompletedRides > 0 {
			r.log.Debugf("tick %d: %d rides completed", tick.Tick, tick.CompletedRides)
		}
	}
	return r.result(r.cfg.Ticks), nil
}

func (r *Runner) populate() ([]model.Rider, error) {
	for i := 0; i < r.cfg.Drivers; i++ {
		if _, err := r.eng.CreateDriver(r.randomLocation()); err != nil {
			return nil, fmt.Errorf("create driver: %w", err)
		}
	}
	riders := make([]model.Rider, 0, r.cfg.Riders)
	for i := 0; i < r.cfg.Riders; i++ {
		pickup := r.randomLocation()
		dropoff := r.randomLocation()
		for dropoff == pickup {
			dropoff = r.randomLocation()
		}
		rider, err := r.eng.CreateRider(pickup, dropoff)
		if err != nil {
			return nil, fmt.Errorf("create rider: %w", err)
		}
		riders = append(riders, rider)
	}
	return riders, nil
}

// respondAll answers every ride currently awaiting a driver response.
// Rejections can reassign a ride within the same call, so freshly assigned
// rides are answered on the next tick.
func (r *Runner) respondAll() {
	for _, ride := range r.eng.Rides() {
		if ride.Status != model.RideAssigned {
			continue
		}
		accept := r.strategy.Accept(ride.AssignedDriverID, ride.ID)
		if _, err := r.eng.Respond(ride.ID, accept); err != nil {
			r.log.Warnf("respond to ride %s: %v", ride.ID, err)
		}
	}
}

func (r *Runner) randomLocation() model.Location {
	return model.Location{X: r.rng.Intn(r.cfg.GridSize), Y: r.rng.Intn(r.cfg.GridSize)}
}

func (r *Runner) result(ticks int) Result {
	snap := r.eng.State()
	return Result{
		Ticks:     ticks,
		Completed: snap.Stats.RidesByStatus[model.RideCompleted.String()],
		Failed:    snap.Stats.RidesByStatus[model.RideFailed.String()],
		Waiting:   snap.Stats.RidesByStatus[model.RideWaiting.String()],
		Snapshot:  snap,
	}
}
