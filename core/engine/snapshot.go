package engine

import "github.com/kmartel07/gridride/core/model"

// Stats aggregates entity counts by status for the state endpoint.
type Stats struct {
	DriversByStatus map[string]int `json:"drivers_by_status"`
	RidesByStatus   map[string]int `json:"rides_by_status"`
}

// Snapshot is a consistent view of the whole simulation, taken under the
// engine's serialization point.
type Snapshot struct {
	Tick     int                 `json:"tick"`
	GridSize int                 `json:"grid_size"`
	Drivers  []model.Driver      `json:"drivers"`
	Riders   []model.Rider       `json:"riders"`
	Rides    []model.RideRequest `json:"rides"`
	Stats    Stats               `json:"statistics"`
}

// State returns a snapshot of all entities, the tick counter and aggregate
// statistics.
func (e *Engine) State() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Tick:     e.store.Tick(),
		GridSize: e.gridSize,
		Drivers:  e.store.Drivers(),
		Riders:   e.store.Riders(),
		Rides:    e.store.Rides(),
		Stats: Stats{
			DriversByStatus: make(map[string]int),
			RidesByStatus:   make(map[string]int),
		},
	}
	for _, d := range snap.Drivers {
		snap.Stats.DriversByStatus[d.Status.String()]++
	}
	for _, r := range snap.Rides {
		snap.Stats.RidesByStatus[r.Status.String()]++
	}
	return snap
}
