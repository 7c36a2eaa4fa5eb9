// Package dispatch implements driver selection for ride requests.
package dispatch

import "github.com/kmartel07/gridride/core/model"

// Dispatcher chooses a driver for a pickup location. Implementations must be
// deterministic: given the same candidates and exclusions they return the
// same driver.
type Dispatcher interface {
	// Select returns the chosen driver id, or ok=false when no candidate
	// qualifies. Running out of drivers is a normal outcome, not an error.
	Select(drivers []model.Driver, pickup model.Location, exclude map[string]bool) (string, bool)
}

// NearestDispatcher selects the available driver with the smallest Manhattan
// distance to the pickup, ties broken by lowest driver id so that repeated
// runs over the same fleet are reproducible.
type NearestDispatcher struct{}

// Select implements Dispatcher.
func (NearestDispatcher) Select(drivers []model.Driver, pickup model.Location, exclude map[string]bool) (string, bool) {
	bestID := ""
	bestDist := 0
	for _, d := range drivers {
		if d.Status != model.DriverAvailable || exclude[d.ID] {
			continue
		}
		dist := model.Distance(d.Location, pickup)
		if bestID == "" || dist < bestDist || (dist == bestDist && d.ID < bestID) {
			bestID = d.ID
			bestDist = dist
		}
	}
	return bestID, bestID != ""
}
