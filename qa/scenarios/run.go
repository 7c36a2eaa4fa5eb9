package scenarios

import (
	"fmt"
	"testing"

	"github.com/kmartel07/gridride/core/dispatch"
	"github.com/kmartel07/gridride/core/engine"
	"github.com/kmartel07/gridride/core/model"
	"github.com/kmartel07/gridride/infra/logger"
)

// RunScenario executes the scenario against a fresh engine and fails the
// test when the outcome differs from Expected.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()

	seq := 0
	eng, err := engine.New(sc.GridSize, dispatch.NearestDispatcher{}, logger.NopLogger{},
		engine.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("qa%04d", seq)
		}))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	for i, loc := range sc.Drivers {
		if _, err := eng.CreateDriver(loc.ToModel()); err != nil {
			t.Fatalf("create driver %d: %v", i, err)
		}
	}

	// rideByIndex maps a rider index to its ride id so scripted responses
	// can be matched back after requests are issued.
	rideByIndex := make(map[string]int, len(sc.Riders))
	decisions := make(map[string][]bool)
	for i, rd := range sc.Riders {
		rider, err := eng.CreateRider(rd.Pickup.ToModel(), rd.Dropoff.ToModel())
		if err != nil {
			t.Fatalf("create rider %d: %v", i, err)
		}
		ride, err := eng.RequestRide(rider.ID)
		if err != nil {
			t.Fatalf("request ride for rider %d: %v", i, err)
		}
		rideByIndex[ride.ID] = i
		if resp, ok := sc.Responses[i]; ok {
			decisions[ride.ID] = resp
		}
	}

	for tick := 0; tick < sc.Ticks; tick++ {
		for _, ride := range eng.Rides() {
			if ride.Status != model.RideAssigned {
				continue
			}
			accept := true
			if queue := decisions[ride.ID]; len(queue) > 0 {
				accept = queue[0]
				decisions[ride.ID] = queue[1:]
			}
			if _, err := eng.Respond(ride.ID, accept); err != nil {
				t.Fatalf("respond to ride %s: %v", ride.ID, err)
			}
		}
		eng.AdvanceTick()
	}

	snap := eng.State()
	got := Expected{
		Completed: snap.Stats.RidesByStatus[model.RideCompleted.String()],
		Failed:    snap.Stats.RidesByStatus[model.RideFailed.String()],
		Waiting:   snap.Stats.RidesByStatus[model.RideWaiting.String()],
	}
	if got != sc.Expected {
		t.Fatalf("scenario %q: got %+v, want %+v (ride index map %v)", sc.Name, got, sc.Expected, rideByIndex)
	}
}
