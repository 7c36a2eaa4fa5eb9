package metrics

import (
	"context"

	"github.com/kmartel07/gridride/core/events"
	coremetrics "github.com/kmartel07/gridride/core/metrics"
	"github.com/kmartel07/gridride/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// simulation events. It stops when the context is canceled. This keeps the
// engine unaware of which sinks exist beyond its primary one.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.RideCompletedEvent:
					if r, ok := sink.(coremetrics.RideOutcomeRecorder); ok {
						_ = r.RecordRideOutcome(coremetrics.RideOutcome{
							RideID:   e.RideID,
							DriverID: e.DriverID,
							Status:   "completed",
							Tick:     e.Tick,
						})
					}
				case events.RideFailedEvent:
					if r, ok := sink.(coremetrics.RideOutcomeRecorder); ok {
						_ = r.RecordRideOutcome(coremetrics.RideOutcome{RideID: e.RideID, Status: "failed", Tick: e.Tick})
					}
				case events.TickAdvancedEvent:
					if r, ok := sink.(coremetrics.TickRecorder); ok {
						_ = r.RecordTick(coremetrics.TickSample{
							Tick:           e.Tick,
							MovedDrivers:   e.MovedDrivers,
							CompletedRides: e.CompletedRides,
						})
					}
				}
			}
		}
	}()
}
