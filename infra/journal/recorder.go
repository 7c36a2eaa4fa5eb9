package journal

import (
	"context"
	"time"

	"github.com/kmartel07/gridride/core/events"
	"github.com/kmartel07/gridride/infra/logger"
	"github.com/kmartel07/gridride/internal/eventbus"
)

// StartRecorder subscribes to the event bus and appends a journal record for
// every ride lifecycle event. It stops when the context is canceled.
func StartRecorder(ctx context.Context, bus eventbus.EventBus, store *JSONLStore, log logger.Logger) {
	if bus == nil || store == nil {
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
				rec, ok := toRecord(ev)
				if !ok {
					continue
				}
				if err := store.Append(ctx, rec); err != nil {
					log.Errorf("journal append: %v", err)
				}
			}
		}
	}()
}

func toRecord(ev eventbus.Event) (Record, bool) {
	now := time.Now()
	switch e := ev.(type) {
	case events.RideAssignedEvent:
		return Record{
			Timestamp:  now,
			Tick:       e.Tick,
			Event:      EventAssigned,
			RideID:     e.RideID,
			DriverID:   e.DriverID,
			Distance:   e.Distance,
			Reassigned: e.Reassigned,
		}, true
	case events.RideRespondedEvent:
		return Record{
			Timestamp: now,
			Tick:      e.Tick,
			Event:     EventResponded,
			RideID:    e.RideID,
			DriverID:  e.DriverID,
			Accepted:  e.Accepted,
		}, true
	case events.RideCompletedEvent:
		return Record{
			Timestamp: now,
			Tick:      e.Tick,
			Event:     EventCompleted,
			RideID:    e.RideID,
			DriverID:  e.DriverID,
		}, true
	case events.RideFailedEvent:
		return Record{Timestamp: now, Tick: e.Tick, Event: EventFailed, RideID: e.RideID}, true
	default:
		return Record{}, false
	}
}
