package dispatch

import (
	"testing"

	"github.com/kmartel07/gridride/core/model"
)

func TestSelectNearest(t *testing.T) {
	drivers := []model.Driver{
		{ID: "d1", Location: model.Location{X: 0, Y: 0}, Status: model.DriverAvailable},
		{ID: "d2", Location: model.Location{X: 5, Y: 5}, Status: model.DriverAvailable},
	}
	id, ok := NearestDispatcher{}.Select(drivers, model.Location{X: 5, Y: 6}, nil)
	if !ok || id != "d2" {
		t.Fatalf("expected d2 (distance 1 vs 11), got %q ok=%v", id, ok)
	}
}

func TestSelectTieBreaksOnLowestID(t *testing.T) {
	drivers := []model.Driver{
		{ID: "d9", Location: model.Location{X: 2, Y: 0}, Status: model.DriverAvailable},
		{ID: "d2", Location: model.Location{X: 0, Y: 2}, Status: model.DriverAvailable},
	}
	// Both are distance 2 from the pickup regardless of input order.
	for i := 0; i < 10; i++ {
		id, ok := NearestDispatcher{}.Select(drivers, model.Location{}, nil)
		if !ok || id != "d2" {
			t.Fatalf("expected d2 on tie, got %q", id)
		}
		drivers[0], drivers[1] = drivers[1], drivers[0]
	}
}

func TestSelectSkipsUnavailableAndExcluded(t *testing.T) {
	drivers := []model.Driver{
		{ID: "d1", Status: model.DriverOnTrip},
		{ID: "d2", Status: model.DriverOffline},
		{ID: "d3", Status: model.DriverAvailable},
		{ID: "d4", Status: model.DriverAvailable, Location: model.Location{X: 9, Y: 9}},
	}
	id, ok := NearestDispatcher{}.Select(drivers, model.Location{}, map[string]bool{"d3": true})
	if !ok || id != "d4" {
		t.Fatalf("expected d4, got %q ok=%v", id, ok)
	}
}

func TestSelectEmptyPool(t *testing.T) {
	if id, ok := (NearestDispatcher{}).Select(nil, model.Location{}, nil); ok {
		t.Fatalf("expected no driver, got %q", id)
	}
	busy := []model.Driver{{ID: "d1", Status: model.DriverEnRouteToPickup}}
	if id, ok := (NearestDispatcher{}).Select(busy, model.Location{}, nil); ok {
		t.Fatalf("expected no driver, got %q", id)
	}
}
