package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kmartel07/gridride/core/metrics"
)

func TestPromSink_RecordAssignment(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	rec := coremetrics.Assignment{RideID: "ride1", DriverID: "drv1", Distance: 3, Tick: 2}
	if err := sink.RecordAssignment(rec); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP dispatch_assignments_total Total number of driver assignments produced by dispatch
# TYPE dispatch_assignments_total counter
dispatch_assignments_total{reassigned="false"} 1
`
	if err := testutil.CollectAndCompare(sink.assignments, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestPromSink_TickAndFleet(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	if err := sink.RecordTick(coremetrics.TickSample{Tick: 7, MovedDrivers: 3, CompletedRides: 1}); err != nil {
		t.Fatalf("tick error: %v", err)
	}
	if got := testutil.ToFloat64(sink.tick); got != 7 {
		t.Errorf("tick gauge = %v, want 7", got)
	}
	if got := testutil.ToFloat64(sink.moved); got != 3 {
		t.Errorf("steps counter = %v, want 3", got)
	}
	if err := sink.RecordFleetSize(42); err != nil {
		t.Fatalf("fleet size error: %v", err)
	}
	if got := testutil.ToFloat64(sink.fleet); got != 42 {
		t.Errorf("fleet gauge = %v, want 42", got)
	}
}

func TestPromSink_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration should reuse collectors: %v", err)
	}
}
