package metrics

import (
	"testing"

	coremetrics "github.com/kmartel07/gridride/core/metrics"
)

type recordSink struct {
	assignments int
	outcomes    int
	ticks       int
}

func (r *recordSink) RecordAssignment(coremetrics.Assignment) error {
	r.assignments++
	return nil
}

func (r *recordSink) RecordRideOutcome(coremetrics.RideOutcome) error {
	r.outcomes++
	return nil
}

func (r *recordSink) RecordTick(coremetrics.TickSample) error {
	r.ticks++
	return nil
}

func TestMultiSinkForwardsToAll(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordAssignment(coremetrics.Assignment{}); err != nil {
		t.Fatalf("record assignment: %v", err)
	}
	if err := m.RecordRideOutcome(coremetrics.RideOutcome{}); err != nil {
		t.Fatalf("record outcome: %v", err)
	}
	if err := m.RecordTick(coremetrics.TickSample{}); err != nil {
		t.Fatalf("record tick: %v", err)
	}
	for i, s := range []*recordSink{s1, s2} {
		if s.assignments != 1 || s.outcomes != 1 || s.ticks != 1 {
			t.Fatalf("sink %d missed records: %+v", i, s)
		}
	}
}

func TestMultiSinkSkipsUnsupportedRecorders(t *testing.T) {
	m := NewMultiSink(coremetrics.NopSink{})
	if err := m.RecordRideOutcome(coremetrics.RideOutcome{}); err != nil {
		t.Fatalf("outcome on plain sink: %v", err)
	}
	if err := m.RecordTick(coremetrics.TickSample{}); err != nil {
		t.Fatalf("tick on plain sink: %v", err)
	}
	if err := m.RecordFleetSize(1); err != nil {
		t.Fatalf("fleet size on plain sink: %v", err)
	}
}
