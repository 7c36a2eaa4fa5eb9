package metrics

import coremetrics "github.com/kmartel07/gridride/core/metrics"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAssignment forwards the record to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordAssignment(rec coremetrics.Assignment) error {
	for _, s := range m.Sinks {
		if err := s.RecordAssignment(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordRideOutcome forwards terminal transitions to sinks that support them.
func (m *MultiSink) RecordRideOutcome(rec coremetrics.RideOutcome) error {
	for _, s := range m.Sinks {
		if r, ok := s.(coremetrics.RideOutcomeRecorder); ok {
			if err := r.RecordRideOutcome(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordTick forwards tick samples to sinks that support them.
func (m *MultiSink) RecordTick(rec coremetrics.TickSample) error {
	for _, s := range m.Sinks {
		if r, ok := s.(coremetrics.TickRecorder); ok {
			if err := r.RecordTick(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFleetSize forwards fleet size metrics to sinks that support them.
func (m *MultiSink) RecordFleetSize(size int) error {
	for _, s := range m.Sinks {
		if r, ok := s.(coremetrics.FleetSizeRecorder); ok {
			if err := r.RecordFleetSize(size); err != nil {
				return err
			}
		}
	}
	return nil
}
