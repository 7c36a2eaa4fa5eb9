// Package metrics declares the sink contracts used to observe a simulation.
// Concrete sinks (Prometheus, InfluxDB) live in infra/metrics; the core only
// depends on these interfaces.
package metrics

// Assignment records one driver-to-ride binding produced by dispatch.
type Assignment struct {
	RideID     string
	DriverID   string
	Distance   int
	Tick       int
	Reassigned bool
}

// MetricsSink records dispatch assignments for observability purposes.
type MetricsSink interface {
	RecordAssignment(rec Assignment) error
}

// RideOutcome captures a terminal ride transition.
type RideOutcome struct {
	RideID   string
	DriverID string
	Status   string // "completed" or "failed"
	Tick     int
}

// RideOutcomeRecorder records terminal ride transitions when supported.
type RideOutcomeRecorder interface {
	RecordRideOutcome(rec RideOutcome) error
}

// TickSample captures the result of one tick advancement.
type TickSample struct {
	Tick           int
	MovedDrivers   int
	CompletedRides int
}

// TickRecorder records tick samples when supported.
type TickRecorder interface {
	RecordTick(rec TickSample) error
}

// FleetSizeRecorder records the current number of drivers when supported.
type FleetSizeRecorder interface {
	RecordFleetSize(size int) error
}

// NopSink discards all records. It is the default when no sink is configured.
type NopSink struct{}

// RecordAssignment implements MetricsSink.
func (NopSink) RecordAssignment(Assignment) error { return nil }
