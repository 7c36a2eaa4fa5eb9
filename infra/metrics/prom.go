package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kmartel07/gridride/core/metrics"
)

// PromSink records simulation events in Prometheus metrics.
type PromSink struct {
	assignments *prometheus.CounterVec
	outcomes    *prometheus.CounterVec
	tick        prometheus.Gauge
	moved       prometheus.Counter
	fleet       prometheus.Gauge
}

// NewPromSink registers simulation metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_assignments_total",
		Help: "Total number of driver assignments produced by dispatch",
	}, []string{"reassigned"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rides_terminal_total",
		Help: "Total number of rides reaching a terminal status",
	}, []string{"status"})
	tick := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "simulation_tick",
		Help: "Current simulation tick counter",
	})
	moved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "driver_steps_total",
		Help: "Total grid steps taken by drivers across all ticks",
	})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_drivers_total",
		Help: "Number of drivers currently registered",
	})

	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(outcomes); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			outcomes = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(tick); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			tick = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(moved); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			moved = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fleet); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fleet = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{assignments: assignments, outcomes: outcomes, tick: tick, moved: moved, fleet: fleet}, nil
}

// RecordAssignment increments the assignment counter.
func (s *PromSink) RecordAssignment(rec coremetrics.Assignment) error {
	s.assignments.WithLabelValues(strconv.FormatBool(rec.Reassigned)).Inc()
	return nil
}

// RecordRideOutcome increments the terminal-status counter.
func (s *PromSink) RecordRideOutcome(rec coremetrics.RideOutcome) error {
	s.outcomes.WithLabelValues(rec.Status).Inc()
	return nil
}

// RecordTick updates the tick gauge and the step counter.
func (s *PromSink) RecordTick(rec coremetrics.TickSample) error {
	s.tick.Set(float64(rec.Tick))
	s.moved.Add(float64(rec.MovedDrivers))
	return nil
}

// RecordFleetSize sets the fleet gauge.
func (s *PromSink) RecordFleetSize(size int) error {
	s.fleet.Set(float64(size))
	return nil
}
