package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kmartel07/gridride/core/logger"
	coremetrics "github.com/kmartel07/gridride/core/metrics"
	infralogger "github.com/kmartel07/gridride/infra/logger"
)

// InfluxSink writes simulation events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      infralogger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a missing database never blocks
// the simulation.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordAssignment writes the assignment as a line-protocol point.
func (s *InfluxSink) RecordAssignment(rec coremetrics.Assignment) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("dispatch_assignment").
		AddTag("driver_id", rec.DriverID).
		AddTag("reassigned", strconv.FormatBool(rec.Reassigned)).
		AddField("ride_id", rec.RideID).
		AddField("distance", rec.Distance).
		AddField("tick", rec.Tick).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRideOutcome writes the terminal ride transition.
func (s *InfluxSink) RecordRideOutcome(rec coremetrics.RideOutcome) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("ride_outcome").
		AddTag("status", rec.Status).
		AddTag("driver_id", rec.DriverID).
		AddField("ride_id", rec.RideID).
		AddField("tick", rec.Tick).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordTick writes one point per tick advancement.
func (s *InfluxSink) RecordTick(rec coremetrics.TickSample) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("simulation_tick").
		AddField("tick", rec.Tick).
		AddField("moved_drivers", rec.MovedDrivers).
		AddField("completed_rides", rec.CompletedRides).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
