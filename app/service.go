// Package app assembles the simulation engine, metrics sinks and HTTP API
// from a configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kmartel07/gridride/api"
	"github.com/kmartel07/gridride/config"
	"github.com/kmartel07/gridride/core/dispatch"
	"github.com/kmartel07/gridride/core/engine"
	coremetrics "github.com/kmartel07/gridride/core/metrics"
	"github.com/kmartel07/gridride/infra/journal"
	"github.com/kmartel07/gridride/infra/logger"
	"github.com/kmartel07/gridride/infra/metrics"
	"github.com/kmartel07/gridride/internal/eventbus"
)

// Service orchestrates the engine, the HTTP API and the metrics pipeline.
type Service struct {
	Engine      *engine.Engine
	addr        string
	bus         eventbus.EventBus
	sink        coremetrics.MetricsSink
	journal     *journal.JSONLStore
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL,
			cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var store *journal.JSONLStore
	if cfg.Journal.Enabled {
		var err error
		store, err = journal.NewJSONLStore(cfg.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("journal: %w", err)
		}
	}

	bus := eventbus.New()
	eng, err := engine.New(cfg.Grid.Size, dispatch.NearestDispatcher{}, logger.New("engine"),
		engine.WithMetricsSink(sink),
		engine.WithEventBus(bus),
	)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	return &Service{
		Engine:      eng,
		addr:        cfg.Server.Addr,
		bus:         bus,
		sink:        sink,
		journal:     store,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Run starts the HTTP API and blocks until the context is cancelled or the
// server fails.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.journal != nil {
		journal.StartRecorder(ctx, s.bus, s.journal, s.log)
	}

	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           api.NewServer(s.Engine, logger.New("api")).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}
