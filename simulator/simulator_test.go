package simulator

import (
	"context"
	"testing"

	"github.com/kmartel07/gridride/core/model"
	"github.com/kmartel07/gridride/infra/logger"
)

func TestRunCompletesAllRides(t *testing.T) {
	cfg := Config{
		Seed:       42,
		GridSize:   10,
		Drivers:    3,
		Riders:     5,
		Ticks:      200,
		AcceptRate: 1,
	}
	r, err := New(cfg, logger.NopLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Completed != 5 {
		t.Fatalf("completed = %d, want 5; result %+v", res.Completed, res)
	}
	if res.Failed != 0 || res.Waiting != 0 {
		t.Fatalf("failed = %d waiting = %d, want 0/0", res.Failed, res.Waiting)
	}
	if res.Snapshot.Tick != 200 {
		t.Fatalf("tick = %d, want 200", res.Snapshot.Tick)
	}
	for _, d := range r.Engine().Drivers() {
		if d.Status != model.DriverAvailable {
			t.Fatalf("driver %s still busy after run: %s", d.ID, d.Status)
		}
	}
}

func TestRunIsReproducible(t *testing.T) {
	cfg := Config{Seed: 7, GridSize: 20, Drivers: 4, Riders: 8, Ticks: 150, AcceptRate: 0.8}

	run := func() Result {
		r, err := New(cfg, logger.NopLogger{})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		res, err := r.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res
	}

	a, b := run(), run()
	if a.Completed != b.Completed || a.Failed != b.Failed || a.Waiting != b.Waiting {
		t.Fatalf("runs diverged: %+v vs %+v", a, b)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	r, err := New(Config{Seed: 1, GridSize: 10, Drivers: 2, Riders: 2, Ticks: 100, AcceptRate: 1},
		logger.NopLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Run(ctx); err == nil {
		t.Fatal("expected context error from cancelled run")
	}
}

func TestConfigValidation(t *testing.T) {
	if _, err := New(Config{GridSize: -1}, logger.NopLogger{}); err == nil {
		t.Fatal("expected error for negative grid size")
	}
	if err := (Config{GridSize: 10, AcceptRate: 1.5}).Validate(); err == nil {
		t.Fatal("expected error for accept rate above 1")
	}
}

func TestRandomResponder(t *testing.T) {
	never := NewRandomResponder(0, 1)
	always := NewRandomResponder(1, 1)
	for i := 0; i < 100; i++ {
		if never.Accept("d", "r") {
			t.Fatal("rate 0 responder accepted")
		}
		if !always.Accept("d", "r") {
			t.Fatal("rate 1 responder rejected")
		}
	}

	a := NewRandomResponder(0.5, 99)
	b := NewRandomResponder(0.5, 99)
	for i := 0; i < 100; i++ {
		if a.Accept("d", "r") != b.Accept("d", "r") {
			t.Fatal("same seed produced different decisions")
		}
	}
}
