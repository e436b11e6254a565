package trace

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/relsim/internal/config"
	"github.com/san-kum/relsim/internal/metrics"
)

func restingScenario() *config.Config {
	return &config.Config{
		Name: "resting", TickRate: 20, Duration: 1, StartTime: 0,
		Entities: []config.EntityConfig{
			{Name: "ship", User: true},
			{Name: "beacon", Position: [4]float64{0, 0, -10, 0}},
		},
	}
}

func thrustScenario() *config.Config {
	cfg := restingScenario()
	cfg.Name = "thrust"
	cfg.Duration = 2
	cfg.Entities[0].Commands = []config.CommandConfig{
		{Time: 0, Accel: [3]float64{0.5, 0, 0}},
		{Time: 0.5, Accel: [3]float64{0.5, 0, 0}}, // identical, must be skipped
	}
	return cfg
}

func TestRunSampleCounts(t *testing.T) {
	tracer, err := New(restingScenario())
	if err != nil {
		t.Fatalf("tracer setup failed: %v", err)
	}

	result, err := tracer.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Times) != 20 {
		t.Errorf("expected 20 ticks, got %d", len(result.Times))
	}
	for _, name := range result.Names {
		if len(result.Samples[name]) != 20 {
			t.Errorf("entity %s has %d samples", name, len(result.Samples[name]))
		}
	}

	// a resting user advances coordinate time exactly at wall rate
	last := result.Times[len(result.Times)-1]
	if math.Abs(last-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %.12f", last)
	}
}

func TestScheduledThrustTakesEffect(t *testing.T) {
	tracer, err := New(thrustScenario())
	if err != nil {
		t.Fatalf("tracer setup failed: %v", err)
	}
	tracer.AddMetric(metrics.NewPeakSpeed())
	tracer.AddMetric(metrics.NewProperLag())

	result, err := tracer.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	samples := result.Samples["ship"]
	final := samples[len(samples)-1]
	if final.Frame.Velocity.Len() == 0 {
		t.Error("thrust command never took effect")
	}
	if final.Frame.Velocity.Len() >= 1 {
		t.Error("thrust broke the light-speed invariant")
	}

	if result.Metrics["peak_speed"] <= 0 {
		t.Errorf("expected positive peak speed, got %f", result.Metrics["peak_speed"])
	}
	if result.Metrics["proper_lag"] <= 0 {
		t.Errorf("accelerated clock should lag, got %f", result.Metrics["proper_lag"])
	}
}

func TestRedundantCommandSkipped(t *testing.T) {
	tracer, err := New(thrustScenario())
	if err != nil {
		t.Fatalf("tracer setup failed: %v", err)
	}
	if _, err := tracer.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// the second, identical command must not have landed as a keyframe:
	// aside from baked checkpoints at whole intervals, only the t=0
	// command event may carry the thrust
	ship := tracer.Universe().User().Worldline
	if ship.AtTime(0.5).Command() != ship.AtTime(0.25).Command() {
		t.Error("identical command changed the law of motion")
	}
}

func TestObserverCalledPerTick(t *testing.T) {
	tracer, err := New(restingScenario())
	if err != nil {
		t.Fatalf("tracer setup failed: %v", err)
	}

	ticks := 0
	tracer.AddObserver(observerFunc(func(float64) { ticks++ }))

	if _, err := tracer.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if ticks != 20 {
		t.Errorf("expected 20 observer calls, got %d", ticks)
	}
}

type observerFunc func(float64)

func (f observerFunc) OnTick(t float64) { f(t) }

func TestRunHonorsCancellation(t *testing.T) {
	tracer, err := New(restingScenario())
	if err != nil {
		t.Fatalf("tracer setup failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := tracer.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(result.Times) != 0 {
		t.Errorf("expected no completed ticks, got %d", len(result.Times))
	}
}

func TestInvalidScenarioRejected(t *testing.T) {
	cfg := restingScenario()
	cfg.Entities[0].User = false

	if _, err := New(cfg); !errors.Is(err, config.ErrNoUser) {
		t.Errorf("expected ErrNoUser, got %v", err)
	}
}
