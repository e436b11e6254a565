package integrators

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRK4Vec3HarmonicOscillator(t *testing.T) {
	// y = (position, velocity, 0), y'' = -y
	deriv := func(_ float64, y mgl64.Vec3) mgl64.Vec3 {
		return mgl64.Vec3{y.Y(), -y.X(), 0}
	}

	y := mgl64.Vec3{1, 0, 0}
	dt := 0.01
	steps := 100
	for i := 0; i < steps; i++ {
		y = RK4Vec3(y, float64(i)*dt, dt, deriv)
	}

	elapsed := float64(steps) * dt
	if math.Abs(y.X()-math.Cos(elapsed)) > 1e-6 {
		t.Errorf("position error too large: got %.8f, expected %.8f", y.X(), math.Cos(elapsed))
	}
	if math.Abs(y.Y()+math.Sin(elapsed)) > 1e-6 {
		t.Errorf("velocity error too large: got %.8f, expected %.8f", y.Y(), -math.Sin(elapsed))
	}
}

func TestRK4ScalarExponentialDecay(t *testing.T) {
	deriv := func(_, y float64) float64 { return -y }

	y := 1.0
	dt := 0.01
	for i := 0; i < 100; i++ {
		y = RK4Scalar(y, float64(i)*dt, dt, deriv)
	}

	if math.Abs(y-math.Exp(-1)) > 1e-6 {
		t.Errorf("expected %.8f, got %.8f", math.Exp(-1), y)
	}
}

func TestEvaluateScalarRemainderStep(t *testing.T) {
	// dy/dt = 1 integrates exactly regardless of step partitioning.
	deriv := func(_, _ float64) float64 { return 1 }

	if got := EvaluateScalar(2.5, 0, 0, 1.0, deriv); math.Abs(got-2.5) > 1e-12 {
		t.Errorf("expected 2.5, got %.15f", got)
	}
	if got := EvaluateScalar(2.0, 0, 0, 1.0, deriv); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("expected 2.0, got %.15f", got)
	}
}

func TestEvaluateClampsBackwardTargets(t *testing.T) {
	deriv := func(_ float64, _ mgl64.Vec3) mgl64.Vec3 { return mgl64.Vec3{1, 0, 0} }

	y0 := mgl64.Vec3{3, 0, 0}
	got := EvaluateVec3(-5, y0, 0, 0.1, deriv)
	if got.Sub(y0).Len() > 1e-12 {
		t.Errorf("backward target should evaluate at start, got %v", got)
	}
}
