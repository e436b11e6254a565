package integrators

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DerivVec3 is the right-hand side of a first-order ODE over a 3-vector state.
type DerivVec3 func(t float64, y mgl64.Vec3) mgl64.Vec3

// DerivScalar is the right-hand side of a first-order ODE over a scalar state.
type DerivScalar func(t, y float64) float64

// RK4Vec3 advances y by one classical fourth-order Runge-Kutta step of size dt.
func RK4Vec3(y mgl64.Vec3, t, dt float64, f DerivVec3) mgl64.Vec3 {
	k1 := f(t, y)
	k2 := f(t+dt/2, y.Add(k1.Mul(dt/2)))
	k3 := f(t+dt/2, y.Add(k2.Mul(dt/2)))
	k4 := f(t+dt, y.Add(k3.Mul(dt)))

	sum := k1.Add(k2.Mul(2)).Add(k3.Mul(2)).Add(k4)
	return y.Add(sum.Mul(dt / 6))
}

// RK4Scalar advances y by one classical fourth-order Runge-Kutta step of size dt.
func RK4Scalar(y, t, dt float64, f DerivScalar) float64 {
	k1 := f(t, y)
	k2 := f(t+dt/2, y+k1*dt/2)
	k3 := f(t+dt/2, y+k2*dt/2)
	k4 := f(t+dt, y+k3*dt)

	return y + (k1+2*k2+2*k3+k4)*dt/6
}

// EvaluateVec3 integrates y from t0 to target in fixed steps of at most
// stepSize, finishing with a remainder step so the endpoint lands exactly
// on target. Targets before t0 evaluate at t0.
func EvaluateVec3(target float64, y mgl64.Vec3, t0, stepSize float64, f DerivVec3) mgl64.Vec3 {
	if target < t0 {
		target = t0
	}

	steps := int((target-t0)/stepSize) + 1
	t := t0
	h := stepSize
	for i := 0; i < steps; i++ {
		if i == steps-1 {
			h = math.Mod(target-t0, h)
		}
		y = RK4Vec3(y, t, h, f)
		t += h
	}
	return y
}

// EvaluateScalar is EvaluateVec3 for a scalar state.
func EvaluateScalar(target, y, t0, stepSize float64, f DerivScalar) float64 {
	if target < t0 {
		target = t0
	}

	steps := int((target-t0)/stepSize) + 1
	t := t0
	h := stepSize
	for i := 0; i < steps; i++ {
		if i == steps-1 {
			h = math.Mod(target-t0, h)
		}
		y = RK4Scalar(y, t, h, f)
		t += h
	}
	return y
}
