package relativity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/relsim/internal/integrators"
)

// InertialFrame is a snapshot of position and velocity in the shared
// coordinate basis. Position is a 4-vector (x, y, z, t); velocity is a
// coordinate 3-velocity with the speed of light at 1.
type InertialFrame struct {
	Position mgl64.Vec4
	Velocity mgl64.Vec3
}

// RelativeTo expresses this frame's position and velocity in another
// frame's rest basis.
func (f InertialFrame) RelativeTo(other InertialFrame) InertialFrame {
	boost := LorentzBoost(other.Velocity)
	return InertialFrame{
		Position: boost.Mul4x1(f.Position.Sub(other.Position)),
		Velocity: Transform3Velocity(boost, f.Velocity),
	}
}

// Predict extrapolates the frame along constant velocity for dt of
// coordinate time.
func (f InertialFrame) Predict(dt float64) InertialFrame {
	f.Position = f.Position.Add(f.Velocity.Vec4(1).Mul(dt))
	return f
}

// Step advances the frame through dt of coordinate time under a constant
// proper acceleration, using fourth-order Runge-Kutta. An arbitrarily
// oriented proper acceleration on a frame with nonzero starting velocity
// has no closed-form path, so velocity, position, and proper time are each
// integrated numerically; smaller dt values are more precise.
//
// Returns the proper time elapsed during the step. Velocity is clamped to
// MaxSpeed afterwards.
func (f *InertialFrame) Step(dt float64, properAccel mgl64.Vec3) float64 {
	boost := LorentzBoost(f.Velocity.Mul(-1))
	old := f.Velocity

	accel4 := boost.Mul4x1(properAccel.Vec4(0))
	deriv := func(t float64, v mgl64.Vec3) mgl64.Vec3 {
		return accel4.Vec3().Sub(v.Mul(accel4.W())).Mul(1 - v.LenSqr())
	}

	f.Velocity = integrators.RK4Vec3(f.Velocity, 0, dt, deriv)
	if f.Velocity.LenSqr() > MaxSpeed*MaxSpeed {
		f.Velocity = f.Velocity.Normalize().Mul(MaxSpeed)
	}

	// Position re-integrates the velocity trajectory from the step's start
	// instead of sharing state with the velocity update, which keeps the
	// two integrations from compounding each other's truncation error.
	spatial := integrators.RK4Vec3(f.Position.Vec3(), 0, dt, func(t float64, _ mgl64.Vec3) mgl64.Vec3 {
		return integrators.RK4Vec3(old, 0, t, deriv)
	})
	f.Position = spatial.Vec4(f.Position.W() + dt)

	return integrators.RK4Scalar(0, 0, dt, func(t, _ float64) float64 {
		return 1 / LorentzFactor(integrators.RK4Vec3(old, 0, t, deriv))
	})
}
