package relativity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxSpeed is the largest coordinate speed any frame is allowed to carry,
// in units where the speed of light is 1. Integration steps clamp to it so
// LorentzFactor stays finite everywhere downstream.
const MaxSpeed = 0.99999999999

// LorentzFactor computes the gamma (time dilation / length contraction)
// factor for a 3-velocity. Callers must keep |v| < 1.
func LorentzFactor(v mgl64.Vec3) float64 {
	return 1 / math.Sqrt(1-v.LenSqr())
}

// LorentzBoost builds the transform into the reference frame moving with
// the given 3-velocity. A spacetime vector expressed in a stationary basis
// maps to the same vector in the moving frame's basis. Boosting by the
// negated velocity inverts the transform.
func LorentzBoost(v mgl64.Vec3) mgl64.Mat4 {
	speed2 := v.LenSqr()
	if speed2 == 0 || math.Nextafter(speed2, 0) == 0 {
		return mgl64.Ident4()
	}

	gamma := LorentzFactor(v)

	// spatial block I + (gamma-1) * v v^T / |v|^2, time row/column -gamma*v
	k := (gamma - 1) / speed2
	return mgl64.Mat4FromCols(
		mgl64.Vec4{1 + k*v.X()*v.X(), k*v.Y()*v.X(), k*v.Z()*v.X(), -gamma * v.X()},
		mgl64.Vec4{k*v.X()*v.Y(), 1 + k*v.Y()*v.Y(), k*v.Z()*v.Y(), -gamma * v.Y()},
		mgl64.Vec4{k*v.X()*v.Z(), k*v.Y()*v.Z(), 1 + k*v.Z()*v.Z(), -gamma * v.Z()},
		mgl64.Vec4{-gamma * v.X(), -gamma * v.Y(), -gamma * v.Z(), gamma},
	)
}

// Velocity3To4 converts a 3-velocity into its corresponding 4-velocity
// gamma*(v, 1).
func Velocity3To4(v mgl64.Vec3) mgl64.Vec4 {
	return v.Vec4(1).Mul(LorentzFactor(v))
}

// Velocity4To3 converts a 4-velocity back into its 3-velocity.
func Velocity4To3(u mgl64.Vec4) mgl64.Vec3 {
	return u.Vec3().Mul(1 / u.W())
}

// Transform3Velocity applies a spacetime transform to a 3-velocity by
// round-tripping through the 4-velocity representation.
func Transform3Velocity(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec3 {
	return Velocity4To3(m.Mul4x1(Velocity3To4(v)))
}

// AddVelocities performs relativistic velocity addition. The result never
// reaches the speed of light for sub-light inputs.
func AddVelocities(a, b mgl64.Vec3) mgl64.Vec3 {
	return Transform3Velocity(LorentzBoost(a.Mul(-1)), b)
}

// Velocity3ToProper converts a 3-velocity to the corresponding proper
// velocity (displacement per moving-clock second).
func Velocity3ToProper(v mgl64.Vec3) mgl64.Vec3 {
	return v.Mul(LorentzFactor(v))
}

// VelocityProperTo3 converts a nonzero proper velocity back to its
// 3-velocity.
func VelocityProperTo3(p mgl64.Vec3) mgl64.Vec3 {
	return p.Normalize().Mul(1 / math.Sqrt(1+1/p.LenSqr()))
}

// Velocity4ToProper converts a 4-velocity to the corresponding proper
// velocity.
func Velocity4ToProper(u mgl64.Vec4) mgl64.Vec3 {
	return Velocity3ToProper(Velocity4To3(u))
}

// VelocityProperTo4 converts a proper velocity to the corresponding
// 4-velocity.
func VelocityProperTo4(p mgl64.Vec3) mgl64.Vec4 {
	return Velocity3To4(VelocityProperTo3(p))
}

// ConstAccelProperTime returns the proper time elapsed for an object
// accelerating from rest at properAccel after restTime of coordinate time.
func ConstAccelProperTime(properAccel, restTime float64) float64 {
	at := properAccel * restTime
	return math.Log(math.Sqrt(1+at*at)+at) / properAccel
}

// ConstAccelDisplacement returns the distance covered from rest under
// constant proper acceleration after restTime of coordinate time.
func ConstAccelDisplacement(properAccel, restTime float64) float64 {
	at := properAccel * restTime
	return (math.Sqrt(1+at*at) - 1) / properAccel
}
