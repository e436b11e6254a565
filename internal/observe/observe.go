// Package observe answers what a worldline looks like from an observer's
// frame "now", accounting for the finite speed of light.
package observe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/relsim/internal/relativity"
	"github.com/san-kum/relsim/internal/worldline"
)

const (
	maxIterations = 30
	tolerance     = 0.001
)

// Observed finds the emission event on w whose light reaches the observer
// exactly at universe time now: the event satisfies
// now - t_emit = |x_emit - x_obs|.
//
// The equation has no closed-form derivative, so it is solved with a
// damped Newton iteration: the first step estimates the slope from the
// relative Lorentz factor between target and observer, later steps use a
// secant update from the previous residual. After maxIterations the best
// estimate is accepted as-is; the result feeds rendering, never physics
// state.
func Observed(w *worldline.Worldline, now float64, observer relativity.InertialFrame) worldline.Event {
	est := w.AtTime(now)

	var prevOffset, prevChange float64
	havePrev := false

	for i := 0; i < maxIterations; i++ {
		rel := est.Frame.RelativeTo(observer)
		relGamma := relativity.LorentzFactor(rel.Velocity)

		travel := est.Frame.Position.Sub(observer.Position).Vec3().Len()
		delay := now - est.Frame.Position.W()
		offset := delay - travel

		var change float64
		if havePrev {
			derivative := (prevOffset - offset) / prevChange
			change = offset / derivative
		} else {
			change = offset / relGamma
		}

		prevOffset = offset
		prevChange = change
		havePrev = true

		if math.Abs(offset) < tolerance {
			break
		}

		est = w.AtTime(est.Frame.Position.W() + change)
	}

	return est
}

// ContractionMatrix builds the per-axis length-contraction scale for a
// relative 3-velocity, as measured along each coordinate axis of the
// observer's basis.
func ContractionMatrix(relVelocity mgl64.Vec3) mgl64.Mat4 {
	boost := relativity.LorentzBoost(relVelocity)
	return mgl64.Scale3D(
		1/boost.Mul4x1(mgl64.Vec4{1, 0, 0, 0}).X(),
		1/boost.Mul4x1(mgl64.Vec4{0, 1, 0, 0}).Y(),
		1/boost.Mul4x1(mgl64.Vec4{0, 0, 1, 0}).Z(),
	)
}

// Apparent is the light-delayed view of a target from an observer's frame.
type Apparent struct {
	// Event is the resolved emission event on the target's worldline.
	Event worldline.Event
	// Relative is the emission frame expressed in the observer's basis.
	Relative relativity.InertialFrame
	// ModelMatrix places and contracts the target's static model in the
	// observer's basis.
	ModelMatrix mgl64.Mat4
}

// View resolves the apparent state of a target worldline for an observer
// at universe time now. static is the target's own model transform.
func View(w *worldline.Worldline, now float64, observer relativity.InertialFrame, static mgl64.Mat4) Apparent {
	ev := Observed(w, now, observer)
	rel := ev.Frame.RelativeTo(observer)

	model := mgl64.Translate3D(rel.Position.X(), rel.Position.Y(), rel.Position.Z()).
		Mul4(ContractionMatrix(rel.Velocity)).
		Mul4(static)

	return Apparent{Event: ev, Relative: rel, ModelMatrix: model}
}
