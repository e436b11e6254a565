package worldline

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/onsi/gomega"

	"github.com/san-kum/relsim/internal/relativity"
)

func restAtOrigin() relativity.InertialFrame {
	return relativity.InertialFrame{}
}

func TestInertialSeedQuery(t *testing.T) {
	w := New(restAtOrigin())

	ev := w.AtTime(10)
	want := mgl64.Vec4{0, 0, 0, 10}
	if ev.Frame.Position.Sub(want).Len() > 1e-12 {
		t.Errorf("expected position %v, got %v", want, ev.Frame.Position)
	}
	if math.Abs(ev.ProperTime-10) > 1e-12 {
		t.Errorf("resting clock should match coordinate time, got %f", ev.ProperTime)
	}
	if ev.Kind != Inertial {
		t.Errorf("expected inertial kind, got %v", ev.Kind)
	}
}

func TestBackwardExtrapolation(t *testing.T) {
	w := New(relativity.InertialFrame{Velocity: mgl64.Vec3{0.5, 0, 0}})

	ev := w.AtTime(-10)
	if math.Abs(ev.Frame.Position.X()+5) > 1e-12 {
		t.Errorf("expected x = -5, got %f", ev.Frame.Position.X())
	}
	if math.Abs(ev.Frame.Position.W()+10) > 1e-12 {
		t.Errorf("expected t = -10, got %f", ev.Frame.Position.W())
	}
	if ev.ProperTime >= 0 {
		t.Errorf("proper time before the seed should be negative, got %f", ev.ProperTime)
	}
}

func TestAccelerationMonotonicSubLight(t *testing.T) {
	w := New(restAtOrigin())
	w.InsertEvent(0, Thrust(mgl64.Vec3{1, 0, 0}))

	prevSpeed := 0.0
	for _, coordTime := range []float64{1, 2, 4, 6, 8, 10} {
		ev := w.AtTime(coordTime)
		speed := ev.Frame.Velocity.Len()

		if speed <= prevSpeed {
			t.Errorf("speed not increasing at t=%v: %.9f <= %.9f", coordTime, speed, prevSpeed)
		}
		if speed >= 1 {
			t.Errorf("speed at t=%v reached light speed: %.12f", coordTime, speed)
		}
		if ev.ProperTime >= coordTime {
			t.Errorf("proper time %.6f should lag coordinate time %.6f", ev.ProperTime, coordTime)
		}
		prevSpeed = speed
	}
}

func TestInsertPreservesPast(t *testing.T) {
	g := gomega.NewWithT(t)

	w := New(restAtOrigin())
	w.InsertEvent(5, Thrust(mgl64.Vec3{0.5, 0, 0}))

	before := w.AtTime(4.9)
	w.InsertEvent(7, Coast())
	after := w.AtTime(4.9)

	g.Expect(after.Frame.Position).To(gomega.Equal(before.Frame.Position))
	g.Expect(after.Frame.Velocity).To(gomega.Equal(before.Frame.Velocity))
	g.Expect(after.ProperTime).To(gomega.Equal(before.ProperTime))
}

func TestInsertOverwritesFuture(t *testing.T) {
	w := New(restAtOrigin())
	w.InsertEvent(5, Thrust(mgl64.Vec3{0.5, 0, 0}))
	w.InsertEvent(7, Coast())

	// after the coast command, velocity must stay constant
	v1 := w.AtTime(7.5).Frame.Velocity
	v2 := w.AtTime(9).Frame.Velocity
	if v1.Sub(v2).Len() > 1e-12 {
		t.Errorf("velocity changed while coasting: %v vs %v", v1, v2)
	}
	if v1.Len() == 0 {
		t.Error("coast command erased the accumulated velocity")
	}
}

func TestInsertTruncatesTrailingEvents(t *testing.T) {
	w := New(restAtOrigin())
	w.InsertEvent(5, Thrust(mgl64.Vec3{1, 0, 0}))
	w.Bake(20)
	baked := w.Len()

	w.InsertEvent(6, Coast())
	if w.Len() >= baked {
		t.Errorf("expected truncation below %d events, got %d", baked, w.Len())
	}
	if last := w.Last(); math.Abs(last.Frame.Position.W()-6) > 1e-9 {
		t.Errorf("expected last event at t=6, got %f", last.Frame.Position.W())
	}
}

func TestBakeInvariant(t *testing.T) {
	g := gomega.NewWithT(t)

	fresh := New(restAtOrigin())
	fresh.InsertEvent(0, Thrust(mgl64.Vec3{0.3, 0, 0.1}))

	baked := New(restAtOrigin())
	baked.InsertEvent(0, Thrust(mgl64.Vec3{0.3, 0, 0.1}))
	baked.Bake(10)

	// denser manual checkpoints at half the bake interval
	dense := New(restAtOrigin())
	dense.InsertEvent(0, Thrust(mgl64.Vec3{0.3, 0, 0.1}))
	for bakeTime := 0.5; bakeTime < 10; bakeTime += 0.5 {
		dense.InsertEvent(bakeTime, dense.Last().Command())
	}

	for _, coordTime := range []float64{2.5, 7.25, 9.9} {
		want := fresh.AtTime(coordTime)
		for _, w := range []*Worldline{baked, dense} {
			got := w.AtTime(coordTime)
			g.Expect(got.Frame.Position.X()).To(gomega.BeNumerically("~", want.Frame.Position.X(), 1e-7))
			g.Expect(got.Frame.Position.Z()).To(gomega.BeNumerically("~", want.Frame.Position.Z(), 1e-7))
			g.Expect(got.Frame.Velocity.X()).To(gomega.BeNumerically("~", want.Frame.Velocity.X(), 1e-7))
			g.Expect(got.ProperTime).To(gomega.BeNumerically("~", want.ProperTime, 1e-7))
		}
	}
}

func TestBakeNoopCases(t *testing.T) {
	w := New(restAtOrigin())
	w.InsertEvent(10, Coast())
	stored := w.Len()

	// inside an already-defined bracket
	w.Bake(5)
	if w.Len() != stored {
		t.Errorf("bake inside bracket added events: %d -> %d", stored, w.Len())
	}

	// trailing inertial motion needs no checkpoints
	w.Bake(1e6)
	if w.Len() != stored {
		t.Errorf("bake over inertial tail added events: %d -> %d", stored, w.Len())
	}
}

func TestBakeLaysCheckpoints(t *testing.T) {
	w := New(restAtOrigin())
	w.InsertEvent(0, Thrust(mgl64.Vec3{0.5, 0, 0}))

	w.Bake(5)
	if w.Len() < 4 {
		t.Errorf("expected checkpoints over 5 time units, got %d events", w.Len())
	}
	for i := 1; i < 5; i++ {
		// every checkpoint carries the command forward
		if ev := w.AtTime(float64(i)); ev.Kind != Accelerating {
			t.Errorf("checkpoint at t=%d lost the acceleration command", i)
		}
	}
}
