package worldline

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/relsim/internal/relativity"
)

const (
	// PhysTimeStep is the reference integration step, matching a 240 Hz
	// physics tick at rest.
	PhysTimeStep = 1.0 / 240.0

	// EventBakeInterval is the coordinate-time spacing of baked checkpoint
	// events at the reference time resolution.
	EventBakeInterval = 1.0
)

// Kind selects the law of motion that governs a worldline from an event
// forward.
type Kind int

const (
	// Inertial is constant-velocity motion.
	Inertial Kind = iota
	// Accelerating is constant proper acceleration.
	Accelerating
)

// Command pairs a kind with its acceleration payload.
type Command struct {
	Kind  Kind
	Accel mgl64.Vec3
}

// Coast is the constant-velocity command.
func Coast() Command {
	return Command{Kind: Inertial}
}

// Thrust is the constant-proper-acceleration command.
func Thrust(accel mgl64.Vec3) Command {
	return Command{Kind: Accelerating, Accel: accel}
}

// Event is a keyframe on a worldline: the frame at that instant, the
// entity's own elapsed clock, and the law of motion from here until the
// next event.
type Event struct {
	Frame      relativity.InertialFrame
	ProperTime float64
	Kind       Kind
	Accel      mgl64.Vec3
}

// Command returns the law of motion in effect from this event forward.
func (e Event) Command() Command {
	return Command{Kind: e.Kind, Accel: e.Accel}
}

// AtOffset evolves the event forward by a coordinate-time offset under its
// own law of motion. Inertial motion is closed-form; acceleration segments
// integrate in steps of at most timeResolution with a remainder step at
// the end.
func (e Event) AtOffset(offset, timeResolution float64) Event {
	out := e
	switch e.Kind {
	case Inertial:
		out.Frame = e.Frame.Predict(offset)
		out.ProperTime = e.ProperTime + offset/relativity.LorentzFactor(e.Frame.Velocity)
	case Accelerating:
		frame := e.Frame
		properTime := e.ProperTime

		steps := int(offset/timeResolution) + 1
		stepSize := timeResolution
		for i := 0; i < steps; i++ {
			if i == steps-1 {
				stepSize = math.Mod(offset, stepSize)
			}
			properTime += frame.Step(stepSize, e.Accel)
		}

		out.Frame = frame
		out.ProperTime = properTime
	}
	return out
}

// Worldline is the path an entity traces through spacetime, stored as an
// ordered list of keyframe events strictly increasing by coordinate time.
// There is no notion of "now" on a worldline alone; it is a static,
// editable path.
type Worldline struct {
	events []Event

	// TimeResolution caps the integration step used inside acceleration
	// segments. The universe rescales it by the user's gamma each tick.
	TimeResolution float64
}

// New builds a worldline with a single inertial seed event at the given
// start frame.
func New(start relativity.InertialFrame) *Worldline {
	return &Worldline{
		events:         []Event{{Frame: start, Kind: Inertial}},
		TimeResolution: PhysTimeStep,
	}
}

// Len reports the number of stored keyframes.
func (w *Worldline) Len() int {
	return len(w.events)
}

// Last returns the final stored keyframe.
func (w *Worldline) Last() Event {
	return w.events[len(w.events)-1]
}

// neighbors locates the stored events bracketing a coordinate time.
// Either index is -1 when no event exists on that side.
func (w *Worldline) neighbors(coordTime float64) (before, after int) {
	if len(w.events) == 0 {
		return -1, -1
	}

	if w.events[len(w.events)-1].Frame.Position.W() < coordTime {
		return len(w.events) - 1, -1
	}

	after = sort.Search(len(w.events), func(i int) bool {
		return w.events[i].Frame.Position.W() >= coordTime
	})
	return after - 1, after
}

// AtTime resolves the entity's state at an arbitrary coordinate time.
// Before the first event the worldline extrapolates backward as if the
// entity had always moved inertially; at or after the last event it
// extrapolates forward under the last event's own law of motion.
func (w *Worldline) AtTime(coordTime float64) Event {
	before, after := w.neighbors(coordTime)

	switch {
	case before < 0 && after < 0:
		return Event{Kind: Inertial}
	case before < 0:
		first := w.events[after]
		first.Kind = Inertial
		first.Accel = mgl64.Vec3{}
		return first.AtOffset(coordTime-first.Frame.Position.W(), w.TimeResolution)
	default:
		ev := w.events[before]
		return ev.AtOffset(coordTime-ev.Frame.Position.W(), w.TimeResolution)
	}
}

// InsertEvent records a new command at the given coordinate time. Any
// stored events at or after that time are discarded: a new command
// permanently overwrites the entity's future, never its past.
func (w *Worldline) InsertEvent(coordTime float64, cmd Command) {
	w.Bake(coordTime)

	if _, after := w.neighbors(coordTime); after >= 0 {
		w.events = w.events[:after]
	}

	ev := w.AtTime(coordTime)
	ev.Kind = cmd.Kind
	ev.Accel = cmd.Accel
	if cmd.Kind == Inertial {
		ev.Accel = mgl64.Vec3{}
	}
	w.events = append(w.events, ev)
}

// Bake lays down checkpoint events of the trailing command's own kind up
// to coordTime, so that no later query has to integrate further than one
// bake interval past a stored event. Baking never changes the trajectory,
// only the cost of querying it. Times inside already-defined brackets and
// trailing inertial motion need no checkpoints.
func (w *Worldline) Bake(coordTime float64) {
	before, after := w.neighbors(coordTime)
	if after >= 0 || before < 0 {
		return
	}

	last := w.events[before]
	if last.Kind == Inertial {
		return
	}

	interval := EventBakeInterval * w.TimeResolution / PhysTimeStep
	bakeTime := last.Frame.Position.W() + interval
	for bakeTime < coordTime {
		w.InsertEvent(bakeTime, last.Command())
		bakeTime += interval
	}
}
