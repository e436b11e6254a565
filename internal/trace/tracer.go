// Package trace runs a scenario tick by tick: advancing the universe,
// applying scheduled acceleration commands, and sampling every entity's
// worldline along the way.
package trace

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/relsim/internal/config"
	"github.com/san-kum/relsim/internal/metrics"
	"github.com/san-kum/relsim/internal/relativity"
	"github.com/san-kum/relsim/internal/universe"
	"github.com/san-kum/relsim/internal/worldline"
)

// Observer is notified after every completed tick.
type Observer interface {
	OnTick(universeTime float64)
}

// Result holds the sampled trajectories of a run.
type Result struct {
	// Times is the universe coordinate time after each tick.
	Times []float64
	// Names lists entities in scenario order.
	Names []string
	// Samples maps entity name to its event at each recorded time.
	Samples map[string][]worldline.Event
	// Metrics holds final metric values, observed on the user entity.
	Metrics map[string]float64
}

type schedule struct {
	entity   *universe.Entity
	commands []worldline.Command
	times    []float64
	next     int
}

// Tracer owns a universe built from a scenario plus the pending command
// schedules.
type Tracer struct {
	cfg       *config.Config
	uni       *universe.Universe
	entities  []*universe.Entity
	schedules []*schedule
	metrics   []metrics.Metric
	observers []Observer
}

// New validates a scenario and builds its universe.
func New(cfg *config.Config) (*Tracer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	userIdx := cfg.UserIndex()
	uni := universe.New(cfg.StartTime, buildEntity(cfg.Entities[userIdx]))

	entities := make([]*universe.Entity, len(cfg.Entities))
	entities[userIdx] = uni.User()
	for i, ec := range cfg.Entities {
		if i == userIdx {
			continue
		}
		e := buildEntity(ec)
		uni.Insert(e)
		entities[i] = e
	}

	t := &Tracer{cfg: cfg, uni: uni, entities: entities}
	for i, ec := range cfg.Entities {
		if len(ec.Commands) == 0 {
			continue
		}
		s := &schedule{entity: entities[i]}
		for _, cc := range ec.Commands {
			s.times = append(s.times, cfg.StartTime+cc.Time)
			s.commands = append(s.commands, commandOf(cc))
		}
		t.schedules = append(t.schedules, s)
	}
	return t, nil
}

func buildEntity(ec config.EntityConfig) *universe.Entity {
	e := universe.NewEntity(frameOf(ec))
	e.Name = ec.Name
	e.Model = ec.Model
	if ec.Color != ([4]float64{}) {
		e.Color = ec.Color
	}
	return e
}

func frameOf(ec config.EntityConfig) relativity.InertialFrame {
	return relativity.InertialFrame{
		Position: mgl64.Vec4{ec.Position[0], ec.Position[1], ec.Position[2], ec.Position[3]},
		Velocity: mgl64.Vec3{ec.Velocity[0], ec.Velocity[1], ec.Velocity[2]},
	}
}

func commandOf(cc config.CommandConfig) worldline.Command {
	if cc.Accel == ([3]float64{}) {
		return worldline.Coast()
	}
	return worldline.Thrust(mgl64.Vec3{cc.Accel[0], cc.Accel[1], cc.Accel[2]})
}

// Universe exposes the underlying universe, e.g. for live views.
func (t *Tracer) Universe() *universe.Universe {
	return t.uni
}

// AddMetric registers a metric observed on the user entity each tick.
func (t *Tracer) AddMetric(m metrics.Metric) {
	t.metrics = append(t.metrics, m)
}

// AddObserver registers a per-tick observer.
func (t *Tracer) AddObserver(o Observer) {
	t.observers = append(t.observers, o)
}

// Run executes the scenario for its configured duration, checking ctx
// between ticks. The partial result is returned alongside the context
// error on cancellation.
func (t *Tracer) Run(ctx context.Context) (*Result, error) {
	dt := 1 / t.cfg.TickRate
	ticks := int(t.cfg.Duration * t.cfg.TickRate)

	res := &Result{
		Times:   make([]float64, 0, ticks),
		Samples: make(map[string][]worldline.Event, len(t.entities)),
		Metrics: make(map[string]float64),
	}
	for _, e := range t.entities {
		res.Names = append(res.Names, e.Name)
	}
	for _, m := range t.metrics {
		m.Reset()
	}

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			t.finish(res)
			return res, ctx.Err()
		default:
		}

		t.applyDue()
		t.uni.Step(dt)

		res.Times = append(res.Times, t.uni.Time)
		for _, e := range t.entities {
			res.Samples[e.Name] = append(res.Samples[e.Name], e.Worldline.AtTime(t.uni.Time))
		}

		userEvent := t.uni.UserEventNow()
		for _, m := range t.metrics {
			m.Observe(userEvent, t.uni.Time)
		}
		for _, o := range t.observers {
			o.OnTick(t.uni.Time)
		}
	}

	t.finish(res)
	return res, nil
}

func (t *Tracer) finish(res *Result) {
	for _, m := range t.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
}

// applyDue inserts every scheduled command whose time has been reached.
// Commands land at their exact scheduled coordinate time, and are skipped
// when the worldline is already following the same law of motion there.
func (t *Tracer) applyDue() {
	for _, s := range t.schedules {
		for s.next < len(s.times) && s.times[s.next] <= t.uni.Time {
			at := s.times[s.next]
			cmd := s.commands[s.next]
			s.next++

			if s.entity.Worldline.AtTime(at).Command() == cmd {
				continue
			}
			s.entity.Worldline.InsertEvent(at, cmd)
		}
	}
}
