package universe

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/relsim/internal/relativity"
	"github.com/san-kum/relsim/internal/worldline"
)

// ID uniquely identifies an entity within a universe.
type ID uint64

// NewID draws a fresh random identifier.
func NewID() ID {
	return ID(rand.Uint64())
}

// Entity owns exactly one worldline plus rendering metadata that the
// physics core carries but never interprets.
type Entity struct {
	Worldline *worldline.Worldline

	Name        string
	Model       string
	Color       [4]float64
	ModelMatrix mgl64.Mat4
}

// NewEntity builds an entity whose worldline starts at the given frame.
func NewEntity(start relativity.InertialFrame) *Entity {
	return &Entity{
		Worldline:   worldline.New(start),
		Color:       [4]float64{1, 1, 1, 1},
		ModelMatrix: mgl64.Ident4(),
	}
}

// Universe owns all entities' worldlines and the shared simulation clock.
// Time is the coordinate time of the user's own "now".
type Universe struct {
	entities map[ID]*Entity
	order    []ID

	UserID ID
	Time   float64
}

// New builds a universe holding only the user entity, with the clock at
// startTime.
func New(startTime float64, user *Entity) *Universe {
	u := &Universe{
		entities: make(map[ID]*Entity),
		Time:     startTime,
	}
	u.UserID = u.Insert(user)
	return u
}

// Insert registers an entity under a fresh identifier.
func (u *Universe) Insert(e *Entity) ID {
	id := NewID()
	for {
		if _, taken := u.entities[id]; !taken {
			break
		}
		id = NewID()
	}
	u.entities[id] = e
	u.order = append(u.order, id)
	return id
}

// Remove deletes an entity. The user entity cannot be removed.
func (u *Universe) Remove(id ID) *Entity {
	if id == u.UserID {
		return nil
	}
	e, ok := u.entities[id]
	if !ok {
		return nil
	}
	delete(u.entities, id)
	for i, o := range u.order {
		if o == id {
			u.order = append(u.order[:i], u.order[i+1:]...)
			break
		}
	}
	return e
}

// Get looks up an entity by identifier.
func (u *Universe) Get(id ID) *Entity {
	return u.entities[id]
}

// User returns the user entity.
func (u *Universe) User() *Entity {
	return u.entities[u.UserID]
}

// Len reports the number of entities.
func (u *Universe) Len() int {
	return len(u.entities)
}

// Each visits every entity in insertion order.
func (u *Universe) Each(fn func(ID, *Entity)) {
	for _, id := range u.order {
		fn(id, u.entities[id])
	}
}

// UserEventNow resolves the user entity's state at the current clock.
func (u *Universe) UserEventNow() worldline.Event {
	return u.User().Worldline.AtTime(u.Time)
}

// Step advances the shared clock by a wall-clock delta and re-bakes every
// worldline up to the new "now". The clock advance is scaled by the user's
// Lorentz factor so the user's own experienced tick rate stays constant
// regardless of their speed; every entity's integration resolution is
// rescaled the same way. Entities share no mutable state during the pass,
// so baking fans out across workers.
func (u *Universe) Step(delta float64) {
	userGamma := relativity.LorentzFactor(u.UserEventNow().Frame.Velocity)
	u.Time += delta * userGamma

	ents := make([]*Entity, 0, len(u.order))
	for _, id := range u.order {
		ents = append(ents, u.entities[id])
	}

	parallelFor(len(ents), 1, func(start, end int) {
		for _, e := range ents[start:end] {
			e.Worldline.TimeResolution = worldline.PhysTimeStep * userGamma
			e.Worldline.Bake(u.Time)
		}
	})
}
