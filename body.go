package main

import "sort"

// Collision layers. Layer says what a body is, Mask says what it
// collides with. A pair is tested only when each body's mask matches
// the other's layer.
const (
	LayerPlayer    uint32 = 1 << 0
	LayerEnemy     uint32 = 1 << 1
	LayerBall      uint32 = 1 << 2
	LayerBoundary  uint32 = 1 << 3
	LayerSeparator uint32 = 1 << 4
)

// BodyID is a stable handle into the World registry. Zero is never issued.
type BodyID uint32

// BodyDef describes a body at registration time. Degenerate values are
// clamped, not rejected: the simulation must never halt on bad config.
type BodyDef struct {
	Layer, Mask uint32
	W, H        float64 // full extents of the axis-aligned box
	Mass        float64 // <= 0 marks the body immovable
	Restitution float64 // clamped to [0, 1]
	Friction    float64 // clamped to >= 0
	MaxSpeed    float64 // per-role velocity cap, 0 = uncapped
	DampRate    float64 // control smoothing rate, 0 = no control damping
}

// Body is the physical state of one entity. Pos/Vel/Target are only
// meaningful while the body has motion attached.
type Body struct {
	ID          BodyID
	Layer, Mask uint32
	HalfW       float64
	HalfH       float64
	InvMass     float64 // 0 for immovable bodies
	Restitution float64
	Friction    float64
	MaxSpeed    float64
	DampRate    float64

	Pos    Vec
	Vel    Vec
	Target Vec // desired velocity the integrator damps toward
	active bool
}

// Mass returns the body's mass, or 0 for immovable bodies.
func (b *Body) Mass() float64 {
	if b.InvMass == 0 {
		return 0
	}
	return 1.0 / b.InvMass
}

// Immovable reports whether resolution may change this body's velocity.
func (b *Body) Immovable() bool {
	return b.InvMass == 0
}

// Arena is the playfield extent, centered on the origin. Read-only after
// startup.
type Arena struct {
	W, H float64
}

func (a Arena) Contains(p Vec) bool {
	return p.X >= -a.W/2 && p.X <= a.W/2 && p.Y >= -a.H/2 && p.Y <= a.H/2
}

// World owns all registered bodies and the set of bodies currently
// simulated. It is not safe for concurrent use; one physics step runs
// to completion before the next begins.
type World struct {
	arena  Arena
	bodies map[BodyID]*Body
	order  []BodyID // sorted; fixes iteration order for determinism
	nextID BodyID
}

// NewWorld creates an empty world for the given arena
func NewWorld(arena Arena) *World {
	return &World{
		arena:  arena,
		bodies: make(map[BodyID]*Body),
		nextID: 1,
	}
}

func (w *World) Arena() Arena {
	return w.arena
}

// RegisterBody adds a body to the registry and returns its id. The body
// starts without motion attached and takes no part in simulation until
// AttachMotion is called.
func (w *World) RegisterBody(def BodyDef) BodyID {
	invMass := 0.0
	if def.Mass > 0 {
		invMass = 1.0 / def.Mass
	}

	id := w.nextID
	w.nextID++
	b := &Body{
		ID:          id,
		Layer:       def.Layer,
		Mask:        def.Mask,
		HalfW:       def.W / 2,
		HalfH:       def.H / 2,
		InvMass:     invMass,
		Restitution: Clamp(def.Restitution, 0, 1),
		Friction:    Clamp(def.Friction, 0, 1e9),
		MaxSpeed:    def.MaxSpeed,
		DampRate:    def.DampRate,
	}
	w.bodies[id] = b

	i := sort.Search(len(w.order), func(i int) bool { return w.order[i] >= id })
	w.order = append(w.order, 0)
	copy(w.order[i+1:], w.order[i:])
	w.order[i] = id
	return id
}

// RemoveBody unregisters a body. Unknown ids are ignored.
func (w *World) RemoveBody(id BodyID) {
	if _, ok := w.bodies[id]; !ok {
		return
	}
	delete(w.bodies, id)
	i := sort.Search(len(w.order), func(i int) bool { return w.order[i] >= id })
	if i < len(w.order) && w.order[i] == id {
		w.order = append(w.order[:i], w.order[i+1:]...)
	}
}

// Body looks up a body by id, returning nil if it no longer exists
func (w *World) Body(id BodyID) *Body {
	return w.bodies[id]
}

// AttachMotion activates a body with the given position and velocity.
// An active body is integrated and collided each step.
func (w *World) AttachMotion(id BodyID, pos, vel Vec) {
	b := w.bodies[id]
	if b == nil {
		return
	}
	b.Pos = pos
	b.Vel = vel
	b.Target = vel
	b.active = true
}

// DetachMotion deactivates a body, excluding it from integration and
// collision until motion is attached again.
func (w *World) DetachMotion(id BodyID) {
	if b := w.bodies[id]; b != nil {
		b.active = false
		b.Vel = Vec{}
		b.Target = Vec{}
	}
}

// Active reports whether the body currently has motion attached
func (w *World) Active(id BodyID) bool {
	b := w.bodies[id]
	return b != nil && b.active
}

// SetTarget sets the desired velocity the integrator damps toward.
// Bodies with DampRate 0 ignore the target and keep their velocity.
func (w *World) SetTarget(id BodyID, target Vec) {
	if b := w.bodies[id]; b != nil {
		b.Target = target
	}
}

// SetVelocity overwrites a body's velocity directly (ball launches,
// paddle deflection tweaks). Unknown ids are ignored.
func (w *World) SetVelocity(id BodyID, vel Vec) {
	if b := w.bodies[id]; b != nil {
		b.Vel = vel
	}
}

// ActiveCount returns the number of bodies with motion attached
func (w *World) ActiveCount() int {
	n := 0
	for _, id := range w.order {
		if w.bodies[id].active {
			n++
		}
	}
	return n
}
