package physics

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Faultbox/rigcore/internal/logger"
	"github.com/Faultbox/rigcore/pkg/math"
)

var (
	ErrDuplicateBody       = errors.New("physics: duplicate body name")
	ErrDuplicateConstraint = errors.New("physics: duplicate constraint name")
	ErrBadBodyIndex        = errors.New("physics: body index out of range")
	ErrBadMass             = errors.New("physics: mass must be positive for dynamic bodies")
)

// Options configures a World. Zero fields fall back to defaults.
type Options struct {
	Gravity        math.Vec2
	Timestep       float32
	MaxSubSteps    int
	Iterations     int
	CellSize       float32
	SleepThreshold float32
	SleepTime      float32
}

// World owns dense arenas of bodies and constraints and advances them
// on a fixed timestep accumulator.
type World struct {
	Gravity math.Vec2

	timestep       float32
	maxSubSteps    int
	iterations     int
	sleepThreshold float32
	sleepTime      float32

	bodies      []*Body
	byName      map[string]int
	constraints []*Constraint
	consByName  map[string]int

	hash        *spatialHash
	contacts    []Contact
	accumulator float32
}

// NewWorld creates an empty world.
func NewWorld(opts Options) *World {
	if opts.Timestep <= 0 {
		opts.Timestep = 1.0 / 120.0
	}
	if opts.MaxSubSteps <= 0 {
		opts.MaxSubSteps = 8
	}
	if opts.Iterations <= 0 {
		opts.Iterations = 4
	}
	if opts.CellSize <= 0 {
		opts.CellSize = 25
	}
	if opts.SleepThreshold <= 0 {
		opts.SleepThreshold = 0.001
	}
	if opts.SleepTime <= 0 {
		opts.SleepTime = 0.5
	}
	return &World{
		Gravity:        opts.Gravity,
		timestep:       opts.Timestep,
		maxSubSteps:    opts.MaxSubSteps,
		iterations:     opts.Iterations,
		sleepThreshold: opts.SleepThreshold,
		sleepTime:      opts.SleepTime,
		byName:         make(map[string]int),
		consByName:     make(map[string]int),
		hash:           newSpatialHash(opts.CellSize),
	}
}

// BodyDef carries the construction parameters for CreateBody.
type BodyDef struct {
	Name        string
	Position    math.Vec2
	Mass        float32
	Damping     float32
	Restitution float32
	Friction    float32
	Shape       Shape
	Static      bool
}

// CreateBody adds a body and returns its arena index. An empty name is
// replaced with a generated one.
func (w *World) CreateBody(def BodyDef) (int, error) {
	name := def.Name
	if name == "" {
		name = uuid.NewString()
	}
	if _, ok := w.byName[name]; ok {
		return -1, fmt.Errorf("%w: %q", ErrDuplicateBody, name)
	}
	if !def.Static && def.Mass <= 0 {
		return -1, fmt.Errorf("%w: %q", ErrBadMass, name)
	}
	b := &Body{
		Name:        name,
		Position:    def.Position,
		Mass:        def.Mass,
		Damping:     def.Damping,
		Restitution: def.Restitution,
		Friction:    def.Friction,
		Shape:       def.Shape,
		Static:      def.Static,
	}
	if def.Static {
		b.InvMass = 0
	} else {
		b.InvMass = 1 / def.Mass
	}
	if b.Damping <= 0 || b.Damping > 1 {
		b.Damping = 1
	}
	b.updateAABB()
	idx := len(w.bodies)
	w.bodies = append(w.bodies, b)
	w.byName[name] = idx
	return idx, nil
}

// RemoveBody deletes a body and every constraint attached to it. The
// last body is swapped into the freed slot, so one index is
// invalidated per call.
func (w *World) RemoveBody(idx int) error {
	if idx < 0 || idx >= len(w.bodies) {
		return ErrBadBodyIndex
	}
	for i := len(w.constraints) - 1; i >= 0; i-- {
		c := w.constraints[i]
		if c.BodyA == idx || c.BodyB == idx {
			w.removeConstraintAt(i)
		}
	}
	delete(w.byName, w.bodies[idx].Name)
	last := len(w.bodies) - 1
	if idx != last {
		w.bodies[idx] = w.bodies[last]
		w.byName[w.bodies[idx].Name] = idx
		for _, c := range w.constraints {
			if c.BodyA == last {
				c.BodyA = idx
			}
			if c.BodyB == last {
				c.BodyB = idx
			}
		}
	}
	w.bodies = w.bodies[:last]
	return nil
}

// Body returns the body at idx, or nil when out of range.
func (w *World) Body(idx int) *Body {
	if idx < 0 || idx >= len(w.bodies) {
		return nil
	}
	return w.bodies[idx]
}

// BodyByName resolves a body index by name.
func (w *World) BodyByName(name string) (int, bool) {
	idx, ok := w.byName[name]
	return idx, ok
}

// Bodies returns the live body count.
func (w *World) Bodies() int {
	return len(w.bodies)
}

// SetShape replaces a body's collision shape and refreshes its box.
func (w *World) SetShape(idx int, s Shape) error {
	b := w.Body(idx)
	if b == nil {
		return ErrBadBodyIndex
	}
	b.Shape = s
	b.updateAABB()
	return nil
}

// CreateConstraint adds a constraint between two existing bodies and
// returns its index.
func (w *World) CreateConstraint(c Constraint) (int, error) {
	if w.Body(c.BodyA) == nil || w.Body(c.BodyB) == nil {
		return -1, ErrBadBodyIndex
	}
	if c.Name == "" {
		c.Name = uuid.NewString()
	}
	if _, ok := w.consByName[c.Name]; ok {
		return -1, fmt.Errorf("%w: %q", ErrDuplicateConstraint, c.Name)
	}
	c.Enabled = true
	idx := len(w.constraints)
	w.constraints = append(w.constraints, &c)
	w.consByName[c.Name] = idx
	return idx, nil
}

// RemoveConstraint deletes the constraint at idx.
func (w *World) RemoveConstraint(idx int) error {
	if idx < 0 || idx >= len(w.constraints) {
		return errors.New("physics: constraint index out of range")
	}
	w.removeConstraintAt(idx)
	return nil
}

func (w *World) removeConstraintAt(idx int) {
	delete(w.consByName, w.constraints[idx].Name)
	last := len(w.constraints) - 1
	if idx != last {
		w.constraints[idx] = w.constraints[last]
		w.consByName[w.constraints[idx].Name] = idx
	}
	w.constraints = w.constraints[:last]
}

// Constraints returns the live constraint count.
func (w *World) Constraints() int {
	return len(w.constraints)
}

// ConstraintAt returns the constraint at idx, or nil when out of range.
// Toggling its Enabled flag takes effect on the next sub-step.
func (w *World) ConstraintAt(idx int) *Constraint {
	if idx < 0 || idx >= len(w.constraints) {
		return nil
	}
	return w.constraints[idx]
}

// ApplyForce accumulates a force on a body. Unknown indices are logged
// and ignored so per-frame callers never crash.
func (w *World) ApplyForce(idx int, f math.Vec2) {
	b := w.Body(idx)
	if b == nil {
		logger.Warn(fmt.Sprintf("physics: apply force on unknown body %d", idx))
		return
	}
	b.ApplyForce(f)
}

// ApplyImpulse applies an immediate velocity change to a body.
func (w *World) ApplyImpulse(idx int, imp math.Vec2) {
	b := w.Body(idx)
	if b == nil {
		logger.Warn(fmt.Sprintf("physics: apply impulse on unknown body %d", idx))
		return
	}
	b.ApplyImpulse(imp)
}

// Contacts returns the contacts produced by the most recent sub-step.
func (w *World) Contacts() []Contact {
	return w.contacts
}

// Step advances the simulation by dt using fixed sub-steps. Time that
// does not fill a whole sub-step stays in the accumulator; the number
// of sub-steps per call is capped to avoid a death spiral after a
// stall.
func (w *World) Step(dt float32) {
	if dt <= 0 {
		return
	}
	w.accumulator += dt
	steps := 0
	for w.accumulator >= w.timestep && steps < w.maxSubSteps {
		w.subStep(w.timestep)
		w.accumulator -= w.timestep
		steps++
	}
	if w.accumulator >= w.timestep {
		// Drop the backlog instead of spiraling.
		w.accumulator = 0
	}
}

func (w *World) subStep(dt float32) {
	w.integrateForces(dt)
	w.broadphase()
	w.solveConstraints(dt)
	w.solveContacts()
	w.integratePositions(dt)
	w.updateSleep(dt)
	w.clearForces()
}

func (w *World) integrateForces(dt float32) {
	for _, b := range w.bodies {
		if b.Static || b.Sleeping {
			continue
		}
		acc := w.Gravity.Add(b.Force.Scale(b.InvMass))
		b.Velocity = b.Velocity.Add(acc.Scale(dt))
		b.AngularVelocity += b.Torque * b.InvMass * dt
		if b.Damping < 1 {
			k := math.Pow(b.Damping, dt)
			b.Velocity = b.Velocity.Scale(k)
			b.AngularVelocity *= k
		}
	}
}

func (w *World) broadphase() {
	w.hash.clear()
	boxes := make([]AABB, len(w.bodies))
	for i, b := range w.bodies {
		b.updateAABB()
		boxes[i] = b.Box
		w.hash.insert(i, b.Box)
	}
	w.contacts = w.contacts[:0]
	for _, p := range w.hash.pairs(boxes) {
		a, b := w.bodies[p.a], w.bodies[p.b]
		if a.Static && b.Static {
			continue
		}
		if a.Sleeping && b.Sleeping {
			continue
		}
		if c, ok := collide(a, b, p.a, p.b); ok {
			w.contacts = append(w.contacts, c)
		}
	}
}

func (w *World) solveConstraints(dt float32) {
	for i := 0; i < w.iterations; i++ {
		for _, c := range w.constraints {
			a, b := w.bodies[c.BodyA], w.bodies[c.BodyB]
			if a.Sleeping && b.Sleeping {
				continue
			}
			c.solve(a, b, dt)
		}
	}
}

func (w *World) solveContacts() {
	for i := 0; i < w.iterations; i++ {
		for ci := range w.contacts {
			c := w.contacts[ci]
			a, b := w.bodies[c.BodyA], w.bodies[c.BodyB]
			// A sleeping body hit by an awake one rejoins the
			// simulation. Resting contact alone must not reset the
			// stillness timer or nothing ever falls asleep.
			if a.Sleeping {
				a.Wake()
			}
			if b.Sleeping {
				b.Wake()
			}
			// Depth is recomputed from current positions so repeated
			// iterations converge instead of over-correcting.
			if fresh, ok := collide(a, b, c.BodyA, c.BodyB); ok {
				w.contacts[ci].Impulse += resolveContact(a, b, fresh)
			}
		}
	}
}

func (w *World) integratePositions(dt float32) {
	for _, b := range w.bodies {
		if b.Static || b.Sleeping {
			continue
		}
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
		b.Angle = math.WrapAngle(b.Angle + b.AngularVelocity*dt)
		b.updateAABB()
	}
}

func (w *World) updateSleep(dt float32) {
	for _, b := range w.bodies {
		if b.Static || b.Sleeping {
			continue
		}
		if b.KineticEnergy() < w.sleepThreshold {
			b.stillTime += dt
			if b.stillTime > w.sleepTime {
				b.Sleeping = true
				b.Velocity = math.Vec2{}
				b.AngularVelocity = 0
			}
		} else {
			b.stillTime = 0
		}
	}
}

func (w *World) clearForces() {
	for _, b := range w.bodies {
		b.Force = math.Vec2{}
		b.Torque = 0
	}
}
