package physics

import (
	"github.com/Faultbox/rigcore/pkg/math"
)

// Body is a rigid body. Bodies live in a dense arena owned by the
// World and are addressed by index.
type Body struct {
	Name string

	Position math.Vec2
	Velocity math.Vec2

	Angle           float32
	AngularVelocity float32

	// InvMass is zero for static bodies; they never integrate but
	// still participate in collision.
	Mass    float32
	InvMass float32

	// Damping is the per-second velocity retention factor in [0, 1].
	Damping float32

	Restitution float32
	Friction    float32

	Shape Shape
	Box   AABB

	// Accumulated over a step, cleared at the end of every sub-step.
	Force  math.Vec2
	Torque float32

	Static   bool
	Sleeping bool

	// stillTime accumulates while kinetic energy stays below the
	// sleep threshold.
	stillTime float32
}

// ApplyForce accumulates a force for the next sub-step and wakes the
// body.
func (b *Body) ApplyForce(f math.Vec2) {
	if b.Static {
		return
	}
	b.Force = b.Force.Add(f)
	b.Wake()
}

// ApplyTorque accumulates a torque for the next sub-step and wakes the
// body.
func (b *Body) ApplyTorque(t float32) {
	if b.Static {
		return
	}
	b.Torque += t
	b.Wake()
}

// ApplyImpulse changes velocity immediately, scaled by inverse mass.
func (b *Body) ApplyImpulse(imp math.Vec2) {
	if b.Static {
		return
	}
	b.Velocity = b.Velocity.Add(imp.Scale(b.InvMass))
	b.Wake()
}

// Wake clears the sleeping state and the stillness timer.
func (b *Body) Wake() {
	b.Sleeping = false
	b.stillTime = 0
}

// KineticEnergy returns the linear plus angular kinetic energy.
func (b *Body) KineticEnergy() float32 {
	lin := 0.5 * b.Mass * b.Velocity.LengthSq()
	ang := 0.5 * b.Mass * b.AngularVelocity * b.AngularVelocity
	return lin + ang
}

// updateAABB refreshes the cached bounding box from the current
// position.
func (b *Body) updateAABB() {
	b.Box = b.Shape.aabb(b.Position)
}
