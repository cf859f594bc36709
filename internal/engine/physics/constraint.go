package physics

import (
	"github.com/Faultbox/rigcore/pkg/math"
)

// ConstraintKind enumerates the joint types. The set is closed and
// matched exhaustively in solve.
type ConstraintKind int

const (
	ConstraintDistance ConstraintKind = iota
	ConstraintSpring
	ConstraintHinge
	ConstraintFixed
	ConstraintCone
)

// Constraint links two bodies by arena index. Only the fields of the
// active kind are meaningful.
type Constraint struct {
	Name string
	Kind ConstraintKind

	BodyA, BodyB int

	// Distance and spring rest length.
	RestLength float32
	// Stiffness in [0, 1] scales the correction; zero means 1.
	Stiffness float32
	// Spring coefficient and velocity damping.
	SpringK float32
	SpringD float32
	// Local anchor offsets, rotated by each body's angle.
	AnchorA math.Vec2
	AnchorB math.Vec2
	// Cone half angle limit around the rest direction.
	HalfAngle float32

	Enabled bool
}

// anchorWorld resolves a local anchor offset to world space.
func anchorWorld(b *Body, anchor math.Vec2) math.Vec2 {
	if anchor == (math.Vec2{}) {
		return b.Position
	}
	return b.Position.Add(anchor.Rotate(b.Angle))
}

// solve applies one iteration of the constraint.
func (c *Constraint) solve(a, b *Body, dt float32) {
	if !c.Enabled {
		return
	}
	switch c.Kind {
	case ConstraintDistance:
		c.solveDistance(a, b)
	case ConstraintSpring:
		c.solveSpring(a, b, dt)
	case ConstraintHinge:
		c.solveHinge(a, b)
	case ConstraintFixed:
		c.solveFixed(a, b)
	case ConstraintCone:
		c.solveCone(a, b)
	}
}

// solveDistance moves both bodies along the separation axis so their
// distance returns to RestLength, split by inverse mass.
func (c *Constraint) solveDistance(a, b *Body) {
	invSum := a.InvMass + b.InvMass
	if invSum == 0 {
		return
	}
	delta := anchorWorld(b, c.AnchorB).Sub(anchorWorld(a, c.AnchorA))
	dist := delta.Length()
	if dist == 0 {
		return
	}
	stiff := c.Stiffness
	if stiff <= 0 || stiff > 1 {
		stiff = 1
	}
	diff := (dist - c.RestLength) / dist * stiff
	corr := delta.Scale(diff / invSum)
	a.Position = a.Position.Add(corr.Scale(a.InvMass))
	b.Position = b.Position.Sub(corr.Scale(b.InvMass))
}

// solveSpring applies Hooke's force proportional to the stretch plus a
// damping term on the relative velocity along the axis.
func (c *Constraint) solveSpring(a, b *Body, dt float32) {
	delta := anchorWorld(b, c.AnchorB).Sub(anchorWorld(a, c.AnchorA))
	dist := delta.Length()
	if dist == 0 {
		return
	}
	dir := delta.Scale(1 / dist)
	stretch := dist - c.RestLength
	relVel := b.Velocity.Sub(a.Velocity).Dot(dir)
	f := c.SpringK*stretch + c.SpringD*relVel
	impulse := dir.Scale(f * dt)
	a.Velocity = a.Velocity.Add(impulse.Scale(a.InvMass))
	b.Velocity = b.Velocity.Sub(impulse.Scale(b.InvMass))
}

// solveHinge pins body B's anchor point to an anchor fixed in body A's
// frame.
func (c *Constraint) solveHinge(a, b *Body) {
	invSum := a.InvMass + b.InvMass
	if invSum == 0 {
		return
	}
	delta := anchorWorld(b, c.AnchorB).Sub(anchorWorld(a, c.AnchorA))
	corr := delta.Scale(1 / invSum)
	a.Position = a.Position.Add(corr.Scale(a.InvMass))
	b.Position = b.Position.Sub(corr.Scale(b.InvMass))
}

// solveFixed keeps both position offset and relative angle rigid.
func (c *Constraint) solveFixed(a, b *Body) {
	c.solveDistance(a, b)
	invSum := a.InvMass + b.InvMass
	if invSum == 0 {
		return
	}
	diff := math.WrapAngle(b.Angle - a.Angle)
	a.Angle += diff * a.InvMass / invSum
	b.Angle -= diff * b.InvMass / invSum
}

// solveCone clamps the direction from A to B inside a half angle cone
// around A's facing.
func (c *Constraint) solveCone(a, b *Body) {
	if b.InvMass == 0 {
		return
	}
	delta := b.Position.Sub(a.Position)
	dist := delta.Length()
	if dist == 0 {
		return
	}
	angle := math.Atan2(delta.Y, delta.X)
	diff := math.WrapAngle(angle - a.Angle)
	if math.Abs(diff) <= c.HalfAngle {
		return
	}
	limit := c.HalfAngle
	if diff < 0 {
		limit = -c.HalfAngle
	}
	clamped := a.Angle + limit
	b.Position = a.Position.Add(math.Vec2{X: dist, Y: 0}.Rotate(clamped))
}
