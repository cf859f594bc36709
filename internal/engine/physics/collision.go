package physics

import (
	"github.com/Faultbox/rigcore/pkg/math"
)

// Contact is one resolved collision point between two bodies,
// identified by arena index.
type Contact struct {
	BodyA, BodyB int
	// Normal points from A toward B.
	Normal math.Vec2
	Point  math.Vec2
	Depth  float32
	// Impulse is the normal impulse magnitude accumulated while
	// resolving this contact.
	Impulse float32
}

// positionalBias is the fraction of penetration corrected per solve
// iteration.
const positionalBias = 0.8

// collide runs narrowphase for a candidate pair. Non-sphere shapes
// collide through their bounding spheres.
func collide(a, b *Body, ia, ib int) (Contact, bool) {
	ra := boundingRadius(a.Shape)
	rb := boundingRadius(b.Shape)
	delta := b.Position.Sub(a.Position)
	distSq := delta.LengthSq()
	sum := ra + rb
	if distSq >= sum*sum {
		return Contact{}, false
	}
	dist := math.Sqrt(distSq)
	normal := math.Vec2{X: 1, Y: 0}
	if dist > 0 {
		normal = delta.Scale(1 / dist)
	}
	return Contact{
		BodyA:  ia,
		BodyB:  ib,
		Normal: normal,
		Point:  a.Position.Add(normal.Scale(ra)),
		Depth:  sum - dist,
	}, true
}

func boundingRadius(s Shape) float32 {
	switch s.Kind {
	case ShapeSphere:
		return s.Radius
	case ShapeBox:
		return s.HalfExtents.Length()
	case ShapeCapsule:
		return s.Radius + s.HalfHeight
	case ShapeMesh:
		var r float32
		for _, p := range s.Points {
			if l := p.Length(); l > r {
				r = l
			}
		}
		return r
	}
	return 0
}

// resolveContact applies a positional correction plus a restitution
// impulse and Coulomb-clamped friction along the tangent. It returns
// the normal impulse magnitude.
func resolveContact(a, b *Body, c Contact) float32 {
	invSum := a.InvMass + b.InvMass
	if invSum == 0 {
		return 0
	}

	// Positional correction split by inverse mass.
	correction := c.Normal.Scale(c.Depth * positionalBias / invSum)
	a.Position = a.Position.Sub(correction.Scale(a.InvMass))
	b.Position = b.Position.Add(correction.Scale(b.InvMass))

	relVel := b.Velocity.Sub(a.Velocity)
	vn := relVel.Dot(c.Normal)
	if vn >= 0 {
		return 0
	}

	restitution := a.Restitution
	if b.Restitution < restitution {
		restitution = b.Restitution
	}
	jn := -(1 + restitution) * vn / invSum
	impulse := c.Normal.Scale(jn)
	a.Velocity = a.Velocity.Sub(impulse.Scale(a.InvMass))
	b.Velocity = b.Velocity.Add(impulse.Scale(b.InvMass))

	// Friction impulse along the tangent, clamped to the Coulomb cone.
	relVel = b.Velocity.Sub(a.Velocity)
	tangent := relVel.Sub(c.Normal.Scale(relVel.Dot(c.Normal)))
	tl := tangent.Length()
	if tl == 0 {
		return jn
	}
	tangent = tangent.Scale(1 / tl)
	jt := -relVel.Dot(tangent) / invSum
	mu := math.Sqrt(a.Friction * b.Friction)
	if jt > mu*jn {
		jt = mu * jn
	} else if jt < -mu*jn {
		jt = -mu * jn
	}
	fr := tangent.Scale(jt)
	a.Velocity = a.Velocity.Sub(fr.Scale(a.InvMass))
	b.Velocity = b.Velocity.Add(fr.Scale(b.InvMass))
	return jn
}
