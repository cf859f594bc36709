// Package physics is a discrete-time rigid-body engine: spatial-hash
// broadphase, sphere narrowphase, sequential-impulse solving and
// sleeping, advanced on a fixed sub-step accumulator.
package physics

import (
	"github.com/Faultbox/rigcore/pkg/math"
)

// ShapeKind enumerates collision shapes. The set is closed and matched
// exhaustively; sphere-sphere is the narrowphase baseline, the other
// kinds bound broadphase extents.
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
	ShapeCapsule
	ShapeMesh
)

// Shape is a tagged union over the shape kinds; only the fields for the
// active kind are meaningful.
type Shape struct {
	Kind ShapeKind

	// Sphere and capsule radius.
	Radius float32
	// Box half extents.
	HalfExtents math.Vec2
	// Capsule half height (along Y, excluding the caps).
	HalfHeight float32
	// Mesh hull points, local to the body.
	Points []math.Vec2
}

// Sphere returns a sphere shape.
func Sphere(radius float32) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

// Box returns a box shape from half extents.
func Box(halfX, halfY float32) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: math.Vec2{X: halfX, Y: halfY}}
}

// Capsule returns a capsule shape.
func Capsule(radius, halfHeight float32) Shape {
	return Shape{Kind: ShapeCapsule, Radius: radius, HalfHeight: halfHeight}
}

// MeshHull returns a mesh shape over the given local points.
func MeshHull(points []math.Vec2) Shape {
	return Shape{Kind: ShapeMesh, Points: points}
}

// aabb computes the shape's bounding box around a world position.
func (s Shape) aabb(pos math.Vec2) AABB {
	switch s.Kind {
	case ShapeSphere:
		r := math.Vec2{X: s.Radius, Y: s.Radius}
		return AABB{Min: pos.Sub(r), Max: pos.Add(r)}
	case ShapeBox:
		return AABB{Min: pos.Sub(s.HalfExtents), Max: pos.Add(s.HalfExtents)}
	case ShapeCapsule:
		ext := math.Vec2{X: s.Radius, Y: s.Radius + s.HalfHeight}
		return AABB{Min: pos.Sub(ext), Max: pos.Add(ext)}
	case ShapeMesh:
		if len(s.Points) == 0 {
			return AABB{Min: pos, Max: pos}
		}
		min := pos.Add(s.Points[0])
		max := min
		for _, p := range s.Points[1:] {
			w := pos.Add(p)
			if w.X < min.X {
				min.X = w.X
			}
			if w.Y < min.Y {
				min.Y = w.Y
			}
			if w.X > max.X {
				max.X = w.X
			}
			if w.Y > max.Y {
				max.Y = w.Y
			}
		}
		return AABB{Min: min, Max: max}
	}
	return AABB{Min: pos, Max: pos}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec2
}

// Overlaps reports whether two boxes intersect.
func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

// Center returns the box midpoint.
func (a AABB) Center() math.Vec2 {
	return a.Min.Add(a.Max).Scale(0.5)
}
