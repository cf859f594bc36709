package animation

import (
	"github.com/Faultbox/rigcore/internal/engine/ik"
	"github.com/Faultbox/rigcore/internal/engine/skeleton"
	"github.com/Faultbox/rigcore/pkg/math"
)

// ConstraintKind selects a pose-constraint behavior. The set is closed;
// apply matches it exhaustively.
type ConstraintKind int

const (
	// ConstraintIK solves a bone chain toward a target point.
	ConstraintIK ConstraintKind = iota
	// ConstraintLookAt points a bone from its position toward a target.
	ConstraintLookAt
	// ConstraintAim rotates a bone so its length axis tracks a target,
	// offset by AimOffset.
	ConstraintAim
	// ConstraintParent blends a bone's world transform toward another
	// bone's.
	ConstraintParent
	// ConstraintPosition pins a bone's world position toward a point.
	ConstraintPosition
	// ConstraintRotation pins a bone's world rotation toward an angle.
	ConstraintRotation
)

// NoTarget marks a constraint without a target bone.
const NoTarget = -1

// Constraint adjusts the composited pose after layer blending. Bone
// references are arena indices, resolved when the constraint is added.
type Constraint struct {
	Name   string
	Kind   ConstraintKind
	Bone   int
	Target int // target bone index, or NoTarget
	Point  math.Vec2
	Angle  float32
	Weight float32

	// IK chain settings.
	Chain      []int // 2+ bone indices, root first
	Pole       *math.Vec2
	Iterations int
	Tolerance  float32
	Bend       float32 // +/-1 fold direction
	AimOffset  float32

	Enabled bool
}

// apply mutates pose in place. worlds must be current for the pose and
// is recomputed by the caller between constraints.
func (c *Constraint) apply(s *skeleton.Skeleton, pose *skeleton.Pose, worlds []skeleton.BoneTransform) {
	if !c.Enabled || c.Weight <= 0 {
		return
	}
	switch c.Kind {
	case ConstraintIK:
		c.applyIK(s, pose, worlds)
	case ConstraintLookAt:
		c.applyLookAt(s, pose, worlds, 0)
	case ConstraintAim:
		c.applyLookAt(s, pose, worlds, c.AimOffset)
	case ConstraintParent:
		c.applyParent(s, pose, worlds)
	case ConstraintPosition:
		w := worlds[c.Bone]
		pos := w.Position.Lerp(c.targetPoint(worlds), c.Weight)
		pose.SetWorld(s, worlds, c.Bone, pos, w.Rotation)
	case ConstraintRotation:
		w := worlds[c.Bone]
		rot := math.LerpAngle(w.Rotation, c.Angle, c.Weight)
		pose.SetWorld(s, worlds, c.Bone, w.Position, rot)
	}
}

// targetPoint resolves the constraint target: a bone's world position
// when a target bone is set, the fixed point otherwise.
func (c *Constraint) targetPoint(worlds []skeleton.BoneTransform) math.Vec2 {
	if c.Target != NoTarget {
		return worlds[c.Target].Position
	}
	return c.Point
}

func (c *Constraint) applyLookAt(s *skeleton.Skeleton, pose *skeleton.Pose, worlds []skeleton.BoneTransform, offset float32) {
	w := worlds[c.Bone]
	delta := c.targetPoint(worlds).Sub(w.Position)
	if delta == (math.Vec2{}) {
		return
	}
	want := delta.Angle() + offset
	rot := math.LerpAngle(w.Rotation, want, c.Weight)
	pose.SetWorld(s, worlds, c.Bone, w.Position, rot)
}

func (c *Constraint) applyParent(s *skeleton.Skeleton, pose *skeleton.Pose, worlds []skeleton.BoneTransform) {
	if c.Target == NoTarget {
		return
	}
	w := worlds[c.Bone]
	tw := worlds[c.Target]
	pos := w.Position.Lerp(tw.Position, c.Weight)
	rot := math.LerpAngle(w.Rotation, tw.Rotation, c.Weight)
	pose.SetWorld(s, worlds, c.Bone, pos, rot)
}

// applyIK solves the chain and writes the solved joint placements back
// as bone transforms. Two-bone chains use the analytic solver; longer
// chains run FABRIK on the joint positions plus the end bone's tip.
func (c *Constraint) applyIK(s *skeleton.Skeleton, pose *skeleton.Pose, worlds []skeleton.BoneTransform) {
	if len(c.Chain) < 2 {
		return
	}
	target := c.targetPoint(worlds)

	if len(c.Chain) == 2 {
		upper := c.Chain[0]
		lower := c.Chain[1]
		root := worlds[upper].Position
		bend := c.Bend
		if c.Pole != nil {
			// The pole point picks the fold side: the joint lands on
			// the same side of the root-target axis as the pole.
			if cross := target.Sub(root).Cross(c.Pole.Sub(root)); cross > 0 {
				bend = ik.BendLeft
			} else if cross < 0 {
				bend = ik.BendRight
			}
		}
		if bend == 0 {
			bend = ik.BendLeft
		}
		joint, end := ik.SolveTwoBone(root, target, s.Bone(upper).Length, s.Bone(lower).Length, bend)

		rotUpper := joint.Sub(root).Angle()
		rotLower := end.Sub(joint).Angle()
		c.writeJoint(s, pose, worlds, upper, root, rotUpper)
		worlds = pose.Worlds(s)
		c.writeJoint(s, pose, worlds, lower, joint, rotLower)
		return
	}

	points := make([]math.Vec2, len(c.Chain)+1)
	for i, bone := range c.Chain {
		points[i] = worlds[bone].Position
	}
	tip := c.Chain[len(c.Chain)-1]
	points[len(c.Chain)] = worlds[tip].Position.Add(
		math.Vec2{X: s.Bone(tip).Length}.Rotate(worlds[tip].Rotation))

	ik.SolveFABRIK(points, target, c.Iterations, c.Tolerance)

	for i, bone := range c.Chain {
		rot := points[i+1].Sub(points[i]).Angle()
		c.writeJoint(s, pose, worlds, bone, points[i], rot)
		worlds = pose.Worlds(s)
	}
}

// writeJoint blends a bone toward a solved world placement by the
// constraint weight.
func (c *Constraint) writeJoint(s *skeleton.Skeleton, pose *skeleton.Pose, worlds []skeleton.BoneTransform, bone int, pos math.Vec2, rot float32) {
	w := worlds[bone]
	pose.SetWorld(s, worlds, bone,
		w.Position.Lerp(pos, c.Weight),
		math.LerpAngle(w.Rotation, rot, c.Weight))
}
