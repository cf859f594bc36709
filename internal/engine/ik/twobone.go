// Package ik provides analytic and iterative inverse-kinematics solvers.
package ik

import (
	"github.com/Faultbox/rigcore/pkg/math"
)

// BendLeft and BendRight pick which side of the root-target axis the
// middle joint folds toward.
const (
	BendLeft  float32 = 1
	BendRight float32 = -1
)

// SolveTwoBone places the middle joint and end effector of a two-segment
// chain so the effector reaches target, via the law of cosines. When the
// target lies beyond the chain's reach the chain stretches straight
// toward it instead. bend is +/-1 and disambiguates elbow/knee folding.
func SolveTwoBone(root, target math.Vec2, upperLen, lowerLen, bend float32) (joint, end math.Vec2) {
	delta := target.Sub(root)
	dist := delta.Length()

	if dist >= upperLen+lowerLen || dist == 0 {
		dir := delta.Normalize()
		if dir == (math.Vec2{}) {
			dir = math.Vec2{X: 1}
		}
		joint = root.Add(dir.Scale(upperLen))
		end = joint.Add(dir.Scale(lowerLen))
		return joint, end
	}

	// cos(angle at root) between root->target and root->joint.
	cosA := (upperLen*upperLen + dist*dist - lowerLen*lowerLen) / (2 * upperLen * dist)
	rootAngle := math.Acos(cosA)
	baseAngle := delta.Angle()

	jointAngle := baseAngle + bend*rootAngle
	joint = root.Add(math.Vec2{X: math.Cos(jointAngle), Y: math.Sin(jointAngle)}.Scale(upperLen))
	return joint, target
}
