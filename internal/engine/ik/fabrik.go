package ik

import (
	"github.com/Faultbox/rigcore/pkg/math"
)

// DefaultIterations caps FABRIK passes when the caller gives no limit.
const DefaultIterations = 10

// DefaultTolerance is the end-effector distance considered "reached".
const DefaultTolerance = 0.01

// SolveFABRIK runs forward-and-backward-reaching IK on a joint chain of
// 2+ points, moving the last point toward target while preserving every
// segment length. points is modified in place. Terminates when the end
// effector is within tolerance of the target or after maxIterations,
// whichever comes first; an unreachable target leaves the chain fully
// extended toward it. Returns the number of iterations run.
func SolveFABRIK(points []math.Vec2, target math.Vec2, maxIterations int, tolerance float32) int {
	if len(points) < 2 {
		return 0
	}
	if maxIterations <= 0 {
		maxIterations = DefaultIterations
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	last := len(points) - 1
	lengths := make([]float32, last)
	for i := 0; i < last; i++ {
		lengths[i] = points[i].Distance(points[i+1])
	}
	origin := points[0]

	iters := 0
	for ; iters < maxIterations; iters++ {
		if points[last].Distance(target) <= tolerance {
			break
		}

		// Forward pass: snap the effector to the target, walk to the root.
		points[last] = target
		for i := last - 1; i >= 0; i-- {
			dir := points[i].Sub(points[i+1]).Normalize()
			if dir == (math.Vec2{}) {
				continue
			}
			points[i] = points[i+1].Add(dir.Scale(lengths[i]))
		}

		// Backward pass: snap the root home, walk back out.
		points[0] = origin
		for i := 1; i <= last; i++ {
			dir := points[i].Sub(points[i-1]).Normalize()
			if dir == (math.Vec2{}) {
				continue
			}
			points[i] = points[i-1].Add(dir.Scale(lengths[i-1]))
		}
	}
	return iters
}
