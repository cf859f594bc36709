package ik

import (
	"testing"

	"github.com/Faultbox/rigcore/pkg/math"
)

func TestTwoBoneReachableSegmentLengths(t *testing.T) {
	root := math.Vec2{}
	target := math.Vec2{X: 40, Y: 0}
	joint, end := SolveTwoBone(root, target, 35, 30, BendLeft)

	if got := root.Distance(joint); math.Abs(got-35) > 1e-3 {
		t.Errorf("root-joint distance = %v, want 35", got)
	}
	if got := joint.Distance(end); math.Abs(got-30) > 1e-3 {
		t.Errorf("joint-end distance = %v, want 30", got)
	}
	if end.Distance(target) > 1e-4 {
		t.Errorf("end = %v, want target %v", end, target)
	}
}

func TestTwoBoneLawOfCosinesAngle(t *testing.T) {
	// upper=35, lower=30, target distance 40:
	// cos(angle) = (35^2 + 40^2 - 30^2) / (2*35*40).
	root := math.Vec2{}
	target := math.Vec2{X: 40, Y: 0}
	joint, _ := SolveTwoBone(root, target, 35, 30, BendLeft)

	wantCos := float32(35*35+40*40-30*30) / (2 * 35 * 40)
	gotCos := math.Cos(joint.Sub(root).Angle() - target.Sub(root).Angle())
	if math.Abs(gotCos-wantCos) > 1e-4 {
		t.Errorf("cos(joint angle) = %v, want %v", gotCos, wantCos)
	}
}

func TestTwoBoneBendSign(t *testing.T) {
	root := math.Vec2{}
	target := math.Vec2{X: 40, Y: 0}
	left, _ := SolveTwoBone(root, target, 35, 30, BendLeft)
	right, _ := SolveTwoBone(root, target, 35, 30, BendRight)
	if left.Y <= 0 {
		t.Errorf("BendLeft joint.Y = %v, want > 0", left.Y)
	}
	if right.Y >= 0 {
		t.Errorf("BendRight joint.Y = %v, want < 0", right.Y)
	}
}

func TestTwoBoneUnreachableStretchesStraight(t *testing.T) {
	root := math.Vec2{}
	target := math.Vec2{X: 100, Y: 0}
	joint, end := SolveTwoBone(root, target, 35, 30, BendLeft)
	if joint != (math.Vec2{X: 35, Y: 0}) {
		t.Errorf("joint = %v, want (35, 0)", joint)
	}
	if end != (math.Vec2{X: 65, Y: 0}) {
		t.Errorf("end = %v, want (65, 0)", end)
	}
}

func chain(n int, seg float32) []math.Vec2 {
	points := make([]math.Vec2, n)
	for i := range points {
		points[i] = math.Vec2{X: float32(i) * seg}
	}
	return points
}

func TestFABRIKReachesTarget(t *testing.T) {
	points := chain(4, 10)
	target := math.Vec2{X: 15, Y: 12}
	iters := SolveFABRIK(points, target, 20, 0.01)

	if iters > 20 {
		t.Fatalf("iterations = %d, exceeds cap", iters)
	}
	if got := points[3].Distance(target); got > 0.01 {
		t.Errorf("end effector distance = %v, want <= 0.01", got)
	}
}

func TestFABRIKPreservesSegmentLengths(t *testing.T) {
	points := chain(5, 7)
	SolveFABRIK(points, math.Vec2{X: 10, Y: 18}, 30, 0.001)
	for i := 0; i < len(points)-1; i++ {
		if got := points[i].Distance(points[i+1]); math.Abs(got-7) > 1e-3 {
			t.Errorf("segment %d length = %v, want 7", i, got)
		}
	}
}

func TestFABRIKKeepsRootFixed(t *testing.T) {
	points := chain(3, 5)
	SolveFABRIK(points, math.Vec2{X: -4, Y: 6}, 20, 0.001)
	if points[0] != (math.Vec2{}) {
		t.Errorf("root moved to %v", points[0])
	}
}

func TestFABRIKUnreachableExtendsChain(t *testing.T) {
	points := chain(3, 10)
	target := math.Vec2{X: 100, Y: 0}
	SolveFABRIK(points, target, 15, 0.001)

	// Max reach is 20; the chain should be fully extended toward the
	// target without ever reaching it.
	if got := points[2].Distance(math.Vec2{}); math.Abs(got-20) > 0.05 {
		t.Errorf("extended reach = %v, want ~20", got)
	}
	for i := 0; i < len(points)-1; i++ {
		if got := points[i].Distance(points[i+1]); math.Abs(got-10) > 1e-2 {
			t.Errorf("segment %d length = %v, want 10", i, got)
		}
	}
}

func TestFABRIKAlreadyAtTargetNoIterations(t *testing.T) {
	points := chain(3, 10)
	iters := SolveFABRIK(points, points[2], 20, 0.01)
	if iters != 0 {
		t.Errorf("iterations = %d, want 0", iters)
	}
}
