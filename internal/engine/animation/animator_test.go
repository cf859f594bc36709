package animation

import (
	"errors"
	"testing"

	"github.com/Faultbox/rigcore/pkg/math"
)

func testAnimator(t *testing.T) *Animator {
	t.Helper()
	return NewAnimator(testSkeleton(t), Options{MaxLayers: 4})
}

func TestCreateLayerCap(t *testing.T) {
	a := testAnimator(t)
	for i := 0; i < 4; i++ {
		if _, err := a.CreateLayer("", 0.5, Override); err != nil {
			t.Fatalf("layer %d rejected: %v", i, err)
		}
	}
	if _, err := a.CreateLayer("over", 0.5, Override); !errors.Is(err, ErrTooManyLayers) {
		t.Errorf("expected ErrTooManyLayers, got %v", err)
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	a := testAnimator(t)
	// None of these may panic or alter state.
	a.Play("missing", "missing", 1)
	a.StopAnimation("missing")
	a.SetBlendParams("missing", math.Vec2{})
	a.AddBlendNode("missing", math.Vec2{}, "missing", 1)
	a.CrossFade("missing", "missing", "missing", 0.2)
	a.RemoveConstraint("missing")
	p := a.Update(0.016)
	bind := a.Skeleton().BindPose()
	for i := range p.Transforms {
		if p.Transforms[i] != bind.Transforms[i] {
			t.Errorf("no-op calls moved bone %d", i)
		}
	}
}

func TestOverrideLayerComposites(t *testing.T) {
	a := testAnimator(t)
	c := rotClip(t, a.Skeleton(), "pose", false, []AngleKey{{Time: 0, Value: 1}})
	if err := a.AddClip(c); err != nil {
		t.Fatalf("add clip: %v", err)
	}
	if _, err := a.CreateLayer("base", 0.5, Override); err != nil {
		t.Fatalf("create layer: %v", err)
	}
	a.Play("base", "pose", 1)

	p := a.Update(0.016)
	if got := p.Transforms[1].Rotation; math.Abs(got-0.5) > 1e-5 {
		t.Errorf("override at weight 0.5 = %v, want 0.5", got)
	}
}

func TestAdditiveLayerStacks(t *testing.T) {
	a := testAnimator(t)
	base := rotClip(t, a.Skeleton(), "base", false, []AngleKey{{Time: 0, Value: 0.6}})
	add := rotClip(t, a.Skeleton(), "add", false, []AngleKey{{Time: 0, Value: 0.2}})
	for _, c := range []*Clip{base, add} {
		if err := a.AddClip(c); err != nil {
			t.Fatalf("add clip: %v", err)
		}
	}
	if _, err := a.CreateLayer("body", 0.4, Override); err != nil {
		t.Fatal(err)
	}
	if _, err := a.CreateLayer("extra", 1, Additive); err != nil {
		t.Fatal(err)
	}
	a.Play("body", "base", 1)
	a.Play("extra", "add", 1)

	// Override at 0.4 gives 0.24; additive contributes the full 0.2 delta.
	p := a.Update(0.016)
	if got := p.Transforms[1].Rotation; math.Abs(got-0.44) > 1e-4 {
		t.Errorf("stacked rotation = %v, want 0.44", got)
	}
}

func TestLayersCompositeInAscendingWeightOrder(t *testing.T) {
	a := testAnimator(t)
	lo := rotClip(t, a.Skeleton(), "lo", false, []AngleKey{{Time: 0, Value: 1}})
	hi := rotClip(t, a.Skeleton(), "hi", false, []AngleKey{{Time: 0, Value: -1}})
	for _, c := range []*Clip{lo, hi} {
		if err := a.AddClip(c); err != nil {
			t.Fatal(err)
		}
	}
	// Created high-weight first; it must still composite last.
	if _, err := a.CreateLayer("strong", 1, Override); err != nil {
		t.Fatal(err)
	}
	if _, err := a.CreateLayer("weak", 0.3, Override); err != nil {
		t.Fatal(err)
	}
	a.Play("strong", "hi", 1)
	a.Play("weak", "lo", 1)

	p := a.Update(0.016)
	// Weight-1 override applied last fully wins.
	if got := p.Transforms[1].Rotation; math.Abs(got+1) > 1e-5 {
		t.Errorf("final rotation = %v, want -1 (strong layer last)", got)
	}
}

func TestStoppedLayerContributesNothing(t *testing.T) {
	a := testAnimator(t)
	c := rotClip(t, a.Skeleton(), "pose", false, []AngleKey{{Time: 0, Value: 1}})
	if err := a.AddClip(c); err != nil {
		t.Fatal(err)
	}
	if _, err := a.CreateLayer("base", 1, Override); err != nil {
		t.Fatal(err)
	}
	a.Play("base", "pose", 1)
	a.StopAnimation("base")

	p := a.Update(0.016)
	if got := p.Transforms[1].Rotation; got != 0 {
		t.Errorf("stopped layer contributed rotation %v", got)
	}
}

func TestCrossFadeStopsFadedOutLayer(t *testing.T) {
	a := testAnimator(t)
	walk := rotClip(t, a.Skeleton(), "walk", true, []AngleKey{{Time: 0, Value: 1}})
	run := rotClip(t, a.Skeleton(), "run", true, []AngleKey{{Time: 0, Value: -1}})
	for _, c := range []*Clip{walk, run} {
		if err := a.AddClip(c); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := a.CreateLayer("from", 1, Override); err != nil {
		t.Fatal(err)
	}
	if _, err := a.CreateLayer("to", 1, Override); err != nil {
		t.Fatal(err)
	}
	a.Play("from", "walk", 1)
	a.CrossFade("from", "to", "run", 0.2)

	for i := 0; i < 30; i++ {
		a.Update(0.016)
	}
	from, _ := a.Layer("from")
	to, _ := a.Layer("to")
	if from.Playing {
		t.Error("faded-out layer still playing after fade completed")
	}
	if from.Weight != 0 {
		t.Errorf("faded-out weight = %v, want 0", from.Weight)
	}
	if !to.Playing || to.Weight != 1 {
		t.Errorf("faded-in layer playing=%v weight=%v, want true/1", to.Playing, to.Weight)
	}
}

func TestNonLoopingClipStopsAtEnd(t *testing.T) {
	a := testAnimator(t)
	c := rotClip(t, a.Skeleton(), "once", false, []AngleKey{
		{Time: 0, Value: 0},
		{Time: 2, Value: 1},
	})
	if err := a.AddClip(c); err != nil {
		t.Fatal(err)
	}
	if _, err := a.CreateLayer("base", 1, Override); err != nil {
		t.Fatal(err)
	}
	a.Play("base", "once", 1)

	for i := 0; i < 300; i++ {
		a.Update(0.016)
	}
	l, _ := a.Layer("base")
	if l.Playing {
		t.Error("non-looping layer still playing past clip end")
	}
	if l.Time != 2 {
		t.Errorf("layer time = %v, want clamped to 2", l.Time)
	}
}

func TestIKConstraintTwoBone(t *testing.T) {
	a := testAnimator(t)
	err := a.AddConstraint(Constraint{
		Name:   "arm",
		Kind:   ConstraintIK,
		Chain:  []int{1, 2},
		Target: NoTarget,
		Point:  math.Vec2{X: 40, Y: 10},
		Bend:   1,
	})
	if err != nil {
		t.Fatalf("add constraint: %v", err)
	}

	p := a.Update(0.016)
	worlds := p.Worlds(a.Skeleton())

	// Root of the chain sits at (0, 10); the target is 40 away, inside
	// the 65 reach, so segment lengths must survive the solve.
	if got := worlds[1].Position.Distance(worlds[2].Position); math.Abs(got-35) > 1e-2 {
		t.Errorf("upper segment length = %v, want 35", got)
	}
}

func TestLookAtConstraint(t *testing.T) {
	a := testAnimator(t)
	err := a.AddConstraint(Constraint{
		Name:   "gaze",
		Kind:   ConstraintLookAt,
		Bone:   2,
		Target: NoTarget,
		Point:  math.Vec2{X: 35, Y: 110},
	})
	if err != nil {
		t.Fatalf("add constraint: %v", err)
	}
	p := a.Update(0.016)
	worlds := p.Worlds(a.Skeleton())
	// Bone 2 sits at world (35, 10); straight up to the target is pi/2.
	if got := worlds[2].Rotation; math.Abs(got-math.Pi/2) > 1e-4 {
		t.Errorf("look-at rotation = %v, want pi/2", got)
	}
}

func TestIKPoleVectorPicksBendSide(t *testing.T) {
	// Chain root is at world (0, 10); target 40 along +X is inside the
	// 65 reach, so the joint folds to one side of the axis. The pole
	// point decides which.
	solve := func(pole math.Vec2) float32 {
		a := testAnimator(t)
		err := a.AddConstraint(Constraint{
			Name:   "arm",
			Kind:   ConstraintIK,
			Chain:  []int{1, 2},
			Target: NoTarget,
			Point:  math.Vec2{X: 40, Y: 10},
			Pole:   &pole,
		})
		if err != nil {
			t.Fatalf("add constraint: %v", err)
		}
		p := a.Update(0.016)
		worlds := p.Worlds(a.Skeleton())
		return worlds[2].Position.Y
	}

	up := solve(math.Vec2{X: 20, Y: 60})
	down := solve(math.Vec2{X: 20, Y: -40})
	if up <= 10 {
		t.Errorf("pole above the axis put the joint at y=%v, want > 10", up)
	}
	if down >= 10 {
		t.Errorf("pole below the axis put the joint at y=%v, want < 10", down)
	}
}

func TestPositionConstraintPinsBone(t *testing.T) {
	a := testAnimator(t)
	err := a.AddConstraint(Constraint{
		Name:   "pin",
		Kind:   ConstraintPosition,
		Bone:   2,
		Target: NoTarget,
		Point:  math.Vec2{X: 10, Y: 50},
	})
	if err != nil {
		t.Fatalf("add constraint: %v", err)
	}
	p := a.Update(0.016)
	worlds := p.Worlds(a.Skeleton())
	if got := worlds[2].Position; got.Distance(math.Vec2{X: 10, Y: 50}) > 1e-4 {
		t.Errorf("pinned bone at %v, want (10, 50)", got)
	}
}

func TestRotationConstraintPinsBone(t *testing.T) {
	a := testAnimator(t)
	err := a.AddConstraint(Constraint{
		Name:   "twist",
		Kind:   ConstraintRotation,
		Bone:   1,
		Target: NoTarget,
		Angle:  math.Pi / 4,
	})
	if err != nil {
		t.Fatalf("add constraint: %v", err)
	}
	p := a.Update(0.016)
	worlds := p.Worlds(a.Skeleton())
	if got := worlds[1].Rotation; math.Abs(got-math.Pi/4) > 1e-4 {
		t.Errorf("pinned rotation = %v, want pi/4", got)
	}
}

func TestParentConstraintBlendsHalfway(t *testing.T) {
	a := testAnimator(t)
	err := a.AddConstraint(Constraint{
		Name:   "follow",
		Kind:   ConstraintParent,
		Bone:   2,
		Target: 0,
		Weight: 0.5,
	})
	if err != nil {
		t.Fatalf("add constraint: %v", err)
	}
	p := a.Update(0.016)
	worlds := p.Worlds(a.Skeleton())
	// Bone 2 rests at world (35, 10), the root at the origin.
	if got := worlds[2].Position; got.Distance(math.Vec2{X: 17.5, Y: 5}) > 1e-4 {
		t.Errorf("half-weight parent blend put bone at %v, want (17.5, 5)", got)
	}
}

func TestAimConstraintAppliesOffset(t *testing.T) {
	a := testAnimator(t)
	err := a.AddConstraint(Constraint{
		Name:      "aim",
		Kind:      ConstraintAim,
		Bone:      1,
		Target:    NoTarget,
		Point:     math.Vec2{X: 40, Y: 10},
		AimOffset: math.Pi / 2,
	})
	if err != nil {
		t.Fatalf("add constraint: %v", err)
	}
	p := a.Update(0.016)
	worlds := p.Worlds(a.Skeleton())
	// Bone 1 is at (0, 10); the target lies along +X, so the aimed
	// rotation is the offset itself.
	if got := worlds[1].Rotation; math.Abs(got-math.Pi/2) > 1e-4 {
		t.Errorf("aim rotation = %v, want pi/2", got)
	}
}

func TestCrossFadeUsesDefaultDuration(t *testing.T) {
	a := NewAnimator(testSkeleton(t), Options{MaxLayers: 4, DefaultFade: 0.5})
	walk := rotClip(t, a.Skeleton(), "walk", true, []AngleKey{{Time: 0, Value: 1}})
	run := rotClip(t, a.Skeleton(), "run", true, []AngleKey{{Time: 0, Value: -1}})
	for _, c := range []*Clip{walk, run} {
		if err := a.AddClip(c); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := a.CreateLayer("from", 1, Override); err != nil {
		t.Fatal(err)
	}
	if _, err := a.CreateLayer("to", 1, Override); err != nil {
		t.Fatal(err)
	}
	a.Play("from", "walk", 1)
	a.CrossFade("from", "to", "run", 0)

	// A quarter of the default duration in: the ramp must still be
	// running, not completed instantly.
	for i := 0; i < 8; i++ {
		a.Update(0.016)
	}
	from, _ := a.Layer("from")
	to, _ := a.Layer("to")
	if !from.Playing {
		t.Error("faded-out layer stopped before the default fade elapsed")
	}
	if to.Weight <= 0 || to.Weight >= 1 {
		t.Errorf("fade-in weight = %v, want mid-ramp", to.Weight)
	}

	for i := 0; i < 30; i++ {
		a.Update(0.016)
	}
	from, _ = a.Layer("from")
	if from.Playing || from.Weight != 0 {
		t.Errorf("fade did not complete: playing=%v weight=%v", from.Playing, from.Weight)
	}
}

func TestAddConstraintValidation(t *testing.T) {
	a := testAnimator(t)
	if err := a.AddConstraint(Constraint{Kind: ConstraintIK, Chain: []int{1}, Target: NoTarget}); err == nil {
		t.Error("expected error for 1-bone IK chain")
	}
	if err := a.AddConstraint(Constraint{Kind: ConstraintLookAt, Bone: 99, Target: NoTarget}); err == nil {
		t.Error("expected error for out-of-range bone")
	}
}
