package animation

import (
	"testing"

	"github.com/Faultbox/rigcore/internal/engine/skeleton"
	"github.com/Faultbox/rigcore/pkg/math"
)

func testSkeleton(t *testing.T) *skeleton.Skeleton {
	t.Helper()
	s := skeleton.New()
	mustAdd := func(b skeleton.Bone) int {
		t.Helper()
		i, err := s.AddBone(b)
		if err != nil {
			t.Fatalf("add bone %s: %v", b.Name, err)
		}
		return i
	}
	mustAdd(skeleton.Bone{Name: "root", Parent: skeleton.NoParent})
	mustAdd(skeleton.Bone{Name: "upper", Parent: 0, Position: math.Vec2{Y: 10}, Length: 35})
	mustAdd(skeleton.Bone{Name: "lower", Parent: 1, Position: math.Vec2{X: 35}, Length: 30})
	return s
}

func rotClip(t *testing.T, s *skeleton.Skeleton, name string, loop bool, keys []AngleKey) *Clip {
	t.Helper()
	c, err := NewClip(name, 2, loop, s.Count())
	if err != nil {
		t.Fatalf("new clip: %v", err)
	}
	if err := c.SetTrack(1, &Track{Rotation: keys}); err != nil {
		t.Fatalf("set track: %v", err)
	}
	return c
}

func TestSampleIsPure(t *testing.T) {
	s := testSkeleton(t)
	c := rotClip(t, s, "wave", true, []AngleKey{
		{Time: 0, Value: 0},
		{Time: 1, Value: 1, Easing: "ease_in_out"},
		{Time: 2, Value: 0},
	})
	for _, at := range []float32{0, 0.37, 1.123, 1.999, 5.5} {
		a := Sample(s, c, at)
		b := Sample(s, c, at)
		for i := range a.Transforms {
			if a.Transforms[i] != b.Transforms[i] {
				t.Fatalf("Sample at %v not deterministic for bone %d", at, i)
			}
		}
	}
}

func TestSampleSingleKeyVerbatim(t *testing.T) {
	s := testSkeleton(t)
	c := rotClip(t, s, "hold", false, []AngleKey{{Time: 0.5, Value: 0.9}})
	for _, at := range []float32{0, 0.25, 0.5, 1.7, 99} {
		p := Sample(s, c, at)
		if p.Transforms[1].Rotation != 0.9 {
			t.Errorf("Sample(%v) rotation = %v, want 0.9", at, p.Transforms[1].Rotation)
		}
	}
}

func TestSampleNoKeysLeavesRest(t *testing.T) {
	s := testSkeleton(t)
	c, err := NewClip("empty", 1, false, s.Count())
	if err != nil {
		t.Fatalf("new clip: %v", err)
	}
	p := Sample(s, c, 0.5)
	bind := s.BindPose()
	for i := range p.Transforms {
		if p.Transforms[i] != bind.Transforms[i] {
			t.Errorf("bone %d moved without keys", i)
		}
	}
}

func TestSampleBracketsAndEases(t *testing.T) {
	s := testSkeleton(t)
	c := rotClip(t, s, "ramp", false, []AngleKey{
		{Time: 0, Value: 0, Easing: "ease_in"}, // quad: t*t
		{Time: 1, Value: 1},
	})
	p := Sample(s, c, 0.5)
	if got := p.Transforms[1].Rotation; math.Abs(got-0.25) > 1e-5 {
		t.Errorf("eased rotation at 0.5 = %v, want 0.25", got)
	}
}

func TestSampleRotationShortestArc(t *testing.T) {
	s := testSkeleton(t)
	// 170deg to -170deg should pass through +/-180, not zero.
	a := 170.0 / 180.0 * math.Pi
	b := -170.0 / 180.0 * math.Pi
	c := rotClip(t, s, "wrap", false, []AngleKey{
		{Time: 0, Value: a},
		{Time: 1, Value: b},
	})
	p := Sample(s, c, 0.5)
	got := p.Transforms[1].Rotation
	if math.Abs(math.WrapAngle(got-math.Pi)) > 1e-4 {
		t.Errorf("midpoint rotation = %v, want +/-pi", got)
	}
}

func TestSampleLoopWrapsModulo(t *testing.T) {
	s := testSkeleton(t)
	c := rotClip(t, s, "loop", true, []AngleKey{
		{Time: 0, Value: 0},
		{Time: 2, Value: 1},
	})
	p1 := Sample(s, c, 0.5)
	p2 := Sample(s, c, 2.5)
	if p1.Transforms[1].Rotation != p2.Transforms[1].Rotation {
		t.Errorf("looping clip differs across wrap: %v vs %v",
			p1.Transforms[1].Rotation, p2.Transforms[1].Rotation)
	}
}

func TestSampleNonLoopClamps(t *testing.T) {
	s := testSkeleton(t)
	c := rotClip(t, s, "once", false, []AngleKey{
		{Time: 0, Value: 0},
		{Time: 2, Value: 1},
	})
	p := Sample(s, c, 10)
	if got := p.Transforms[1].Rotation; got != 1 {
		t.Errorf("clamped rotation = %v, want 1", got)
	}
	p = Sample(s, c, -5)
	if got := p.Transforms[1].Rotation; got != 0 {
		t.Errorf("clamped rotation below zero = %v, want 0", got)
	}
}

func TestSetTrackRejectsDecreasingTimes(t *testing.T) {
	s := testSkeleton(t)
	c, err := NewClip("bad", 1, false, s.Count())
	if err != nil {
		t.Fatalf("new clip: %v", err)
	}
	err = c.SetTrack(0, &Track{Rotation: []AngleKey{
		{Time: 1, Value: 0},
		{Time: 0.5, Value: 1},
	}})
	if err == nil {
		t.Error("expected error for decreasing keyframe times")
	}
}

func TestNewClipRejectsZeroDuration(t *testing.T) {
	if _, err := NewClip("zero", 0, false, 3); err == nil {
		t.Error("expected error for zero duration")
	}
}
