package physics

import (
	"testing"

	"github.com/Faultbox/rigcore/pkg/math"
)

const step = float32(1.0 / 120.0)

func newTestWorld(gravity math.Vec2) *World {
	return NewWorld(Options{Gravity: gravity, Timestep: step})
}

func dynamicSphere(name string, pos math.Vec2, radius float32) BodyDef {
	return BodyDef{Name: name, Position: pos, Mass: 1, Shape: Sphere(radius)}
}

func stepFor(w *World, seconds float32) {
	n := int(seconds/step + 0.5)
	for i := 0; i < n; i++ {
		w.Step(step)
	}
}

func TestStaticBodyNeverMoves(t *testing.T) {
	w := newTestWorld(math.Vec2{Y: -9.81})
	idx, err := w.CreateBody(BodyDef{Name: "floor", Static: true, Shape: Box(50, 1)})
	if err != nil {
		t.Fatalf("CreateBody: %v", err)
	}
	w.ApplyForce(idx, math.Vec2{X: 100})
	stepFor(w, 1.0)
	b := w.Body(idx)
	if b.Position != (math.Vec2{}) {
		t.Errorf("static position = %v, want origin", b.Position)
	}
	if b.Velocity != (math.Vec2{}) {
		t.Errorf("static velocity = %v, want zero", b.Velocity)
	}
}

func TestFreeFallMatchesGravity(t *testing.T) {
	g := float32(-10)
	w := newTestWorld(math.Vec2{Y: g})
	idx, err := w.CreateBody(dynamicSphere("ball", math.Vec2{}, 1))
	if err != nil {
		t.Fatalf("CreateBody: %v", err)
	}
	stepFor(w, 1.0)
	b := w.Body(idx)
	want := g * 1.0
	if math.Abs(b.Velocity.Y-want) > 0.01 {
		t.Errorf("velocity after 1s = %v, want %v", b.Velocity.Y, want)
	}
	// Symplectic Euler lands slightly below the analytic g*t^2/2.
	if b.Position.Y > -4.9 || b.Position.Y < -5.2 {
		t.Errorf("position after 1s = %v, want near -5", b.Position.Y)
	}
}

func TestDynamicMassValidation(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	if _, err := w.CreateBody(BodyDef{Name: "bad", Mass: 0}); err == nil {
		t.Error("zero-mass dynamic body accepted")
	}
	if _, err := w.CreateBody(dynamicSphere("a", math.Vec2{}, 1)); err != nil {
		t.Fatalf("CreateBody: %v", err)
	}
	if _, err := w.CreateBody(dynamicSphere("a", math.Vec2{X: 5}, 1)); err == nil {
		t.Error("duplicate name accepted")
	}
}

func TestOverlappingSpheresSeparate(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	a, _ := w.CreateBody(dynamicSphere("a", math.Vec2{}, 1))
	b, _ := w.CreateBody(dynamicSphere("b", math.Vec2{X: 1.5}, 1))
	w.Step(step)
	dist := w.Body(a).Position.Distance(w.Body(b).Position)
	if dist < 1.99 {
		t.Errorf("post-step distance = %v, want >= 1.99", dist)
	}
	if len(w.Contacts()) != 1 {
		t.Errorf("contacts = %d, want 1", len(w.Contacts()))
	}
}

func TestRestitutionBounce(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	_, err := w.CreateBody(BodyDef{
		Name: "floor", Static: true, Position: math.Vec2{Y: -2},
		Shape: Sphere(1), Restitution: 1,
	})
	if err != nil {
		t.Fatalf("CreateBody: %v", err)
	}
	ball, _ := w.CreateBody(BodyDef{
		Name: "ball", Position: math.Vec2{Y: -0.05}, Mass: 1,
		Shape: Sphere(1), Restitution: 1,
	})
	w.Body(ball).Velocity = math.Vec2{Y: -5}
	w.Step(step)
	if v := w.Body(ball).Velocity.Y; v <= 0 {
		t.Errorf("velocity after bounce = %v, want positive", v)
	}
	if len(w.Contacts()) != 1 || w.Contacts()[0].Impulse <= 0 {
		t.Errorf("contact impulse not recorded: %+v", w.Contacts())
	}
}

func TestDistanceConstraintSplitsCorrection(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	a, _ := w.CreateBody(dynamicSphere("a", math.Vec2{}, 0.1))
	b, _ := w.CreateBody(dynamicSphere("b", math.Vec2{X: 20}, 0.1))
	_, err := w.CreateConstraint(Constraint{
		Kind: ConstraintDistance, BodyA: a, BodyB: b, RestLength: 10,
	})
	if err != nil {
		t.Fatalf("CreateConstraint: %v", err)
	}
	w.Step(step)
	pa := w.Body(a).Position
	pb := w.Body(b).Position
	if math.Abs(pa.X-5) > 0.01 {
		t.Errorf("body a moved to %v, want x=5", pa)
	}
	if math.Abs(pb.X-15) > 0.01 {
		t.Errorf("body b moved to %v, want x=15", pb)
	}
}

func TestDisabledConstraintIsSkipped(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	a, _ := w.CreateBody(dynamicSphere("a", math.Vec2{}, 0.1))
	b, _ := w.CreateBody(dynamicSphere("b", math.Vec2{X: 20}, 0.1))
	idx, _ := w.CreateConstraint(Constraint{
		Kind: ConstraintDistance, BodyA: a, BodyB: b, RestLength: 10,
	})
	w.ConstraintAt(idx).Enabled = false
	w.Step(step)
	if x := w.Body(b).Position.X; x != 20 {
		t.Errorf("disabled constraint moved body to x=%v", x)
	}
}

func TestDistanceConstraintStaticAnchor(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	anchor, _ := w.CreateBody(BodyDef{Name: "anchor", Static: true, Shape: Sphere(0.1)})
	bob, _ := w.CreateBody(dynamicSphere("bob", math.Vec2{X: 20}, 0.1))
	w.CreateConstraint(Constraint{
		Kind: ConstraintDistance, BodyA: anchor, BodyB: bob, RestLength: 10,
	})
	w.Step(step)
	if p := w.Body(anchor).Position; p != (math.Vec2{}) {
		t.Errorf("static anchor moved to %v", p)
	}
	if x := w.Body(bob).Position.X; math.Abs(x-10) > 0.01 {
		t.Errorf("bob at x=%v, want 10", x)
	}
}

func TestSpringConstraintPullsTogether(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	a, _ := w.CreateBody(dynamicSphere("a", math.Vec2{}, 0.1))
	b, _ := w.CreateBody(dynamicSphere("b", math.Vec2{X: 20}, 0.1))
	w.CreateConstraint(Constraint{
		Kind: ConstraintSpring, BodyA: a, BodyB: b,
		RestLength: 10, SpringK: 5, SpringD: 0.5,
	})
	before := w.Body(b).Position.X - w.Body(a).Position.X
	stepFor(w, 0.1)
	after := w.Body(b).Position.X - w.Body(a).Position.X
	if after >= before {
		t.Errorf("spring gap grew from %v to %v", before, after)
	}
}

func TestSleepAndWake(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	idx, _ := w.CreateBody(dynamicSphere("idle", math.Vec2{}, 1))
	stepFor(w, 0.4)
	if w.Body(idx).Sleeping {
		t.Fatal("body slept before the grace period elapsed")
	}
	stepFor(w, 0.3)
	if !w.Body(idx).Sleeping {
		t.Fatal("body still awake after 0.7s at rest")
	}
	w.ApplyImpulse(idx, math.Vec2{X: 2})
	if w.Body(idx).Sleeping {
		t.Error("impulse did not wake the body")
	}
	if v := w.Body(idx).Velocity.X; v != 2 {
		t.Errorf("impulse velocity = %v, want 2", v)
	}
}

func TestSleepingBodySkipsGravity(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	idx, _ := w.CreateBody(dynamicSphere("idle", math.Vec2{}, 1))
	stepFor(w, 0.7)
	if !w.Body(idx).Sleeping {
		t.Fatal("body should be asleep")
	}
	w.Gravity = math.Vec2{Y: -10}
	stepFor(w, 0.5)
	if p := w.Body(idx).Position; p != (math.Vec2{}) {
		t.Errorf("sleeping body drifted to %v", p)
	}
}

func TestRemoveBodyCascadesConstraints(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	a, _ := w.CreateBody(dynamicSphere("a", math.Vec2{}, 1))
	b, _ := w.CreateBody(dynamicSphere("b", math.Vec2{X: 5}, 1))
	c, _ := w.CreateBody(dynamicSphere("c", math.Vec2{X: 10}, 1))
	w.CreateConstraint(Constraint{Name: "ab", Kind: ConstraintDistance, BodyA: a, BodyB: b, RestLength: 5})
	w.CreateConstraint(Constraint{Name: "bc", Kind: ConstraintDistance, BodyA: b, BodyB: c, RestLength: 5})
	if err := w.RemoveBody(b); err != nil {
		t.Fatalf("RemoveBody: %v", err)
	}
	if n := w.Constraints(); n != 0 {
		t.Errorf("constraints after removal = %d, want 0", n)
	}
	if n := w.Bodies(); n != 2 {
		t.Errorf("bodies after removal = %d, want 2", n)
	}
	// The swapped-in body keeps resolving by name.
	idx, ok := w.BodyByName("c")
	if !ok {
		t.Fatal("body c lost after swap-remove")
	}
	if got := w.Body(idx).Position.X; got != 10 {
		t.Errorf("body c position = %v, want 10", got)
	}
}

func TestRemoveBodyReindexesConstraints(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	a, _ := w.CreateBody(dynamicSphere("a", math.Vec2{}, 0.1))
	w.CreateBody(dynamicSphere("victim", math.Vec2{X: 50}, 0.1))
	c, _ := w.CreateBody(dynamicSphere("c", math.Vec2{X: 20}, 0.1))
	w.CreateConstraint(Constraint{Kind: ConstraintDistance, BodyA: a, BodyB: c, RestLength: 10})
	victim, _ := w.BodyByName("victim")
	if err := w.RemoveBody(victim); err != nil {
		t.Fatalf("RemoveBody: %v", err)
	}
	// The a-c constraint must still target c after the swap.
	w.Step(step)
	ci, _ := w.BodyByName("c")
	if x := w.Body(ci).Position.X; math.Abs(x-15) > 0.01 {
		t.Errorf("c at x=%v after reindexed constraint solve, want 15", x)
	}
}

func TestBroadphaseSkipsDistantBodies(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	w.CreateBody(dynamicSphere("a", math.Vec2{}, 1))
	w.CreateBody(dynamicSphere("b", math.Vec2{X: 1000}, 1))
	w.Step(step)
	if n := len(w.Contacts()); n != 0 {
		t.Errorf("contacts between distant bodies = %d, want 0", n)
	}
}

func TestSpatialHashDedupesPairs(t *testing.T) {
	h := newSpatialHash(10)
	boxes := []AABB{
		{Min: math.Vec2{X: -5, Y: -5}, Max: math.Vec2{X: 15, Y: 15}},
		{Min: math.Vec2{X: 0, Y: 0}, Max: math.Vec2{X: 20, Y: 20}},
	}
	for i, b := range boxes {
		h.insert(i, b)
	}
	pairs := h.pairs(boxes)
	if len(pairs) != 1 {
		t.Errorf("pairs = %d, want 1", len(pairs))
	}
}

func TestStepClampsSubSteps(t *testing.T) {
	w := NewWorld(Options{Gravity: math.Vec2{Y: -10}, Timestep: step, MaxSubSteps: 4})
	idx, _ := w.CreateBody(dynamicSphere("ball", math.Vec2{}, 1))
	// A huge dt advances at most MaxSubSteps sub-steps.
	w.Step(10)
	want := float32(-10) * step * 4
	if v := w.Body(idx).Velocity.Y; math.Abs(v-want) > 0.001 {
		t.Errorf("velocity after clamped step = %v, want %v", v, want)
	}
}

func TestShapeAABB(t *testing.T) {
	pos := math.Vec2{X: 10, Y: 20}
	cases := []struct {
		name     string
		shape    Shape
		min, max math.Vec2
	}{
		{"sphere", Sphere(2), math.Vec2{X: 8, Y: 18}, math.Vec2{X: 12, Y: 22}},
		{"box", Box(3, 1), math.Vec2{X: 7, Y: 19}, math.Vec2{X: 13, Y: 21}},
		{"capsule", Capsule(1, 2), math.Vec2{X: 9, Y: 17}, math.Vec2{X: 11, Y: 23}},
		{"mesh", MeshHull([]math.Vec2{{X: -1, Y: 0}, {X: 2, Y: 3}}), math.Vec2{X: 9, Y: 20}, math.Vec2{X: 12, Y: 23}},
	}
	for _, tc := range cases {
		box := tc.shape.aabb(pos)
		if box.Min != tc.min || box.Max != tc.max {
			t.Errorf("%s aabb = %v..%v, want %v..%v", tc.name, box.Min, box.Max, tc.min, tc.max)
		}
	}
}

func TestConeConstraintClampsDirection(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	a, _ := w.CreateBody(BodyDef{Name: "pivot", Static: true, Shape: Sphere(0.1)})
	b, _ := w.CreateBody(dynamicSphere("tip", math.Vec2{X: 0, Y: 10}, 0.1))
	w.CreateConstraint(Constraint{
		Kind: ConstraintCone, BodyA: a, BodyB: b, HalfAngle: math.Pi / 4,
	})
	w.Step(step)
	dir := w.Body(b).Position.Sub(w.Body(a).Position)
	angle := math.Atan2(dir.Y, dir.X)
	if angle > math.Pi/4+0.001 {
		t.Errorf("direction angle = %v, want <= pi/4", angle)
	}
	if d := dir.Length(); math.Abs(d-10) > 0.01 {
		t.Errorf("distance = %v, want preserved 10", d)
	}
}

func TestFrictionSlowsTangentialMotion(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	_, err := w.CreateBody(BodyDef{Name: "floor", Static: true, Friction: 1, Shape: Sphere(1)})
	if err != nil {
		t.Fatalf("CreateBody: %v", err)
	}
	idx, err := w.CreateBody(BodyDef{
		Name: "puck", Position: math.Vec2{Y: 1.9}, Mass: 1, Friction: 1, Shape: Sphere(1),
	})
	if err != nil {
		t.Fatalf("CreateBody: %v", err)
	}
	w.Body(idx).Velocity = math.Vec2{X: 4, Y: -2}
	w.Step(step)

	b := w.Body(idx)
	if math.Abs(b.Velocity.Y) > 1e-3 {
		t.Errorf("normal velocity after contact = %v, want 0", b.Velocity.Y)
	}
	// The tangential impulse is clamped to mu*jn = 2, so the slide
	// drops from 4 to 2 instead of stopping outright.
	if math.Abs(b.Velocity.X-2) > 1e-3 {
		t.Errorf("tangential velocity = %v, want 2", b.Velocity.X)
	}
}

func TestHingeConstraintPinsAnchor(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	a, _ := w.CreateBody(BodyDef{Name: "frame", Static: true, Shape: Sphere(0.5)})
	b, _ := w.CreateBody(dynamicSphere("door", math.Vec2{X: 10}, 0.5))
	if _, err := w.CreateConstraint(Constraint{
		Kind: ConstraintHinge, BodyA: a, BodyB: b, AnchorA: math.Vec2{X: 5},
	}); err != nil {
		t.Fatalf("CreateConstraint: %v", err)
	}
	w.Step(step)
	if got := w.Body(b).Position; got.Distance(math.Vec2{X: 5}) > 1e-4 {
		t.Errorf("hinged body at %v, want the (5, 0) anchor", got)
	}
}

func TestFixedConstraintAlignsAngles(t *testing.T) {
	w := newTestWorld(math.Vec2{})
	a, _ := w.CreateBody(dynamicSphere("a", math.Vec2{}, 0.5))
	b, _ := w.CreateBody(dynamicSphere("b", math.Vec2{X: 20}, 0.5))
	w.Body(b).Angle = 1
	if _, err := w.CreateConstraint(Constraint{
		Kind: ConstraintFixed, BodyA: a, BodyB: b, RestLength: 10,
	}); err != nil {
		t.Fatalf("CreateConstraint: %v", err)
	}
	w.Step(step)

	// Equal masses split both the length correction and the angle
	// difference down the middle.
	if got := w.Body(a).Position; got.Distance(math.Vec2{X: 5}) > 1e-3 {
		t.Errorf("body a at %v, want (5, 0)", got)
	}
	if got := w.Body(b).Position; got.Distance(math.Vec2{X: 15}) > 1e-3 {
		t.Errorf("body b at %v, want (15, 0)", got)
	}
	if got := w.Body(a).Angle; math.Abs(got-0.5) > 1e-3 {
		t.Errorf("body a angle = %v, want 0.5", got)
	}
	if got := w.Body(b).Angle; math.Abs(got-0.5) > 1e-3 {
		t.Errorf("body b angle = %v, want 0.5", got)
	}
}
