package animation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/rigcore/internal/engine/skeleton"
	"github.com/Faultbox/rigcore/internal/logger"
	"github.com/Faultbox/rigcore/pkg/math"
)

var (
	ErrTooManyLayers  = errors.New("animation: layer limit reached")
	ErrDuplicateLayer = errors.New("animation: duplicate layer name")
	ErrDuplicateClip  = errors.New("animation: duplicate clip name")
	ErrDuplicateTree  = errors.New("animation: duplicate blend tree name")
	ErrBadConstraint  = errors.New("animation: invalid constraint")
)

// Options tunes an animator. The zero value gets usable defaults.
type Options struct {
	MaxLayers    int
	IKIterations int
	IKTolerance  float32
	// DefaultFade is the cross-fade duration used when the caller
	// passes zero.
	DefaultFade float32
}

// Animator owns one character's animation state: clips, layers, blend
// trees and constraints over a single skeleton. It is frame-driven and
// single-threaded; callers wanting parallelism shard by character
// instance.
type Animator struct {
	skel *skeleton.Skeleton

	clips  map[string]*Clip
	layers []*Layer
	byName map[string]int
	trees  map[string]*BlendTree

	constraints []*Constraint
	constraint  map[string]int

	maxLayers    int
	ikIterations int
	ikTolerance  float32
	defaultFade  float32
	nextOrder    int

	clock float32
	pose  *skeleton.Pose
}

// NewAnimator creates an animator over a skeleton.
func NewAnimator(s *skeleton.Skeleton, opts Options) *Animator {
	if opts.MaxLayers <= 0 {
		opts.MaxLayers = 8
	}
	if opts.DefaultFade <= 0 {
		opts.DefaultFade = 0.25
	}
	return &Animator{
		skel:         s,
		clips:        make(map[string]*Clip),
		byName:       make(map[string]int),
		trees:        make(map[string]*BlendTree),
		constraint:   make(map[string]int),
		maxLayers:    opts.MaxLayers,
		ikIterations: opts.IKIterations,
		ikTolerance:  opts.IKTolerance,
		defaultFade:  opts.DefaultFade,
		pose:         s.BindPose(),
	}
}

// Skeleton returns the animated skeleton.
func (a *Animator) Skeleton() *skeleton.Skeleton {
	return a.skel
}

// AddClip registers a clip for playback by name.
func (a *Animator) AddClip(c *Clip) error {
	if _, exists := a.clips[c.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateClip, c.Name)
	}
	a.clips[c.Name] = c
	return nil
}

// Clip returns a registered clip by name.
func (a *Animator) Clip(name string) (*Clip, bool) {
	c, ok := a.clips[name]
	return c, ok
}

// CreateLayer adds an animation layer. Adding beyond the configured
// maximum is rejected. An empty name gets a generated one.
func (a *Animator) CreateLayer(name string, weight float32, mode BlendMode) (*Layer, error) {
	if len(a.layers) >= a.maxLayers {
		return nil, fmt.Errorf("%w: max %d", ErrTooManyLayers, a.maxLayers)
	}
	if name == "" {
		name = uuid.NewString()
	}
	if _, exists := a.byName[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateLayer, name)
	}
	l := &Layer{
		Name:   name,
		Weight: math.Clamp(weight, 0, 1),
		Mode:   mode,
		Speed:  1,
		order:  a.nextOrder,
	}
	a.nextOrder++
	a.byName[name] = len(a.layers)
	a.layers = append(a.layers, l)
	return l, nil
}

// Layer returns a layer by name.
func (a *Animator) Layer(name string) (*Layer, bool) {
	i, ok := a.byName[name]
	if !ok {
		return nil, false
	}
	return a.layers[i], true
}

// Play starts a clip on a layer. Unknown layer or clip names are
// diagnostic no-ops: per-frame calls must never crash a running
// character.
func (a *Animator) Play(layerName, clipName string, speed float32) {
	l, ok := a.Layer(layerName)
	if !ok {
		logger.Warn("play on unknown layer", zap.String("layer", layerName))
		return
	}
	c, ok := a.clips[clipName]
	if !ok {
		logger.Warn("play of unknown clip", zap.String("clip", clipName))
		return
	}
	l.PlayClip(c, speed)
}

// PlayTree starts a blend tree on a layer.
func (a *Animator) PlayTree(layerName, treeName string, speed float32) {
	l, ok := a.Layer(layerName)
	if !ok {
		logger.Warn("play on unknown layer", zap.String("layer", layerName))
		return
	}
	t, ok := a.trees[treeName]
	if !ok {
		logger.Warn("play of unknown blend tree", zap.String("tree", treeName))
		return
	}
	l.PlayTree(t, speed)
}

// StopAnimation halts a layer's playback.
func (a *Animator) StopAnimation(layerName string) {
	l, ok := a.Layer(layerName)
	if !ok {
		logger.Warn("stop on unknown layer", zap.String("layer", layerName))
		return
	}
	l.Stop()
}

// CrossFade fades one layer out while fading another in on a new clip
// over duration seconds; zero duration falls back to the configured
// default. The faded-out layer stops when its ramp completes.
func (a *Animator) CrossFade(fromLayer, toLayer, clipName string, duration float32) {
	if duration <= 0 {
		duration = a.defaultFade
	}
	from, okFrom := a.Layer(fromLayer)
	to, okTo := a.Layer(toLayer)
	if !okFrom || !okTo {
		logger.Warn("cross-fade on unknown layer",
			zap.String("from", fromLayer), zap.String("to", toLayer))
		return
	}
	c, ok := a.clips[clipName]
	if !ok {
		logger.Warn("cross-fade to unknown clip", zap.String("clip", clipName))
		return
	}
	target := to.Weight
	if target == 0 {
		target = 1
	}
	to.PlayClip(c, to.Speed)
	to.Weight = 0
	to.FadeTo(target, duration, false)
	from.FadeTo(0, duration, true)
}

// CreateBlendTree registers an empty blend tree.
func (a *Animator) CreateBlendTree(name string, kind TreeKind) (*BlendTree, error) {
	if _, exists := a.trees[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTree, name)
	}
	t := &BlendTree{Name: name, Kind: kind}
	a.trees[name] = t
	return t, nil
}

// AddBlendNode appends a clip node to a blend tree.
func (a *Animator) AddBlendNode(treeName string, pos math.Vec2, clipName string, weight float32) {
	t, ok := a.trees[treeName]
	if !ok {
		logger.Warn("add node to unknown blend tree", zap.String("tree", treeName))
		return
	}
	c, ok := a.clips[clipName]
	if !ok {
		logger.Warn("blend node with unknown clip", zap.String("clip", clipName))
		return
	}
	t.AddNode(pos, c, weight)
}

// SetBlendParams updates a tree's parameters; its pose is derived fresh
// on the next evaluation.
func (a *Animator) SetBlendParams(treeName string, params math.Vec2) {
	t, ok := a.trees[treeName]
	if !ok {
		logger.Warn("set params on unknown blend tree", zap.String("tree", treeName))
		return
	}
	t.Params = params
}

// AddConstraint registers a pose constraint. Bone indices must be valid
// for the skeleton; this is configuration, so failures are errors rather
// than silent no-ops.
func (a *Animator) AddConstraint(c Constraint) error {
	if c.Name == "" {
		c.Name = uuid.NewString()
	}
	if _, exists := a.constraint[c.Name]; exists {
		return fmt.Errorf("%w: duplicate name %q", ErrBadConstraint, c.Name)
	}
	if c.Kind == ConstraintIK {
		if len(c.Chain) < 2 {
			return fmt.Errorf("%w: IK chain needs 2+ bones", ErrBadConstraint)
		}
		for _, b := range c.Chain {
			if b < 0 || b >= a.skel.Count() {
				return fmt.Errorf("%w: chain bone %d", ErrBadConstraint, b)
			}
		}
	} else if c.Bone < 0 || c.Bone >= a.skel.Count() {
		return fmt.Errorf("%w: bone %d", ErrBadConstraint, c.Bone)
	}
	if c.Target != NoTarget && (c.Target < 0 || c.Target >= a.skel.Count()) {
		return fmt.Errorf("%w: target bone %d", ErrBadConstraint, c.Target)
	}
	if c.Weight == 0 {
		c.Weight = 1
	}
	if c.Iterations == 0 {
		c.Iterations = a.ikIterations
	}
	if c.Tolerance == 0 {
		c.Tolerance = a.ikTolerance
	}
	c.Enabled = true

	a.constraint[c.Name] = len(a.constraints)
	a.constraints = append(a.constraints, &c)
	return nil
}

// RemoveConstraint drops a constraint by name; unknown names are no-ops.
func (a *Animator) RemoveConstraint(name string) {
	i, ok := a.constraint[name]
	if !ok {
		logger.Warn("remove of unknown constraint", zap.String("constraint", name))
		return
	}
	a.constraints = append(a.constraints[:i], a.constraints[i+1:]...)
	delete(a.constraint, name)
	for n, j := range a.constraint {
		if j > i {
			a.constraint[n] = j - 1
		}
	}
}

// Update advances all layers by dt and composites the frame's pose:
// bind pose, then active layers in ascending-weight order (creation
// order breaks ties), then constraints in insertion order. The returned
// pose is valid until the next Update.
func (a *Animator) Update(dt float32) *skeleton.Pose {
	a.clock += dt
	for _, l := range a.layers {
		l.advance(dt)
	}

	pose := a.skel.BindPose()
	bind := a.skel.BindPose()

	active := make([]*Layer, 0, len(a.layers))
	for _, l := range a.layers {
		if l.active() {
			active = append(active, l)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Weight != active[j].Weight {
			return active[i].Weight < active[j].Weight
		}
		return active[i].order < active[j].order
	})

	for _, l := range active {
		lp := l.samplePose(a.skel)
		switch l.Mode {
		case Override:
			pose.BlendOverride(lp, l.Weight, l.Mask)
		case Additive:
			pose.BlendAdditive(lp, bind, l.Weight, l.Mask)
		case Multiply:
			pose.BlendMultiply(lp, l.Weight, l.Mask)
		}
	}

	for _, c := range a.constraints {
		worlds := pose.Worlds(a.skel)
		c.apply(a.skel, pose, worlds)
	}

	pose.Time = a.clock
	a.pose = pose
	return pose
}

// CurrentPose returns the pose from the latest Update.
func (a *Animator) CurrentPose() *skeleton.Pose {
	return a.pose
}

// WritePalette writes the current pose's bone matrices into a
// caller-owned buffer; see skeleton.Pose.WritePalette.
func (a *Animator) WritePalette(out []float32) int {
	return a.pose.WritePalette(a.skel, out)
}
