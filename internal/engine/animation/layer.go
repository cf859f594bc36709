package animation

import (
	"github.com/Faultbox/rigcore/internal/engine/skeleton"
	"github.com/Faultbox/rigcore/pkg/math"
)

// BlendMode selects how a layer composites onto the accumulated pose.
type BlendMode int

const (
	// Override lerps toward the layer's pose by layer weight.
	Override BlendMode = iota
	// Additive adds the layer's deltas from the bind pose, scaled by weight.
	Additive
	// Multiply scales bone scale by lerp(1, layer scale.x, weight).
	Multiply
)

// Layer is one independently-playing animation track. A layer plays
// either a clip or a blend tree; the tree takes precedence when both
// are set.
type Layer struct {
	Name   string
	Weight float32
	Mode   BlendMode
	// Mask limits the layer to masked-in bones; nil means all bones.
	Mask []bool

	Time    float32
	Speed   float32
	Loop    bool
	Playing bool

	clip *Clip
	tree *BlendTree

	// order preserves creation order as the tiebreak when layers share
	// a weight, keeping compositing deterministic.
	order int

	fade *fade
}

type fade struct {
	from, to   float32
	duration   float32
	elapsed    float32
	stopAtZero bool
}

// PlayClip starts the layer on a clip from time zero.
func (l *Layer) PlayClip(c *Clip, speed float32) {
	if speed == 0 {
		speed = 1
	}
	l.clip = c
	l.tree = nil
	l.Time = 0
	l.Speed = speed
	l.Loop = c.Loop
	l.Playing = true
}

// PlayTree starts the layer on a blend tree. Trees loop: their node
// clips decide their own wrapping at sample time.
func (l *Layer) PlayTree(t *BlendTree, speed float32) {
	if speed == 0 {
		speed = 1
	}
	l.tree = t
	l.clip = nil
	l.Time = 0
	l.Speed = speed
	l.Loop = true
	l.Playing = true
}

// Stop halts playback. The layer keeps its clip so Play can resume it.
func (l *Layer) Stop() {
	l.Playing = false
}

// FadeTo ramps the layer weight to target over duration seconds.
// stopAtZero stops playback when a fade-out completes; fade completion
// is the terminal condition for a cross-fade.
func (l *Layer) FadeTo(target, duration float32, stopAtZero bool) {
	if duration <= 0 {
		l.Weight = target
		if stopAtZero && target == 0 {
			l.Stop()
		}
		return
	}
	l.fade = &fade{from: l.Weight, to: target, duration: duration, stopAtZero: stopAtZero}
}

// advance moves playback time and the weight ramp forward.
func (l *Layer) advance(dt float32) {
	if l.fade != nil {
		f := l.fade
		f.elapsed += dt
		if f.elapsed >= f.duration {
			l.Weight = f.to
			l.fade = nil
			if f.stopAtZero && f.to == 0 {
				l.Stop()
			}
		} else {
			l.Weight = math.Lerp(f.from, f.to, f.elapsed/f.duration)
		}
	}

	if !l.Playing {
		return
	}
	l.Time += dt * l.Speed
	if l.clip != nil && !l.Loop && l.Time >= l.clip.Duration {
		l.Time = l.clip.Duration
		l.Playing = false
	}
}

// active reports whether the layer contributes this frame. A layer that
// just finished a non-looping clip still contributes its final pose once
// per the clamp in Sample; a stopped layer contributes nothing.
func (l *Layer) active() bool {
	return l.Playing && l.Weight > 0 && (l.clip != nil || l.tree != nil)
}

// samplePose resolves the layer's current pose.
func (l *Layer) samplePose(s *skeleton.Skeleton) *skeleton.Pose {
	if l.tree != nil {
		return l.tree.Evaluate(s, l.Time)
	}
	return Sample(s, l.clip, l.Time)
}
