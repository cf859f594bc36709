package animation

import (
	"github.com/Faultbox/rigcore/internal/engine/skeleton"
	"github.com/Faultbox/rigcore/pkg/math"
)

// Sample resolves a clip at time t into a fresh pose. It is a pure
// function of the clip and the query time: the same inputs always yield
// bit-identical output. Bones without a track stay at the bind pose.
func Sample(s *skeleton.Skeleton, c *Clip, t float32) *skeleton.Pose {
	pose := s.BindPose()
	ct := clipTime(c, t)
	pose.Time = ct

	for i := 0; i < s.Count() && i < len(c.tracks); i++ {
		tr := c.tracks[i]
		if tr == nil {
			continue
		}
		bt := &pose.Transforms[i]
		bt.Position = sampleVec(tr.Position, ct, bt.Position)
		bt.Rotation = sampleAngle(tr.Rotation, ct, bt.Rotation)
		bt.Scale = sampleVec(tr.Scale, ct, bt.Scale)
	}
	return pose
}

// clipTime maps a query time into the clip: modulo duration for looping
// clips, clamped to [0, duration] otherwise.
func clipTime(c *Clip, t float32) float32 {
	if c.Loop {
		t = math.Mod(t, c.Duration)
		if t < 0 {
			t += c.Duration
		}
		return t
	}
	return math.Clamp(t, 0, c.Duration)
}

// sampleVec interpolates a position/scale channel. Zero keys keeps rest,
// one key is returned verbatim, otherwise the bracketing pair is found
// by linear scan (channels are short) and lerped with the left key's
// easing applied to normalized progress.
func sampleVec(keys []VecKey, t float32, rest math.Vec2) math.Vec2 {
	switch len(keys) {
	case 0:
		return rest
	case 1:
		return keys[0].Value
	}
	if t <= keys[0].Time {
		return keys[0].Value
	}
	last := len(keys) - 1
	if t >= keys[last].Time {
		return keys[last].Value
	}
	i := bracket(t, len(keys), func(j int) float32 { return keys[j].Time })
	k0, k1 := keys[i], keys[i+1]
	return k0.Value.Lerp(k1.Value, easedProgress(k0.Time, k1.Time, t, k0.Easing))
}

// sampleAngle interpolates a rotation channel along the shortest arc:
// the delta is wrapped into (-pi, pi] before scaling by eased progress.
func sampleAngle(keys []AngleKey, t float32, rest float32) float32 {
	switch len(keys) {
	case 0:
		return rest
	case 1:
		return keys[0].Value
	}
	if t <= keys[0].Time {
		return keys[0].Value
	}
	last := len(keys) - 1
	if t >= keys[last].Time {
		return keys[last].Value
	}
	i := bracket(t, len(keys), func(j int) float32 { return keys[j].Time })
	k0, k1 := keys[i], keys[i+1]
	p := easedProgress(k0.Time, k1.Time, t, k0.Easing)
	return k0.Value + math.WrapAngle(k1.Value-k0.Value)*p
}

// bracket returns i such that time(i) <= t < time(i+1).
func bracket(t float32, n int, time func(int) float32) int {
	i := 0
	for i < n-2 && time(i+1) <= t {
		i++
	}
	return i
}

func easedProgress(t0, t1, t float32, easing string) float32 {
	if t1 == t0 {
		return 0
	}
	p := (t - t0) / (t1 - t0)
	return math.Easing(easing)(p)
}
