package assets

import (
	"github.com/Faultbox/rigcore/internal/engine/animation"
	"github.com/Faultbox/rigcore/internal/engine/skeleton"
	"github.com/Faultbox/rigcore/pkg/math"
)

// IdleOptions shapes a generated idle motion clip.
type IdleOptions struct {
	Duration float32
	Keys     int
	// Sway is the positional amplitude on the root, Nod the rotational
	// amplitude on every non-root bone.
	Sway float32
	Nod  float32
	Seed uint64
}

// DefaultIdleOptions returns a subtle breathing motion.
func DefaultIdleOptions() IdleOptions {
	return IdleOptions{
		Duration: 4,
		Keys:     16,
		Sway:     2,
		Nod:      0.05,
		Seed:     1,
	}
}

// GenerateIdleClip builds a looping clip of low-frequency noise so a
// character is never perfectly still. The first and last keys of every
// channel repeat, keeping the loop seam continuous.
func GenerateIdleClip(name string, skel *skeleton.Skeleton, opts IdleOptions) (*animation.Clip, error) {
	if opts.Duration <= 0 {
		opts.Duration = 4
	}
	if opts.Keys < 2 {
		opts.Keys = 16
	}
	clip, err := animation.NewClip(name, opts.Duration, true, skel.Count())
	if err != nil {
		return nil, err
	}
	noise := math.NewPerlin(opts.Seed)

	for bi := 0; bi < skel.Count(); bi++ {
		b := skel.Bone(bi)
		tr := &animation.Track{}
		// Per-bone channel offset keeps siblings out of phase.
		phase := float32(bi) * 7.13
		if bi == skel.Root() {
			for k := 0; k < opts.Keys; k++ {
				t := opts.Duration * float32(k) / float32(opts.Keys-1)
				s := sampleLoop(noise, t, opts.Duration, phase)
				tr.Position = append(tr.Position, animation.VecKey{
					Time: t,
					Value: b.Position.Add(math.Vec2{
						X: s * opts.Sway * 0.3,
						Y: sampleLoop(noise, t, opts.Duration, phase+31.7) * opts.Sway,
					}),
					Easing: "sine_in_out",
				})
			}
		} else {
			for k := 0; k < opts.Keys; k++ {
				t := opts.Duration * float32(k) / float32(opts.Keys-1)
				tr.Rotation = append(tr.Rotation, animation.AngleKey{
					Time:   t,
					Value:  sampleLoop(noise, t, opts.Duration, phase) * opts.Nod,
					Easing: "sine_in_out",
				})
			}
		}
		if err := clip.SetTrack(bi, tr); err != nil {
			return nil, err
		}
	}
	return clip, nil
}

// sampleLoop walks the noise field on a circle so the value at t=0 and
// t=duration is identical.
func sampleLoop(p *math.Perlin, t, duration, phase float32) float32 {
	angle := 2 * math.Pi * t / duration
	return p.Noise2D(math.Cos(angle)+phase, math.Sin(angle)+phase)
}

// GenerateBlinkClip builds a short non-looping clip that squashes the
// eye bones closed and back open.
func GenerateBlinkClip(name string, skel *skeleton.Skeleton, eyeBones []string) (*animation.Clip, error) {
	const duration = 0.25
	clip, err := animation.NewClip(name, duration, false, skel.Count())
	if err != nil {
		return nil, err
	}
	for _, bone := range eyeBones {
		idx, ok := skel.Index(bone)
		if !ok {
			continue
		}
		rest := skel.Bone(idx).Scale
		tr := &animation.Track{
			Scale: []animation.VecKey{
				{Time: 0, Value: rest, Easing: "ease_in"},
				{Time: duration / 2, Value: math.Vec2{X: rest.X, Y: rest.Y * 0.05}, Easing: "ease_out"},
				{Time: duration, Value: rest},
			},
		}
		if err := clip.SetTrack(idx, tr); err != nil {
			return nil, err
		}
	}
	return clip, nil
}
