package skeleton

import (
	"github.com/Faultbox/rigcore/pkg/math"
)

// BoneTransform is one bone's resolved position, rotation and scale.
type BoneTransform struct {
	Position math.Vec2
	Rotation float32
	Scale    math.Vec2
}

// Pose is a complete set of bone transforms at one instant, indexed by
// bone arena index. Poses are ephemeral: blending always works on a copy,
// never on a pose shared across frames.
type Pose struct {
	Transforms []BoneTransform
	Time       float32
}

// NewPose creates a pose for n bones with identity transforms.
func NewPose(n int) *Pose {
	p := &Pose{Transforms: make([]BoneTransform, n)}
	for i := range p.Transforms {
		p.Transforms[i].Scale = math.Vec2{X: 1, Y: 1}
	}
	return p
}

// Clone returns a deep copy.
func (p *Pose) Clone() *Pose {
	out := &Pose{
		Transforms: make([]BoneTransform, len(p.Transforms)),
		Time:       p.Time,
	}
	copy(out.Transforms, p.Transforms)
	return out
}

// masked reports whether bone i participates given an optional bone mask.
func masked(mask []bool, i int) bool {
	return mask == nil || (i < len(mask) && mask[i])
}

// BlendOverride interpolates p toward other bone-by-bone by weight w.
// Rotation takes the shortest arc.
func (p *Pose) BlendOverride(other *Pose, w float32, mask []bool) {
	for i := range p.Transforms {
		if i >= len(other.Transforms) || !masked(mask, i) {
			continue
		}
		a := &p.Transforms[i]
		b := &other.Transforms[i]
		a.Position = a.Position.Lerp(b.Position, w)
		a.Rotation = math.LerpAngle(a.Rotation, b.Rotation, w)
		a.Scale = a.Scale.Lerp(b.Scale, w)
	}
}

// BlendAdditive adds other's deltas relative to ref, scaled by w.
// Scale deltas are measured against 1, per-component.
func (p *Pose) BlendAdditive(other, ref *Pose, w float32, mask []bool) {
	for i := range p.Transforms {
		if i >= len(other.Transforms) || i >= len(ref.Transforms) || !masked(mask, i) {
			continue
		}
		a := &p.Transforms[i]
		b := &other.Transforms[i]
		r := &ref.Transforms[i]
		a.Position = a.Position.Add(b.Position.Sub(r.Position).Scale(w))
		a.Rotation += math.WrapAngle(b.Rotation-r.Rotation) * w
		a.Scale.X += (b.Scale.X - r.Scale.X) * w
		a.Scale.Y += (b.Scale.Y - r.Scale.Y) * w
	}
}

// BlendMultiply scales each bone's scale by lerp(1, other scale.x, w).
func (p *Pose) BlendMultiply(other *Pose, w float32, mask []bool) {
	for i := range p.Transforms {
		if i >= len(other.Transforms) || !masked(mask, i) {
			continue
		}
		factor := math.Lerp(1, other.Transforms[i].Scale.X, w)
		p.Transforms[i].Scale.X *= factor
		p.Transforms[i].Scale.Y *= factor
	}
}

// Worlds resolves the pose into world-space transforms by walking the
// arena in order. The arena stores parents before children, so a single
// forward pass suffices.
func (p *Pose) Worlds(s *Skeleton) []BoneTransform {
	out := make([]BoneTransform, len(p.Transforms))
	for i := range p.Transforms {
		local := p.Transforms[i]
		parent := s.Bone(i).Parent
		if parent == NoParent {
			out[i] = local
			continue
		}
		pw := out[parent]
		out[i] = BoneTransform{
			Position: pw.Position.Add(local.Position.Mul(pw.Scale).Rotate(pw.Rotation)),
			Rotation: pw.Rotation + local.Rotation,
			Scale:    pw.Scale.Mul(local.Scale),
		}
	}
	return out
}

// SetWorld rewrites bone i's local transform so that its world position
// and rotation match the given values, keeping local scale. worlds must
// be the current resolved world transforms of the pose.
func (p *Pose) SetWorld(s *Skeleton, worlds []BoneTransform, i int, pos math.Vec2, rot float32) {
	parent := s.Bone(i).Parent
	if parent == NoParent {
		p.Transforms[i].Position = pos
		p.Transforms[i].Rotation = rot
		return
	}
	pw := worlds[parent]
	rel := pos.Sub(pw.Position).Rotate(-pw.Rotation)
	if pw.Scale.X != 0 {
		rel.X /= pw.Scale.X
	}
	if pw.Scale.Y != 0 {
		rel.Y /= pw.Scale.Y
	}
	p.Transforms[i].Position = rel
	p.Transforms[i].Rotation = rot - pw.Rotation
}

// PaletteSize returns the float count WritePalette needs for skeleton s.
func PaletteSize(s *Skeleton) int {
	return s.Count() * 6
}

// WritePalette resolves world transforms and writes one 2x3 affine matrix
// per bone into the caller-owned buffer. The core never owns this buffer;
// the consumer uploads it. Returns the number of floats written, or 0 if
// the buffer is too small.
func (p *Pose) WritePalette(s *Skeleton, out []float32) int {
	need := PaletteSize(s)
	if len(out) < need {
		return 0
	}
	worlds := p.Worlds(s)
	for i, w := range worlds {
		math.AffineTRS(w.Position, w.Rotation, w.Scale).Write(out, i*6)
	}
	return need
}
