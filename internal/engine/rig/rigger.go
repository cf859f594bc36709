// Package rig builds a skeleton and a skinned mesh from facial
// landmarks, so a flat character image can be animated without manual
// rigging.
package rig

import (
	"errors"

	"github.com/Faultbox/rigcore/internal/engine/mesh"
	"github.com/Faultbox/rigcore/internal/engine/skeleton"
	"github.com/Faultbox/rigcore/pkg/math"
)

var (
	ErrNoLandmarks = errors.New("rig: head outline or center required")
	ErrBadBounds   = errors.New("rig: image bounds must be positive")
)

// Landmarks are detected feature points in image space.
type Landmarks struct {
	// HeadOutline is the head contour; its centroid anchors the root.
	// When empty, HeadCenter is used directly.
	HeadOutline []math.Vec2
	HeadCenter  math.Vec2

	LeftEye  math.Vec2
	RightEye math.Vec2
	Mouth    math.Vec2

	LeftShoulder  math.Vec2
	RightShoulder math.Vec2
}

// Options controls mesh density.
type Options struct {
	GridCols int
	GridRows int
}

// Rig owns the generated skeleton and its skinned mesh.
type Rig struct {
	Skeleton *skeleton.Skeleton
	Mesh     *mesh.Mesh
}

// Named bones produced by Build, in insertion order.
const (
	BoneRoot          = "root"
	BoneHead          = "head"
	BoneLeftEye       = "left_eye"
	BoneRightEye      = "right_eye"
	BoneMouth         = "mouth"
	BoneNeck          = "neck"
	BoneLeftShoulder  = "left_shoulder"
	BoneRightShoulder = "right_shoulder"
)

// Build generates a skeleton rooted at the head centroid and a grid
// mesh over the image bounds, skinned by bone proximity.
func Build(lm Landmarks, width, height float32, opts Options) (*Rig, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrBadBounds
	}
	center := lm.HeadCenter
	if len(lm.HeadOutline) > 0 {
		center = centroid(lm.HeadOutline)
	} else if center == (math.Vec2{}) {
		return nil, ErrNoLandmarks
	}
	if opts.GridCols <= 0 {
		opts.GridCols = 16
	}
	if opts.GridRows <= 0 {
		opts.GridRows = 16
	}

	headRadius := radiusAround(center, lm.HeadOutline, width, height)

	skel := skeleton.New()
	worlds := map[string]math.Vec2{}
	add := func(name, parent string, world math.Vec2, length float32) error {
		parentIdx := skeleton.NoParent
		local := world
		if parent != "" {
			var ok bool
			parentIdx, ok = skel.Index(parent)
			if !ok {
				return skeleton.ErrUnknownParent
			}
			local = world.Sub(worlds[parent])
		}
		_, err := skel.AddBone(skeleton.Bone{
			Name:     name,
			Parent:   parentIdx,
			Position: local,
			Length:   length,
		})
		if err != nil {
			return err
		}
		worlds[name] = world
		return nil
	}

	neckBase := math.Vec2{X: center.X, Y: center.Y + headRadius}
	steps := []struct {
		name, parent string
		world        math.Vec2
		length       float32
	}{
		{BoneRoot, "", center, headRadius},
		{BoneHead, BoneRoot, center, headRadius},
		{BoneLeftEye, BoneHead, lm.LeftEye, headRadius * 0.2},
		{BoneRightEye, BoneHead, lm.RightEye, headRadius * 0.2},
		{BoneMouth, BoneHead, lm.Mouth, headRadius * 0.3},
		{BoneNeck, BoneRoot, neckBase, headRadius * 0.5},
		{BoneLeftShoulder, BoneNeck, pickShoulder(lm.LeftShoulder, neckBase, -headRadius), headRadius * 0.6},
		{BoneRightShoulder, BoneNeck, pickShoulder(lm.RightShoulder, neckBase, headRadius), headRadius * 0.6},
	}
	for _, s := range steps {
		if err := add(s.name, s.parent, s.world, s.length); err != nil {
			return nil, err
		}
	}

	m := buildMesh(skel, worlds, width, height, opts)
	return &Rig{Skeleton: skel, Mesh: m}, nil
}

func centroid(pts []math.Vec2) math.Vec2 {
	var sum math.Vec2
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float32(len(pts)))
}

// radiusAround estimates the head radius from the outline, falling
// back to a fraction of the image size.
func radiusAround(center math.Vec2, outline []math.Vec2, width, height float32) float32 {
	if len(outline) > 0 {
		var sum float32
		for _, p := range outline {
			sum += p.Distance(center)
		}
		return sum / float32(len(outline))
	}
	min := width
	if height < min {
		min = height
	}
	return min * 0.25
}

func pickShoulder(detected, neckBase math.Vec2, offset float32) math.Vec2 {
	if detected != (math.Vec2{}) {
		return detected
	}
	return math.Vec2{X: neckBase.X + offset, Y: neckBase.Y}
}

// buildMesh lays a regular grid over the image plus one vertex pinned
// to each bone, then weights every vertex by bone proximity.
func buildMesh(skel *skeleton.Skeleton, worlds map[string]math.Vec2, width, height float32, opts Options) *mesh.Mesh {
	cols, rows := opts.GridCols, opts.GridRows
	m := &mesh.Mesh{}

	for r := 0; r <= rows; r++ {
		for c := 0; c <= cols; c++ {
			p := math.Vec2{
				X: width * float32(c) / float32(cols),
				Y: height * float32(r) / float32(rows),
			}
			m.Vertices = append(m.Vertices, mesh.Vertex{
				Position: p,
				UV:       math.Vec2{X: p.X / width, Y: p.Y / height},
			})
		}
	}
	stride := cols + 1
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*stride + c
			m.Triangles = append(m.Triangles,
				i, i+1, i+stride,
				i+1, i+stride+1, i+stride,
			)
		}
	}
	for i := 0; i < skel.Count(); i++ {
		b := skel.Bone(i)
		p := worlds[b.Name]
		m.Vertices = append(m.Vertices, mesh.Vertex{
			Position: p,
			UV:       math.Vec2{X: p.X / width, Y: p.Y / height},
		})
	}

	for vi := range m.Vertices {
		v := &m.Vertices[vi]
		var influences []mesh.Influence
		for bi := 0; bi < skel.Count(); bi++ {
			b := skel.Bone(bi)
			start := worlds[b.Name]
			end := start.Add(math.Vec2{X: b.Length})
			d := distToSegment(v.Position, start, end)
			if score := b.Length - d; score > 0 {
				influences = append(influences, mesh.Influence{Bone: bi, Weight: score})
			}
		}
		if len(influences) == 0 {
			// Bind stray vertices to the root so they still deform.
			influences = []mesh.Influence{{Bone: 0, Weight: 1}}
		}
		v.Influences = influences
		v.NormalizeWeights()
	}
	return m
}

func distToSegment(p, a, b math.Vec2) float32 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = math.Clamp(t, 0, 1)
	return p.Distance(a.Add(ab.Scale(t)))
}
