// Package assets bridges serialized documents and engine types: rig
// documents become skeletons and meshes, clip documents become clips
// bound to a skeleton's bone indices.
package assets

import (
	"errors"
	"fmt"
	"os"

	"github.com/Faultbox/rigcore/internal/engine/animation"
	"github.com/Faultbox/rigcore/internal/engine/mesh"
	"github.com/Faultbox/rigcore/internal/engine/skeleton"
	"github.com/Faultbox/rigcore/pkg/formats"
	"github.com/Faultbox/rigcore/pkg/math"
)

var ErrUnknownBone = errors.New("assets: document references an unknown bone")

// BuildSkeleton constructs a skeleton from a rig document. Bones are
// declared parent-before-child, which the parser has already verified.
func BuildSkeleton(doc *formats.RigDoc) (*skeleton.Skeleton, error) {
	skel := skeleton.New()
	for _, b := range doc.Bones {
		parent := skeleton.NoParent
		if b.Parent != "" {
			idx, ok := skel.Index(b.Parent)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownBone, b.Parent)
			}
			parent = idx
		}
		scale := math.Vec2{X: b.ScaleX, Y: b.ScaleY}
		_, err := skel.AddBone(skeleton.Bone{
			Name:     b.Name,
			Parent:   parent,
			Position: math.Vec2{X: b.X, Y: b.Y},
			Rotation: b.Rotation,
			Scale:    scale,
			Length:   b.Length,
			Weight:   b.Weight,
		})
		if err != nil {
			return nil, err
		}
	}
	return skel, nil
}

// BuildMesh constructs a skinned mesh from a rig document, resolving
// influence bone names against the skeleton.
func BuildMesh(doc *formats.MeshDoc, skel *skeleton.Skeleton) (*mesh.Mesh, error) {
	if doc == nil {
		return nil, nil
	}
	m := &mesh.Mesh{
		Vertices:  make([]mesh.Vertex, 0, len(doc.Vertices)),
		Triangles: append([]int(nil), doc.Triangles...),
	}
	for _, vd := range doc.Vertices {
		v := mesh.Vertex{
			Position: math.Vec2{X: vd.X, Y: vd.Y},
			UV:       math.Vec2{X: vd.U, Y: vd.V},
		}
		for _, inf := range vd.Influences {
			idx, ok := skel.Index(inf.Bone)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownBone, inf.Bone)
			}
			v.Influences = append(v.Influences, mesh.Influence{Bone: idx, Weight: inf.Weight})
		}
		v.NormalizeWeights()
		m.Vertices = append(m.Vertices, v)
	}
	return m, nil
}

// BuildClip binds a clip document to a skeleton, resolving track bone
// names to arena indices.
func BuildClip(doc *formats.ClipDoc, skel *skeleton.Skeleton) (*animation.Clip, error) {
	clip, err := animation.NewClip(doc.Name, doc.Duration, doc.Loop, skel.Count())
	if err != nil {
		return nil, err
	}
	for _, td := range doc.Tracks {
		idx, ok := skel.Index(td.Bone)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBone, td.Bone)
		}
		tr := &animation.Track{}
		for _, k := range td.Position {
			tr.Position = append(tr.Position, animation.VecKey{
				Time: k.Time, Value: math.Vec2{X: k.X, Y: k.Y}, Easing: k.Easing,
			})
		}
		for _, k := range td.Rotation {
			tr.Rotation = append(tr.Rotation, animation.AngleKey{
				Time: k.Time, Value: k.Value, Easing: k.Easing,
			})
		}
		for _, k := range td.Scale {
			tr.Scale = append(tr.Scale, animation.VecKey{
				Time: k.Time, Value: math.Vec2{X: k.X, Y: k.Y}, Easing: k.Easing,
			})
		}
		if err := clip.SetTrack(idx, tr); err != nil {
			return nil, err
		}
	}
	return clip, nil
}

// ExportRig serializes a skeleton and optional mesh back into a rig
// document.
func ExportRig(name string, skel *skeleton.Skeleton, m *mesh.Mesh) *formats.RigDoc {
	doc := &formats.RigDoc{Version: formats.Version, Name: name}
	for i := 0; i < skel.Count(); i++ {
		b := skel.Bone(i)
		bd := formats.BoneDoc{
			Name:     b.Name,
			X:        b.Position.X,
			Y:        b.Position.Y,
			Rotation: b.Rotation,
			ScaleX:   b.Scale.X,
			ScaleY:   b.Scale.Y,
			Length:   b.Length,
			Weight:   b.Weight,
		}
		if b.Parent != skeleton.NoParent {
			bd.Parent = skel.Bone(b.Parent).Name
		}
		doc.Bones = append(doc.Bones, bd)
	}
	if m != nil {
		md := &formats.MeshDoc{Triangles: append([]int(nil), m.Triangles...)}
		for _, v := range m.Vertices {
			vd := formats.VertexDoc{
				X: v.Position.X, Y: v.Position.Y,
				U: v.UV.X, V: v.UV.Y,
			}
			for _, inf := range v.Influences {
				vd.Influences = append(vd.Influences, formats.InfluenceDoc{
					Bone: skel.Bone(inf.Bone).Name, Weight: inf.Weight,
				})
			}
			md.Vertices = append(md.Vertices, vd)
		}
		doc.Mesh = md
	}
	return doc
}

// LoadRig reads and builds a rig from a document file.
func LoadRig(path string) (*skeleton.Skeleton, *mesh.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	doc, err := formats.ParseRig(data)
	if err != nil {
		return nil, nil, err
	}
	skel, err := BuildSkeleton(doc)
	if err != nil {
		return nil, nil, err
	}
	m, err := BuildMesh(doc.Mesh, skel)
	if err != nil {
		return nil, nil, err
	}
	return skel, m, nil
}

// LoadClip reads a clip document file and binds it to a skeleton.
func LoadClip(path string, skel *skeleton.Skeleton) (*animation.Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := formats.ParseClip(data)
	if err != nil {
		return nil, err
	}
	return BuildClip(doc, skel)
}
