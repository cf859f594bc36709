// Package skeleton models a bone hierarchy and the poses sampled onto it.
package skeleton

import (
	"errors"
	"fmt"

	"github.com/Faultbox/rigcore/pkg/math"
)

var (
	ErrDuplicateBone = errors.New("skeleton: duplicate bone name")
	ErrEmptyBoneName = errors.New("skeleton: empty bone name")
	ErrUnknownParent = errors.New("skeleton: unknown parent index")
	ErrMultipleRoots = errors.New("skeleton: skeleton already has a root")
)

// NoParent marks a bone without a parent (the root).
const NoParent = -1

// Bone is one rigid segment of the hierarchy. Parent and Children are
// indices into the owning skeleton's arena, never pointers, so a bone's
// parent chain is acyclic by construction: a parent must exist before
// its children are added.
type Bone struct {
	Name     string
	Parent   int
	Children []int

	// Bind transform, local to the parent.
	Position math.Vec2
	Depth    float32
	Rotation float32
	Scale    math.Vec2

	// Length is the rest length of the segment, used by IK and skinning.
	Length float32
	// Weight scales this bone's contribution when poses are blended.
	Weight float32
}

// Skeleton is a dense arena of bones with a name lookup table. Bones are
// stored parent-before-child, so a single forward walk resolves world
// transforms.
type Skeleton struct {
	bones  []Bone
	byName map[string]int
	root   int
}

// New creates an empty skeleton.
func New() *Skeleton {
	return &Skeleton{byName: make(map[string]int), root: NoParent}
}

// AddBone appends a bone to the arena and returns its index. The parent
// must already exist (or be NoParent for the single root). Zero scale
// defaults to (1, 1) and zero weight to 1.
func (s *Skeleton) AddBone(b Bone) (int, error) {
	if b.Name == "" {
		return 0, ErrEmptyBoneName
	}
	if _, exists := s.byName[b.Name]; exists {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateBone, b.Name)
	}
	if b.Parent == NoParent {
		if s.root != NoParent {
			return 0, fmt.Errorf("%w: %q", ErrMultipleRoots, b.Name)
		}
	} else if b.Parent < 0 || b.Parent >= len(s.bones) {
		return 0, fmt.Errorf("%w: bone %q parent %d", ErrUnknownParent, b.Name, b.Parent)
	}
	if b.Scale == (math.Vec2{}) {
		b.Scale = math.Vec2{X: 1, Y: 1}
	}
	if b.Weight == 0 {
		b.Weight = 1
	}
	b.Children = nil

	idx := len(s.bones)
	s.bones = append(s.bones, b)
	s.byName[b.Name] = idx
	if b.Parent == NoParent {
		s.root = idx
	} else {
		parent := &s.bones[b.Parent]
		parent.Children = append(parent.Children, idx)
	}
	return idx, nil
}

// Count returns the number of bones.
func (s *Skeleton) Count() int {
	return len(s.bones)
}

// Bone returns the bone at index i.
func (s *Skeleton) Bone(i int) *Bone {
	return &s.bones[i]
}

// Index looks up a bone index by name.
func (s *Skeleton) Index(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// Root returns the root bone index, or NoParent for an empty skeleton.
func (s *Skeleton) Root() int {
	return s.root
}

// Names returns bone names in arena order.
func (s *Skeleton) Names() []string {
	names := make([]string, len(s.bones))
	for i := range s.bones {
		names[i] = s.bones[i].Name
	}
	return names
}

// BindPose returns a fresh pose holding every bone's bind transform.
func (s *Skeleton) BindPose() *Pose {
	p := NewPose(len(s.bones))
	for i := range s.bones {
		b := &s.bones[i]
		p.Transforms[i] = BoneTransform{
			Position: b.Position,
			Rotation: b.Rotation,
			Scale:    b.Scale,
		}
	}
	return p
}
