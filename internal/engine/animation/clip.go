// Package animation samples keyframe clips into poses and composites
// them through layers, blend trees and constraints.
package animation

import (
	"errors"
	"fmt"

	"github.com/Faultbox/rigcore/pkg/math"
)

var (
	ErrUnsortedKeys = errors.New("animation: keyframe times decrease within a channel")
	ErrBadBoneIndex = errors.New("animation: bone index out of range")
	ErrBadDuration  = errors.New("animation: clip duration must be positive")
)

// VecKey is one position or scale keyframe. Easing names resolve through
// the pkg/math easing registry; empty means linear.
type VecKey struct {
	Time   float32
	Value  math.Vec2
	Easing string
}

// AngleKey is one rotation keyframe in radians.
type AngleKey struct {
	Time   float32
	Value  float32
	Easing string
}

// Track holds the keyframe channels for one bone.
type Track struct {
	Position []VecKey
	Rotation []AngleKey
	Scale    []VecKey
}

// Clip is a keyframed animation for one skeleton. Tracks are stored by
// bone arena index so sampling never touches the name table.
type Clip struct {
	Name     string
	Duration float32
	Loop     bool

	tracks []*Track
}

// NewClip creates an empty clip for a skeleton with boneCount bones.
func NewClip(name string, duration float32, loop bool, boneCount int) (*Clip, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: clip %q duration %v", ErrBadDuration, name, duration)
	}
	return &Clip{
		Name:     name,
		Duration: duration,
		Loop:     loop,
		tracks:   make([]*Track, boneCount),
	}, nil
}

// SetTrack attaches a track to a bone. Keyframe times in each channel
// must be non-decreasing.
func (c *Clip) SetTrack(bone int, tr *Track) error {
	if bone < 0 || bone >= len(c.tracks) {
		return fmt.Errorf("%w: %d", ErrBadBoneIndex, bone)
	}
	if err := validateTrack(c.Name, tr); err != nil {
		return err
	}
	c.tracks[bone] = tr
	return nil
}

// Track returns a bone's track, or nil when the bone is unkeyed.
func (c *Clip) Track(bone int) *Track {
	if bone < 0 || bone >= len(c.tracks) {
		return nil
	}
	return c.tracks[bone]
}

// BoneCount returns the number of bone slots in the clip.
func (c *Clip) BoneCount() int {
	return len(c.tracks)
}

func validateTrack(clip string, tr *Track) error {
	for i := 1; i < len(tr.Position); i++ {
		if tr.Position[i].Time < tr.Position[i-1].Time {
			return fmt.Errorf("%w: clip %q position key %d", ErrUnsortedKeys, clip, i)
		}
	}
	for i := 1; i < len(tr.Rotation); i++ {
		if tr.Rotation[i].Time < tr.Rotation[i-1].Time {
			return fmt.Errorf("%w: clip %q rotation key %d", ErrUnsortedKeys, clip, i)
		}
	}
	for i := 1; i < len(tr.Scale); i++ {
		if tr.Scale[i].Time < tr.Scale[i-1].Time {
			return fmt.Errorf("%w: clip %q scale key %d", ErrUnsortedKeys, clip, i)
		}
	}
	return nil
}
