package formats

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Clip document errors.
var (
	ErrBadClipDuration  = errors.New("clip duration must be positive")
	ErrUnsortedClipKeys = errors.New("clip keyframe times must be non-decreasing")
	ErrEmptyTrackBone   = errors.New("clip track is missing a bone name")
)

// clipSchema validates JSON clip documents before decoding. YAML
// documents go through the same semantic checks after unmarshal.
var clipSchema = jsonschema.MustCompileString("clip.schema.json", `{
	"type": "object",
	"required": ["version", "name", "duration"],
	"properties": {
		"version": {"type": "integer", "minimum": 1},
		"name": {"type": "string", "minLength": 1},
		"duration": {"type": "number", "exclusiveMinimum": 0},
		"loop": {"type": "boolean"},
		"tracks": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["bone"],
				"properties": {
					"bone": {"type": "string", "minLength": 1}
				}
			}
		}
	}
}`)

// VecKeyDoc is a serialized two-component keyframe.
type VecKeyDoc struct {
	Time   float32 `yaml:"time" json:"time"`
	X      float32 `yaml:"x" json:"x"`
	Y      float32 `yaml:"y" json:"y"`
	Easing string  `yaml:"easing,omitempty" json:"easing,omitempty"`
}

// AngleKeyDoc is a serialized rotation keyframe, in radians.
type AngleKeyDoc struct {
	Time   float32 `yaml:"time" json:"time"`
	Value  float32 `yaml:"value" json:"value"`
	Easing string  `yaml:"easing,omitempty" json:"easing,omitempty"`
}

// TrackDoc holds the keyframes animating one bone, addressed by name.
type TrackDoc struct {
	Bone     string        `yaml:"bone" json:"bone"`
	Position []VecKeyDoc   `yaml:"position,omitempty" json:"position,omitempty"`
	Rotation []AngleKeyDoc `yaml:"rotation,omitempty" json:"rotation,omitempty"`
	Scale    []VecKeyDoc   `yaml:"scale,omitempty" json:"scale,omitempty"`
}

// ClipDoc is a serialized animation clip.
type ClipDoc struct {
	Version  int        `yaml:"version" json:"version"`
	Name     string     `yaml:"name" json:"name"`
	Duration float32    `yaml:"duration" json:"duration"`
	Loop     bool       `yaml:"loop" json:"loop"`
	Tracks   []TrackDoc `yaml:"tracks" json:"tracks"`
}

// ParseClip decodes a clip document from YAML or JSON bytes, gunzipping
// first when the data carries a gzip frame.
func ParseClip(data []byte) (*ClipDoc, error) {
	raw, err := decompress(data)
	if err != nil {
		return nil, err
	}
	if isJSON(raw) {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("clip json: %w", err)
		}
		if err := clipSchema.Validate(v); err != nil {
			return nil, fmt.Errorf("clip schema: %w", err)
		}
	}
	var doc ClipDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("clip yaml: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *ClipDoc) validate() error {
	if d.Version < 1 || d.Version > Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	if d.Duration <= 0 {
		return fmt.Errorf("%w: clip %q", ErrBadClipDuration, d.Name)
	}
	for _, tr := range d.Tracks {
		if tr.Bone == "" {
			return fmt.Errorf("%w: clip %q", ErrEmptyTrackBone, d.Name)
		}
		if err := checkVecTimes(tr.Position); err != nil {
			return fmt.Errorf("clip %q bone %q position: %w", d.Name, tr.Bone, err)
		}
		if err := checkAngleTimes(tr.Rotation); err != nil {
			return fmt.Errorf("clip %q bone %q rotation: %w", d.Name, tr.Bone, err)
		}
		if err := checkVecTimes(tr.Scale); err != nil {
			return fmt.Errorf("clip %q bone %q scale: %w", d.Name, tr.Bone, err)
		}
	}
	return nil
}

func checkVecTimes(keys []VecKeyDoc) error {
	for i := 1; i < len(keys); i++ {
		if keys[i].Time < keys[i-1].Time {
			return ErrUnsortedClipKeys
		}
	}
	return nil
}

func checkAngleTimes(keys []AngleKeyDoc) error {
	for i := 1; i < len(keys); i++ {
		if keys[i].Time < keys[i-1].Time {
			return ErrUnsortedClipKeys
		}
	}
	return nil
}

// EncodeClip serializes a clip document as YAML, gzipped when compact
// is set. The version field is stamped with the current Version.
func EncodeClip(doc *ClipDoc, compact bool) ([]byte, error) {
	doc.Version = Version
	if err := doc.validate(); err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if compact {
		return compress(out)
	}
	return out, nil
}
