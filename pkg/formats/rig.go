package formats

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Rig document errors.
var (
	ErrEmptyRig         = errors.New("rig has no bones")
	ErrEmptyRigBone     = errors.New("rig bone is missing a name")
	ErrDuplicateRigBone = errors.New("duplicate rig bone name")
	ErrUnknownRigParent = errors.New("rig bone references an unknown parent")
	ErrRigParentOrder   = errors.New("rig parent must be declared before its children")
)

var rigSchema = jsonschema.MustCompileString("rig.schema.json", `{
	"type": "object",
	"required": ["version", "name", "bones"],
	"properties": {
		"version": {"type": "integer", "minimum": 1},
		"name": {"type": "string", "minLength": 1},
		"bones": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string", "minLength": 1}
				}
			}
		}
	}
}`)

// BoneDoc is one serialized bone. Parent is a bone name; empty means
// the root.
type BoneDoc struct {
	Name     string  `yaml:"name" json:"name"`
	Parent   string  `yaml:"parent,omitempty" json:"parent,omitempty"`
	X        float32 `yaml:"x" json:"x"`
	Y        float32 `yaml:"y" json:"y"`
	Rotation float32 `yaml:"rotation,omitempty" json:"rotation,omitempty"`
	ScaleX   float32 `yaml:"scale_x,omitempty" json:"scale_x,omitempty"`
	ScaleY   float32 `yaml:"scale_y,omitempty" json:"scale_y,omitempty"`
	Length   float32 `yaml:"length,omitempty" json:"length,omitempty"`
	Weight   float32 `yaml:"weight,omitempty" json:"weight,omitempty"`
}

// InfluenceDoc binds a mesh vertex to a bone by name.
type InfluenceDoc struct {
	Bone   string  `yaml:"bone" json:"bone"`
	Weight float32 `yaml:"weight" json:"weight"`
}

// VertexDoc is one serialized mesh vertex.
type VertexDoc struct {
	X          float32        `yaml:"x" json:"x"`
	Y          float32        `yaml:"y" json:"y"`
	U          float32        `yaml:"u" json:"u"`
	V          float32        `yaml:"v" json:"v"`
	Influences []InfluenceDoc `yaml:"influences,omitempty" json:"influences,omitempty"`
}

// MeshDoc is the serialized skinned mesh.
type MeshDoc struct {
	Vertices  []VertexDoc `yaml:"vertices" json:"vertices"`
	Triangles []int       `yaml:"triangles" json:"triangles"`
}

// RigDoc is a serialized character rig: the bone hierarchy plus an
// optional skinned mesh.
type RigDoc struct {
	Version int       `yaml:"version" json:"version"`
	Name    string    `yaml:"name" json:"name"`
	Bones   []BoneDoc `yaml:"bones" json:"bones"`
	Mesh    *MeshDoc  `yaml:"mesh,omitempty" json:"mesh,omitempty"`
}

// ParseRig decodes a rig document from YAML or JSON bytes, gunzipping
// first when the data carries a gzip frame.
func ParseRig(data []byte) (*RigDoc, error) {
	raw, err := decompress(data)
	if err != nil {
		return nil, err
	}
	if isJSON(raw) {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("rig json: %w", err)
		}
		if err := rigSchema.Validate(v); err != nil {
			return nil, fmt.Errorf("rig schema: %w", err)
		}
	}
	var doc RigDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("rig yaml: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *RigDoc) validate() error {
	if d.Version < 1 || d.Version > Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	if len(d.Bones) == 0 {
		return fmt.Errorf("%w: rig %q", ErrEmptyRig, d.Name)
	}
	seen := make(map[string]int, len(d.Bones))
	for i, b := range d.Bones {
		if b.Name == "" {
			return fmt.Errorf("%w: rig %q bone %d", ErrEmptyRigBone, d.Name, i)
		}
		if _, ok := seen[b.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateRigBone, b.Name)
		}
		if b.Parent != "" {
			if _, ok := seen[b.Parent]; !ok {
				// Distinguish a forward reference from a missing bone.
				for j := i + 1; j < len(d.Bones); j++ {
					if d.Bones[j].Name == b.Parent {
						return fmt.Errorf("%w: bone %q parent %q", ErrRigParentOrder, b.Name, b.Parent)
					}
				}
				return fmt.Errorf("%w: bone %q parent %q", ErrUnknownRigParent, b.Name, b.Parent)
			}
		}
		seen[b.Name] = i
	}
	return nil
}

// EncodeRig serializes a rig document as YAML, gzipped when compact is
// set. The version field is stamped with the current Version.
func EncodeRig(doc *RigDoc, compact bool) ([]byte, error) {
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
