// Package mesh holds skinned mesh data produced by the rigger.
package mesh

import (
	"sort"

	"github.com/Faultbox/rigcore/pkg/math"
)

// MaxInfluences is the bone influence cap per vertex.
const MaxInfluences = 4

// Influence binds a vertex to a bone by arena index.
type Influence struct {
	Bone   int
	Weight float32
}

// Vertex is one skinned mesh vertex. A mesh references bones by index
// only; it never owns them.
type Vertex struct {
	Position   math.Vec2
	UV         math.Vec2
	Influences []Influence
}

// Mesh is a triangle mesh with per-vertex skin weights.
type Mesh struct {
	Vertices []Vertex
	// Triangles holds vertex indices, three per face.
	Triangles []int
}

// NormalizeWeights trims v's influences to the strongest MaxInfluences
// and rescales them to sum to 1. Vertices with no positive weight are
// left uninfluenced.
func (v *Vertex) NormalizeWeights() {
	kept := v.Influences[:0]
	for _, inf := range v.Influences {
		if inf.Weight > 0 {
			kept = append(kept, inf)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Weight > kept[j].Weight })
	if len(kept) > MaxInfluences {
		kept = kept[:MaxInfluences]
	}
	var sum float32
	for _, inf := range kept {
		sum += inf.Weight
	}
	if sum > 0 {
		for i := range kept {
			kept[i].Weight /= sum
		}
	}
	v.Influences = kept
}

// WeightSum returns the total influence weight, 0 for an unskinned vertex.
func (v *Vertex) WeightSum() float32 {
	var sum float32
	for _, inf := range v.Influences {
		sum += inf.Weight
	}
	return sum
}
