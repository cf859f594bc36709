package animation

import (
	"github.com/Faultbox/rigcore/internal/engine/skeleton"
	"github.com/Faultbox/rigcore/pkg/math"
)

// TreeKind selects a blend-tree topology.
type TreeKind int

const (
	// TreeLinear blends the bracketing pair of nodes along a 1-D parameter.
	TreeLinear TreeKind = iota
	// TreeDirectional blends the triangle of nodes containing the 2-D
	// parameter point with barycentric weights.
	TreeDirectional
	// TreeFreeform blends all nodes by inverse distance to the parameter.
	TreeFreeform
)

// freeformEpsilon floors node distances so a node sitting exactly on the
// parameter point gets an effectively infinite, but finite, weight.
const freeformEpsilon = 1e-6

// BlendNode is one clip anchored at a parameter-space position.
type BlendNode struct {
	Position math.Vec2
	Clip     *Clip
	Weight   float32
}

// BlendTree derives a pose from continuous parameters instead of a
// single clip.
type BlendTree struct {
	Name   string
	Kind   TreeKind
	Params math.Vec2
	Nodes  []BlendNode
}

// AddNode appends a node. A zero authoring weight defaults to 1.
func (t *BlendTree) AddNode(pos math.Vec2, clip *Clip, weight float32) {
	if weight == 0 {
		weight = 1
	}
	t.Nodes = append(t.Nodes, BlendNode{Position: pos, Clip: clip, Weight: weight})
}

// Evaluate samples every contributing node at the given playback time and
// blends the poses by the tree's normalized weights.
func (t *BlendTree) Evaluate(s *skeleton.Skeleton, time float32) *skeleton.Pose {
	if len(t.Nodes) == 0 {
		return s.BindPose()
	}
	weights := t.NodeWeights()

	var result *skeleton.Pose
	var accum float32
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		pose := Sample(s, t.Nodes[i].Clip, time)
		if result == nil {
			result = pose
			accum = w
			continue
		}
		accum += w
		result.BlendOverride(pose, w/accum, nil)
	}
	if result == nil {
		return Sample(s, t.Nodes[0].Clip, time)
	}
	return result
}

// NodeWeights returns the per-node blend weights for the current
// parameters, normalized to sum to 1 whenever at least one node exists.
func (t *BlendTree) NodeWeights() []float32 {
	if len(t.Nodes) == 0 {
		return nil
	}
	var weights []float32
	switch t.Kind {
	case TreeLinear:
		weights = t.linearWeights()
	case TreeDirectional:
		weights = t.directionalWeights()
	case TreeFreeform:
		weights = t.freeformWeights()
	}
	return normalizeWeights(weights)
}

// linearWeights selects the bracketing pair along the X axis of the
// parameter and splits weight between them.
func (t *BlendTree) linearWeights() []float32 {
	weights := make([]float32, len(t.Nodes))
	p := t.Params.X
	if len(t.Nodes) == 1 || p <= t.Nodes[0].Position.X {
		weights[0] = 1
		return weights
	}
	last := len(t.Nodes) - 1
	if p >= t.Nodes[last].Position.X {
		weights[last] = 1
		return weights
	}
	i := bracket(p, len(t.Nodes), func(j int) float32 { return t.Nodes[j].Position.X })
	x0 := t.Nodes[i].Position.X
	x1 := t.Nodes[i+1].Position.X
	frac := float32(0)
	if x1 != x0 {
		frac = (p - x0) / (x1 - x0)
	}
	weights[i] = 1 - frac
	weights[i+1] = frac
	return weights
}

// directionalWeights looks for a triangle of nodes containing the
// parameter point and assigns barycentric weights. When no triangle
// contains the point the first node wins outright; that fallback is
// long-standing observable behavior, kept as-is.
func (t *BlendTree) directionalWeights() []float32 {
	weights := make([]float32, len(t.Nodes))
	n := len(t.Nodes)
	if n < 3 {
		weights[0] = 1
		return weights
	}
	for i := 0; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			for k := j + 1; k < n; k++ {
				u, v, w, ok := barycentric(t.Params,
					t.Nodes[i].Position, t.Nodes[j].Position, t.Nodes[k].Position)
				if !ok {
					continue
				}
				weights[i] = u
				weights[j] = v
				weights[k] = w
				return weights
			}
		}
	}
	weights[0] = 1
	return weights
}

// freeformWeights weights every node by authored weight over distance.
func (t *BlendTree) freeformWeights() []float32 {
	weights := make([]float32, len(t.Nodes))
	for i := range t.Nodes {
		d := t.Params.Distance(t.Nodes[i].Position)
		if d < freeformEpsilon {
			d = freeformEpsilon
		}
		weights[i] = t.Nodes[i].Weight / d
	}
	return weights
}

// normalizeWeights scales weights to sum to 1. A degenerate all-zero set
// collapses onto the first node.
func normalizeWeights(weights []float32) []float32 {
	var sum float32
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		for i := range weights {
			weights[i] = 0
		}
		weights[0] = 1
		return weights
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// barycentric returns the barycentric coordinates of p in triangle abc
// and whether p lies inside it. A degenerate triangle reports false.
func barycentric(p, a, b, c math.Vec2) (u, v, w float32, inside bool) {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := p.Sub(a)
	den := v0.Cross(v1)
	if den == 0 {
		return 0, 0, 0, false
	}
	v = v2.Cross(v1) / den
	w = v0.Cross(v2) / den
	u = 1 - v - w
	inside = u >= 0 && v >= 0 && w >= 0
	return u, v, w, inside
}
