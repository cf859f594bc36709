package physics

import (
	"github.com/Faultbox/rigcore/pkg/math"
)

// spatialHash buckets body bounding boxes into uniform grid cells so
// pair queries only compare bodies sharing a cell.
type spatialHash struct {
	cellSize float32
	cells    map[cellKey][]int
}

type cellKey struct {
	x, y int32
}

func newSpatialHash(cellSize float32) *spatialHash {
	if cellSize <= 0 {
		cellSize = 25
	}
	return &spatialHash{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
}

func (h *spatialHash) clear() {
	for k := range h.cells {
		delete(h.cells, k)
	}
}

func (h *spatialHash) cellOf(p math.Vec2) cellKey {
	return cellKey{
		x: int32(floorDiv(p.X, h.cellSize)),
		y: int32(floorDiv(p.Y, h.cellSize)),
	}
}

func floorDiv(v, cell float32) int {
	q := v / cell
	i := int(q)
	if q < 0 && float32(i) != q {
		i--
	}
	return i
}

// insert registers a body index in every cell its box touches.
func (h *spatialHash) insert(idx int, box AABB) {
	lo := h.cellOf(box.Min)
	hi := h.cellOf(box.Max)
	for y := lo.y; y <= hi.y; y++ {
		for x := lo.x; x <= hi.x; x++ {
			k := cellKey{x: x, y: y}
			h.cells[k] = append(h.cells[k], idx)
		}
	}
}

type bodyPair struct {
	a, b int
}

// pairs returns the deduplicated candidate pairs whose boxes overlap.
// Order inside a pair is ascending so the same pair from two cells
// hashes identically.
func (h *spatialHash) pairs(boxes []AABB) []bodyPair {
	seen := make(map[bodyPair]struct{})
	var out []bodyPair
	for _, ids := range h.cells {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := ids[i], ids[j]
				if a > b {
					a, b = b, a
				}
				p := bodyPair{a: a, b: b}
				if _, ok := seen[p]; ok {
					continue
				}
				seen[p] = struct{}{}
				if boxes[a].Overlaps(boxes[b]) {
					out = append(out, p)
				}
			}
		}
	}
	return out
}
