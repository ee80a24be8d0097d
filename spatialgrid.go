package feather2d

import (
	"math"
	"sort"

	"github.com/akmonengine/feather2d/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey is the coordinate of a grid cell
type CellKey struct {
	X, Y int
}

// Cell holds the indices of the bodies overlapping it
type Cell struct {
	bodyIndices []int
}

// MaxCellsPerBody is the number of cells a body may cover before it is kept
// out of the grid and tested against every other body instead.
const MaxCellsPerBody = 64

// SpatialGrid is a uniform grid hashed into a fixed number of buckets, used as broad phase.
// Distinct cells may share a bucket; the AABB test filters the false positives.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int

	aabbs []actor.AABB
	seen  []bool

	// oversized bodies (floors, walls) bypass the cells
	oversized    []int
	oversizedSet []bool
	inserted     []bool
}

// NewSpatialGrid creates a grid of numCells buckets (rounded up to a power of two).
// cellSize should be close to the size of a typical dynamic body: bodies spanning
// more than MaxCellsPerBody cells are handled outside the grid, in O(n) per body.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Build clears the grid and inserts every body by its slice index.
// Bodies without a shape are left out.
func (sg *SpatialGrid) Build(bodies []*actor.Body) {
	sg.Clear()
	for i, body := range bodies {
		if !collidable(body) {
			continue
		}
		sg.Insert(i, actor.ComputeAABB(body))
	}
	sg.SortCells()
}

// Insert registers a body index in every cell its bounding box covers
func (sg *SpatialGrid) Insert(bodyIndex int, aabb actor.AABB) {
	for len(sg.aabbs) <= bodyIndex {
		sg.aabbs = append(sg.aabbs, actor.AABB{})
		sg.oversizedSet = append(sg.oversizedSet, false)
		sg.inserted = append(sg.inserted, false)
	}
	sg.aabbs[bodyIndex] = aabb
	sg.inserted[bodyIndex] = true

	if sg.cellCount(aabb) > MaxCellsPerBody {
		if !sg.oversizedSet[bodyIndex] {
			sg.oversizedSet[bodyIndex] = true
			sg.oversized = append(sg.oversized, bodyIndex)
		}
		return
	}

	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			cellIdx := sg.hashCell(CellKey{x, y})
			cell := &sg.cells[cellIdx]

			// Several cells of the same body may hash into one bucket
			if n := len(cell.bodyIndices); n > 0 && cell.bodyIndices[n-1] == bodyIndex {
				continue
			}
			cell.bodyIndices = append(cell.bodyIndices, bodyIndex)
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
	sg.aabbs = sg.aabbs[:0]
	sg.oversized = sg.oversized[:0]
	sg.oversizedSet = sg.oversizedSet[:0]
	sg.inserted = sg.inserted[:0]
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].bodyIndices) > 1 {
			sort.Ints(sg.cells[i].bodyIndices)
		}
	}
}

// FindPairs returns each overlapping pair once, ordered by (i, j) with i < j.
// Pairs of kinematic bodies and bodies left out of the grid are skipped.
func (sg *SpatialGrid) FindPairs(bodies []*actor.Body) []Pair {
	pairs := make([]Pair, 0, len(bodies))

	if cap(sg.seen) < len(bodies) {
		sg.seen = make([]bool, len(bodies))
	}
	seen := sg.seen[:len(bodies)]
	candidates := make([]int, 0, 16)

	addCandidate := func(bodyIdx, otherIdx int) {
		if otherIdx <= bodyIdx || seen[otherIdx] {
			return
		}
		seen[otherIdx] = true
		candidates = append(candidates, otherIdx)
	}

	for bodyIdx, bodyA := range bodies {
		if !sg.isInserted(bodyIdx) {
			continue
		}
		aabbA := sg.aabbs[bodyIdx]

		candidates = candidates[:0]
		if sg.oversizedSet[bodyIdx] {
			for otherIdx := bodyIdx + 1; otherIdx < len(bodies); otherIdx++ {
				if sg.isInserted(otherIdx) {
					addCandidate(bodyIdx, otherIdx)
				}
			}
		} else {
			minCell := sg.worldToCell(aabbA.Min)
			maxCell := sg.worldToCell(aabbA.Max)
			for x := minCell.X; x <= maxCell.X; x++ {
				for y := minCell.Y; y <= maxCell.Y; y++ {
					for _, otherIdx := range sg.cells[sg.hashCell(CellKey{x, y})].bodyIndices {
						addCandidate(bodyIdx, otherIdx)
					}
				}
			}
			for _, otherIdx := range sg.oversized {
				if otherIdx < len(bodies) {
					addCandidate(bodyIdx, otherIdx)
				}
			}
		}

		sort.Ints(candidates)
		for _, otherIdx := range candidates {
			seen[otherIdx] = false

			bodyB := bodies[otherIdx]
			if bodyA.IsKinematic() && bodyB.IsKinematic() {
				continue
			}
			if aabbA.Overlaps(sg.aabbs[otherIdx]) {
				pairs = append(pairs, Pair{BodyA: bodyA, BodyB: bodyB})
			}
		}
	}

	return pairs
}

func (sg *SpatialGrid) isInserted(bodyIndex int) bool {
	return bodyIndex < len(sg.inserted) && sg.inserted[bodyIndex]
}

// cellCount is computed in floating point, so huge boxes cannot overflow
func (sg *SpatialGrid) cellCount(aabb actor.AABB) float64 {
	columns := math.Floor(aabb.Max.X()/sg.cellSize) - math.Floor(aabb.Min.X()/sg.cellSize) + 1
	rows := math.Floor(aabb.Max.Y()/sg.cellSize) - math.Floor(aabb.Min.Y()/sg.cellSize) + 1
	return columns * rows
}

func (sg *SpatialGrid) worldToCell(pos mgl64.Vec2) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
	}
}

// hashCell maps a cell to a bucket index
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663)
	return h & sg.cellMask
}
