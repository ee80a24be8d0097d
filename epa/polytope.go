package epa

import (
	"errors"
	"math"
	"sync"

	"github.com/akmonengine/feather2d/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrDegenerateSimplex is returned when the GJK triangle has no area
var ErrDegenerateSimplex = errors.New("degenerate simplex")

// Edge is one record of the polytope's circular edge list.
// The edge goes from its own Point to the Point of the next record.
type Edge struct {
	Point gjk.SupportPoint
	next  int
	prev  int
}

// Polytope is a convex polygon in Minkowski space, stored as an arena-indexed
// circular doubly-linked list of edges. It is always wound counter-clockwise,
// so the outward normal of an edge is (e.y, -e.x) with e = p2 - p1.
type Polytope struct {
	edges []Edge
	head  int
}

// polytopePool recycles the edge arena between queries
var polytopePool = sync.Pool{
	New: func() interface{} {
		return &Polytope{
			edges: make([]Edge, 0, polytopeInitialCapacity),
		}
	},
}

// Reset prepares the polytope for reuse without releasing its arena
func (p *Polytope) Reset() {
	p.edges = p.edges[:0]
	p.head = 0
}

// Build seeds the polytope with the three points of a GJK simplex,
// reordering them counter-clockwise.
func (p *Polytope) Build(simplex *gjk.Simplex) error {
	p.Reset()

	a, b, c := simplex.Points[0], simplex.Points[1], simplex.Points[2]
	orientation := cross(b.Point.Sub(a.Point), c.Point.Sub(a.Point))
	if math.Abs(orientation) < 1e-12 {
		return ErrDegenerateSimplex
	}
	if orientation < 0 {
		b, c = c, b
	}

	p.edges = append(p.edges,
		Edge{Point: a, next: 1, prev: 2},
		Edge{Point: b, next: 2, prev: 0},
		Edge{Point: c, next: 0, prev: 1},
	)

	return nil
}

// Len returns the number of edges (and vertices)
func (p *Polytope) Len() int {
	return len(p.edges)
}

// P1 returns the start point of edge i
func (p *Polytope) P1(i int) gjk.SupportPoint {
	return p.edges[i].Point
}

// P2 returns the end point of edge i
func (p *Polytope) P2(i int) gjk.SupportPoint {
	return p.edges[p.edges[i].next].Point
}

// Next returns the edge following i
func (p *Polytope) Next(i int) int {
	return p.edges[i].next
}

// Prev returns the edge preceding i
func (p *Polytope) Prev(i int) int {
	return p.edges[i].prev
}

// Normal returns the outward unit normal of edge i.
// ok is false for a zero-length edge.
func (p *Polytope) Normal(i int) (normal mgl64.Vec2, ok bool) {
	e := p.P2(i).Point.Sub(p.P1(i).Point)
	length := e.Len()
	if length < 1e-12 {
		return mgl64.Vec2{}, false
	}

	return mgl64.Vec2{e.Y() / length, -e.X() / length}, true
}

// ProjectOrigin returns the parameter t of the origin's orthogonal projection
// onto the line of edge i: 0 at P1, 1 at P2.
func (p *Polytope) ProjectOrigin(i int) float64 {
	p1 := p.P1(i).Point
	e := p.P2(i).Point.Sub(p1)
	lengthSqr := e.LenSqr()
	if lengthSqr < 1e-24 {
		return 0
	}

	return p1.Mul(-1).Dot(e) / lengthSqr
}

// ClosestEdge finds the edge closest to the origin among the edges whose
// origin projection falls within [0, 1). Ties keep the first edge met while
// walking from the head.
func (p *Polytope) ClosestEdge() (index int, normal mgl64.Vec2, distance float64, found bool) {
	if len(p.edges) == 0 {
		return -1, mgl64.Vec2{}, 0, false
	}

	index = -1
	distance = math.MaxFloat64

	current := p.head
	for {
		if n, ok := p.Normal(current); ok {
			d := n.Dot(p.P1(current).Point)
			if d < distance {
				if t := p.ProjectOrigin(current); t >= 0 && t < 1 {
					index = current
					normal = n
					distance = d
				}
			}
		}

		current = p.edges[current].next
		if current == p.head {
			break
		}
	}

	if index < 0 {
		return -1, mgl64.Vec2{}, 0, false
	}
	return index, normal, distance, true
}

// InsertAfter splices a new vertex between edge i's endpoints and returns
// the index of the new edge starting at point.
func (p *Polytope) InsertAfter(i int, point gjk.SupportPoint) int {
	next := p.edges[i].next
	index := len(p.edges)

	p.edges = append(p.edges, Edge{Point: point, next: next, prev: i})
	p.edges[i].next = index
	p.edges[next].prev = index

	return index
}

// Vertices returns the polytope vertices in traversal order, starting at the head
func (p *Polytope) Vertices() []mgl64.Vec2 {
	if len(p.edges) == 0 {
		return nil
	}

	vertices := make([]mgl64.Vec2, 0, len(p.edges))
	current := p.head
	for {
		vertices = append(vertices, p.edges[current].Point.Point)
		current = p.edges[current].next
		if current == p.head {
			break
		}
	}

	return vertices
}

func cross(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}
