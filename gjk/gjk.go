// Package gjk implements the Gilbert-Johnson-Keerthi (GJK) algorithm for 2D collision detection.
//
// GJK detects whether two convex shapes overlap by testing if their Minkowski difference
// contains the origin. In 2D the simplex is at most a triangle: it starts as a segment
// straddling the origin and grows a third point on the origin's side until the triangle
// encloses it.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
package gjk

import (
	"github.com/akmonengine/feather2d/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxIterations is a safety limit to prevent infinite loops on curved shapes.
	MaxIterations = 64

	// Tolerance is used to compare support points with each other.
	Tolerance = 1e-9
)

// SupportPoint is a point of the Minkowski difference (A - B) which remembers the
// two points it was built from, so world-space contact points can be rebuilt later.
type SupportPoint struct {
	Point mgl64.Vec2 // OnA - OnB
	OnA   mgl64.Vec2 // farthest point of A along the direction
	OnB   mgl64.Vec2 // farthest point of B along the opposite direction
}

// MinkowskiSupport computes a support point in the Minkowski difference (A - B).
//
// Returns:
//
//	Support point: furthestPoint(A, direction) - furthestPoint(B, -direction)
//
// Shapes only need to implement Support(), never expose their full geometry.
func MinkowskiSupport(a, b *actor.Body, direction mgl64.Vec2) SupportPoint {
	onA := a.SupportWorld(direction)
	onB := b.SupportWorld(direction.Mul(-1))

	return SupportPoint{
		Point: onA.Sub(onB),
		OnA:   onA,
		OnB:   onB,
	}
}

// Simplex holds the three support points of the 2D GJK simplex.
// Slots 0 and 1 form the working edge; slot 2 holds either the last discarded
// point or, once the origin is enclosed, the third vertex of the triangle.
type Simplex struct {
	Points   [3]SupportPoint
	contains bool
}

// ContainsOrigin reports whether the simplex encloses the origin
func (s *Simplex) ContainsOrigin() bool {
	return s.contains
}

func (s *Simplex) Reset() {
	*s = Simplex{}
}

// HasPoint reports whether p duplicates one of the three slots
func (s *Simplex) HasPoint(p mgl64.Vec2) bool {
	for _, point := range s.Points {
		if point.Point.Sub(p).Len() < Tolerance {
			return true
		}
	}
	return false
}

// nextPoint inserts a new support point.
//
// n1 and n2 are the normals of the candidate edges (p0, p) and (p1, p), both facing
// the origin. If the vertex left out of an edge lies on the far side of that edge,
// the origin is outside the triangle across it: keep that edge and continue.
// Otherwise the triangle (p0, p1, p) encloses the origin.
func (s *Simplex) nextPoint(p SupportPoint) {
	n1 := NormalToOrigin(s.Points[0].Point, p.Point)
	n2 := NormalToOrigin(s.Points[1].Point, p.Point)
	edge := s.Points[1].Point.Sub(s.Points[0].Point)

	switch {
	case n1.Dot(edge) < 0:
		s.Points[2] = s.Points[1]
		s.Points[1] = p
	case n2.Dot(edge.Mul(-1)) < 0:
		s.Points[2] = s.Points[0]
		s.Points[0] = p
	default:
		s.Points[2] = p
		s.contains = true
	}
}

// Initialize seeds the simplex with two support points that straddle the origin.
//
// The first direction points from B's center toward A's center (or along X when
// they coincide); the second direction points from the first support point back
// toward the origin. If the two points do not lie on opposite sides of the origin,
// the shapes cannot overlap.
func Initialize(a, b *actor.Body) (Simplex, bool) {
	var simplex Simplex

	direction := a.Transform.Position.Sub(b.Transform.Position)
	if direction.LenSqr() < 1e-16 {
		direction = mgl64.Vec2{1, 0} // Fallback if positions are identical
	} else {
		direction = direction.Normalize()
	}

	simplex.Points[0] = MinkowskiSupport(a, b, direction)

	back := simplex.Points[0].Point.Mul(-1)
	if back.LenSqr() < 1e-16 {
		back = direction.Mul(-1)
	} else {
		back = back.Normalize()
	}
	simplex.Points[1] = MinkowskiSupport(a, b, back)

	if !isOpposing(simplex.Points[0].Point, simplex.Points[1].Point) {
		return simplex, false
	}

	return simplex, true
}

// GJK performs collision detection between two convex rigid bodies.
//
// Algorithm overview:
//  1. Seed a segment straddling the origin (Initialize)
//  2. Search along the segment normal facing the origin
//  3. If the new point doesn't pass the origin → no collision
//  4. Replace one endpoint or close the triangle around the origin
//
// The simplex is modified in place. On success it holds the triangle that EPA
// uses as its initial polytope.
func GJK(a, b *actor.Body, simplex *Simplex) bool {
	initial, ok := Initialize(a, b)
	*simplex = initial
	if !ok {
		return false
	}

	for i := 0; i < MaxIterations; i++ {
		direction := NormalToOrigin(simplex.Points[0].Point, simplex.Points[1].Point)
		point := MinkowskiSupport(a, b, direction)

		// Early exit: the new point doesn't pass the origin, so the origin
		// cannot be reached in this direction. The shapes are separated.
		if point.Point.Dot(direction) <= 0 {
			return false
		}
		// No progress: the support point is already known
		if simplex.HasPoint(point.Point) {
			return false
		}

		simplex.nextPoint(point)
		if simplex.ContainsOrigin() {
			return true
		}
	}

	return false
}

// NormalToOrigin returns the unit normal of segment (v1, v2) that faces the origin.
// When the origin lies on the segment's line, the normal (t.y, -t.x) with
// t = v1 - v2 is returned as is.
func NormalToOrigin(v1, v2 mgl64.Vec2) mgl64.Vec2 {
	t := v1.Sub(v2)
	n := mgl64.Vec2{t.Y(), -t.X()}
	length := n.Len()
	if length < 1e-16 {
		// Degenerate segment, point from v1 toward the origin
		n = v1.Mul(-1)
		length = n.Len()
		if length < 1e-16 {
			return mgl64.Vec2{1, 0}
		}
		return n.Mul(1.0 / length)
	}
	n = n.Mul(1.0 / length)

	if n.Dot(v1) > 0 {
		return n.Mul(-1)
	}
	return n
}

func isOpposing(v1, v2 mgl64.Vec2) bool {
	return v1.Dot(v2) < 0
}
