// Package epa implements the Expanding Polytope Algorithm for computing penetration depth in 2D.
//
// EPA is run after GJK detects a collision to determine:
//   - Penetration depth (how far shapes overlap)
//   - Contact normal (direction to separate shapes)
//   - Contact points (where shapes touch, one on each body)
//
// The algorithm expands a polygon (starting from GJK's final triangle) toward the boundary
// of the Minkowski difference, until the edge closest to the origin is an edge of the
// Minkowski difference itself. That edge gives the Minimum Translation Vector.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"errors"
	"fmt"

	"github.com/akmonengine/feather2d/constraint"
	"github.com/akmonengine/feather2d/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxIterations limits polytope expansion to prevent infinite loops.
	// Polygons converge in a handful of iterations, circles need more.
	// If this limit is reached, EPA returns ErrNotConverged.
	MaxIterations = 64

	// ConvergenceTolerance defines when EPA has converged: the new support
	// point lies on the closest edge (within this distance).
	ConvergenceTolerance = 1e-6

	polytopeInitialCapacity = 8
)

// ErrNotConverged is returned when the polytope cannot be expanded to the
// boundary of the Minkowski difference.
var ErrNotConverged = errors.New("epa did not converge")

// EPA computes penetration depth and contact information for overlapping convex bodies.
//
// Algorithm overview:
//  1. Start with the triangle from GJK (containing the origin)
//  2. Find the edge closest to the origin
//  3. Get the support point along that edge's outward normal
//  4. If the point lies on the edge → converged
//  5. Otherwise insert the point after the closest edge, repeat from step 2
//
// On convergence the origin's projection ratio on the closest edge interpolates the
// witness points of both edge vertices, giving one world contact point per body.
//
// The contact normal points from info.Body1 toward info.Body2.
// Penetration depth is the closest edge's distance to the origin.
func EPA(simplex *gjk.Simplex, info *constraint.ContactInfo) error {
	a, b := info.Body1, info.Body2

	polytope := polytopePool.Get().(*Polytope)
	defer polytopePool.Put(polytope)

	if err := polytope.Build(simplex); err != nil {
		return fmt.Errorf("%w: %w", ErrNotConverged, err)
	}

	for i := 0; i < MaxIterations; i++ {
		closest, normal, distance, found := polytope.ClosestEdge()
		if !found {
			return fmt.Errorf("%w: no edge faces the origin", ErrNotConverged)
		}

		support := gjk.MinkowskiSupport(a, b, normal)
		if support.Point.Dot(normal)-distance < ConvergenceTolerance {
			fillContact(polytope, closest, normal, distance, info)
			return nil
		}

		polytope.InsertAfter(closest, support)
	}

	return fmt.Errorf("%w after %d iterations", ErrNotConverged, MaxIterations)
}

// fillContact writes the result of the converged edge into info
func fillContact(polytope *Polytope, edge int, normal mgl64.Vec2, distance float64, info *constraint.ContactInfo) {
	ratio := polytope.ProjectOrigin(edge)
	p1, p2 := polytope.P1(edge), polytope.P2(edge)

	info.Point1 = lerp(p1.OnA, p2.OnA, ratio)
	info.Offset1 = info.Point1.Sub(info.Body1.Transform.Position)

	info.Point2 = lerp(p1.OnB, p2.OnB, ratio)
	info.Offset2 = info.Point2.Sub(info.Body2.Transform.Position)

	info.Normal = normal
	info.Depth = distance
}

func lerp(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
