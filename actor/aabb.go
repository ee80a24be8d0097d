package actor

import "github.com/go-gl/mathgl/mgl64"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec2) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on both axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y()
}

// ComputeAABB bounds a body using four support queries, which is exact
// for any convex shape.
func ComputeAABB(body *Body) AABB {
	return AABB{
		Min: mgl64.Vec2{
			body.SupportWorld(mgl64.Vec2{-1, 0}).X(),
			body.SupportWorld(mgl64.Vec2{0, -1}).Y(),
		},
		Max: mgl64.Vec2{
			body.SupportWorld(mgl64.Vec2{1, 0}).X(),
			body.SupportWorld(mgl64.Vec2{0, 1}).Y(),
		},
	}
}
