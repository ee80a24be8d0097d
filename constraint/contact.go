package constraint

import (
	"github.com/akmonengine/feather2d/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ContactInfo describes one contact between two bodies.
// The normal points from Body1 toward Body2; Point1 lies on Body1, Point2 on Body2.
type ContactInfo struct {
	Body1 *actor.Body
	Body2 *actor.Body

	Point1  mgl64.Vec2 // world point on Body1
	Offset1 mgl64.Vec2 // Point1 - Body1 position
	Point2  mgl64.Vec2
	Offset2 mgl64.Vec2

	Collision bool
	Normal    mgl64.Vec2
	Depth     float64
}

// NewContactInfo orders a body pair for the narrow phase.
// A kinematic b stays in second position, otherwise the pair is swapped.
// This guarantees a kinematic body sits in Body2 whenever the pair is mixed;
// two kinematic bodies end with one in Body1 and are never resolved.
func NewContactInfo(a, b *actor.Body) ContactInfo {
	if b.IsKinematic() {
		return ContactInfo{Body1: a, Body2: b}
	}

	return ContactInfo{Body1: b, Body2: a}
}

// Separation returns the distance between both witness points
func (c *ContactInfo) Separation() float64 {
	return c.Point1.Sub(c.Point2).Len()
}
