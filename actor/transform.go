package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and an orientation in 2D space
type Transform struct {
	Position mgl64.Vec2
	Rotation float64 // radians, counter-clockwise
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec2{0, 0},
		Rotation: 0,
	}
}

// ToWorld maps a point from the local frame to world space
func (t Transform) ToWorld(local mgl64.Vec2) mgl64.Vec2 {
	return t.Position.Add(t.Rotate(local))
}

// Rotate applies the transform's rotation to a direction
func (t Transform) Rotate(v mgl64.Vec2) mgl64.Vec2 {
	if t.Rotation == 0 {
		return v
	}
	return mgl64.Rotate2D(t.Rotation).Mul2x1(v)
}

// InverseRotate maps a world direction into the local frame
func (t Transform) InverseRotate(v mgl64.Vec2) mgl64.Vec2 {
	if t.Rotation == 0 {
		return v
	}
	return mgl64.Rotate2D(-t.Rotation).Mul2x1(v)
}
