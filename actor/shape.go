package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypePolygon ShapeType = iota
	ShapeTypeCircle
)

// Supporter is the only capability the collision core needs from a shape
type Supporter interface {
	// Support returns the farthest point of the shape along direction,
	// in the shape's local frame. Ties must be broken deterministically.
	Support(direction mgl64.Vec2) mgl64.Vec2
}

// Shape is the interface that all collision shapes must implement
type Shape interface {
	Supporter
	Type() ShapeType
	// ComputeMass calculates the mass of the shape given a density (per unit area)
	ComputeMass(density float64) float64
	// ComputeInertia calculates the moment of inertia around the local origin
	ComputeInertia(mass float64) float64
}

// Polygon is a convex polygon, vertices expressed in the local frame
// around the body's center of mass.
type Polygon struct {
	Vertices []mgl64.Vec2
}

// NewBox creates an axis-aligned rectangle polygon from its half extents.
// Vertices are counter-clockwise, starting from the bottom-left corner.
func NewBox(halfWidth, halfHeight float64) *Polygon {
	return &Polygon{
		Vertices: []mgl64.Vec2{
			{-halfWidth, -halfHeight},
			{halfWidth, -halfHeight},
			{halfWidth, halfHeight},
			{-halfWidth, halfHeight},
		},
	}
}

// NewRegularPolygon creates a convex polygon with sides vertices on a circle of the given radius
func NewRegularPolygon(radius float64, sides int, rotation float64) *Polygon {
	if sides < 3 {
		sides = 3
	}

	vertices := make([]mgl64.Vec2, sides)
	step := 2 * math.Pi / float64(sides)
	for i := range vertices {
		angle := rotation + step*float64(i)
		vertices[i] = mgl64.Vec2{radius * math.Cos(angle), radius * math.Sin(angle)}
	}

	return &Polygon{Vertices: vertices}
}

func (p *Polygon) Type() ShapeType {
	return ShapeTypePolygon
}

// Support scans the vertices; the first vertex reaching the maximum wins.
func (p *Polygon) Support(direction mgl64.Vec2) mgl64.Vec2 {
	if len(p.Vertices) == 0 {
		return mgl64.Vec2{}
	}

	best := p.Vertices[0]
	bestDot := best.Dot(direction)
	for _, v := range p.Vertices[1:] {
		if d := v.Dot(direction); d > bestDot {
			bestDot = d
			best = v
		}
	}

	return best
}

// Area returns the polygon area (shoelace formula)
func (p *Polygon) Area() float64 {
	var sum float64
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		sum += Cross(p.Vertices[i], p.Vertices[(i+1)%n])
	}

	return math.Abs(sum) * 0.5
}

func (p *Polygon) ComputeMass(density float64) float64 {
	return density * p.Area()
}

// ComputeInertia sums the triangle fan contributions around the local origin
func (p *Polygon) ComputeInertia(mass float64) float64 {
	n := len(p.Vertices)
	if n < 3 {
		return mass
	}

	var numerator, denominator float64
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		c := math.Abs(Cross(a, b))
		numerator += c * (a.Dot(a) + a.Dot(b) + b.Dot(b))
		denominator += c
	}
	if denominator == 0 {
		return mass
	}

	return mass * numerator / (6.0 * denominator)
}

// Circle represents a circular collision shape centered on the local origin
type Circle struct {
	Radius float64
}

func (c *Circle) Type() ShapeType {
	return ShapeTypeCircle
}

func (c *Circle) Support(direction mgl64.Vec2) mgl64.Vec2 {
	length := direction.Len()
	if length < 1e-12 {
		return mgl64.Vec2{c.Radius, 0}
	}

	return direction.Mul(c.Radius / length)
}

func (c *Circle) ComputeMass(density float64) float64 {
	return density * math.Pi * c.Radius * c.Radius
}

func (c *Circle) ComputeInertia(mass float64) float64 {
	// I = 1/2 * m * r²
	return 0.5 * mass * c.Radius * c.Radius
}

// Cross is the 2D scalar cross product a.x*b.y - a.y*b.x
func Cross(a, b mgl64.Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}
