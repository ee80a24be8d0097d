package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// Helper functions
func vec2Equal(a, b mgl64.Vec2, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) < tolerance &&
		math.Abs(a.Y()-b.Y()) < tolerance
}

func floatEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

// ========== SUPPORT TESTS ==========
func TestPolygonSupport(t *testing.T) {
	box := NewBox(1, 0.5)

	tests := []struct {
		name      string
		direction mgl64.Vec2
		expected  mgl64.Vec2
	}{
		{name: "diagonal up right", direction: mgl64.Vec2{1, 1}, expected: mgl64.Vec2{1, 0.5}},
		{name: "diagonal down left", direction: mgl64.Vec2{-1, -1}, expected: mgl64.Vec2{-1, -0.5}},
		{name: "tie along +x keeps the first vertex", direction: mgl64.Vec2{1, 0}, expected: mgl64.Vec2{1, -0.5}},
		{name: "tie along +y keeps the first vertex", direction: mgl64.Vec2{0, 1}, expected: mgl64.Vec2{1, 0.5}},
		{name: "zero direction returns the first vertex", direction: mgl64.Vec2{0, 0}, expected: mgl64.Vec2{-1, -0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := box.Support(tt.direction)
			if result != tt.expected {
				t.Errorf("Support(%v) = %v, want %v", tt.direction, result, tt.expected)
			}
		})
	}

	empty := &Polygon{}
	if result := empty.Support(mgl64.Vec2{1, 0}); result != (mgl64.Vec2{}) {
		t.Errorf("empty polygon Support() = %v, want zero", result)
	}
}

func TestCircleSupport(t *testing.T) {
	circle := &Circle{Radius: 2}

	tests := []struct {
		name      string
		direction mgl64.Vec2
		expected  mgl64.Vec2
	}{
		{name: "unit direction", direction: mgl64.Vec2{0, 1}, expected: mgl64.Vec2{0, 2}},
		{name: "non normalized direction", direction: mgl64.Vec2{3, 4}, expected: mgl64.Vec2{1.2, 1.6}},
		{name: "zero direction", direction: mgl64.Vec2{0, 0}, expected: mgl64.Vec2{2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := circle.Support(tt.direction)
			if !vec2Equal(result, tt.expected, 1e-12) {
				t.Errorf("Support(%v) = %v, want %v", tt.direction, result, tt.expected)
			}
		})
	}
}

// ========== MASS AND INERTIA TESTS ==========
func TestComputeMass(t *testing.T) {
	tests := []struct {
		name     string
		shape    Shape
		density  float64
		expected float64
	}{
		{name: "unit box", shape: NewBox(0.5, 0.5), density: 1, expected: 1},
		{name: "rectangle 2x4", shape: NewBox(1, 2), density: 2.5, expected: 20},
		{name: "unit circle", shape: &Circle{Radius: 1}, density: 1, expected: math.Pi},
		{name: "triangle", shape: &Polygon{Vertices: []mgl64.Vec2{{0, 0}, {2, 0}, {0, 2}}}, density: 1, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.shape.ComputeMass(tt.density)
			if !floatEqual(result, tt.expected, 1e-12) {
				t.Errorf("ComputeMass(%v) = %v, want %v", tt.density, result, tt.expected)
			}
		})
	}
}

func TestComputeInertia(t *testing.T) {
	tests := []struct {
		name     string
		shape    Shape
		mass     float64
		expected float64
	}{
		{name: "unit square", shape: NewBox(0.5, 0.5), mass: 6, expected: 1},                // m(w²+h²)/12
		{name: "rectangle 2x4", shape: NewBox(1, 2), mass: 12, expected: 20},               // 12*(4+16)/12
		{name: "circle", shape: &Circle{Radius: 2}, mass: 3, expected: 6},                  // mr²/2
		{name: "degenerate polygon", shape: &Polygon{Vertices: []mgl64.Vec2{{0, 0}, {1, 0}}}, mass: 2, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.shape.ComputeInertia(tt.mass)
			if !floatEqual(result, tt.expected, 1e-9) {
				t.Errorf("ComputeInertia(%v) = %v, want %v", tt.mass, result, tt.expected)
			}
		})
	}
}

func TestNewRegularPolygon(t *testing.T) {
	polygon := NewRegularPolygon(1, 6, 0)

	if len(polygon.Vertices) != 6 {
		t.Fatalf("len(Vertices) = %d, want 6", len(polygon.Vertices))
	}
	for i, v := range polygon.Vertices {
		if !floatEqual(v.Len(), 1, 1e-12) {
			t.Errorf("vertex %d at distance %v, want 1", i, v.Len())
		}
	}
	// Hexagon area: 3√3/2 r²
	if !floatEqual(polygon.Area(), 3*math.Sqrt(3)/2, 1e-12) {
		t.Errorf("Area() = %v, want %v", polygon.Area(), 3*math.Sqrt(3)/2)
	}

	if got := len(NewRegularPolygon(1, 1, 0).Vertices); got != 3 {
		t.Errorf("len(Vertices) = %d for 1 side, want 3", got)
	}
}

func TestCross(t *testing.T) {
	if got := Cross(mgl64.Vec2{1, 0}, mgl64.Vec2{0, 1}); got != 1 {
		t.Errorf("Cross(x, y) = %v, want 1", got)
	}
	if got := Cross(mgl64.Vec2{0, 1}, mgl64.Vec2{1, 0}); got != -1 {
		t.Errorf("Cross(y, x) = %v, want -1", got)
	}
}
