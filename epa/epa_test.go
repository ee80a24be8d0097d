package epa

import (
	"errors"
	"math"
	"testing"

	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/constraint"
	"github.com/akmonengine/feather2d/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

func createBoxBody(position mgl64.Vec2, halfWidth, halfHeight float64) *actor.Body {
	body := actor.NewBody(
		actor.Transform{Position: position},
		actor.NewBox(halfWidth, halfHeight),
		actor.BodyTypeDynamic,
		1.0,
	)
	return &body
}

func createCircleBody(position mgl64.Vec2, radius float64) *actor.Body {
	body := actor.NewBody(
		actor.Transform{Position: position},
		&actor.Circle{Radius: radius},
		actor.BodyTypeDynamic,
		1.0,
	)
	return &body
}

// runEPA runs GJK then EPA with a as Body1 and b as Body2
func runEPA(t *testing.T, a, b *actor.Body) (constraint.ContactInfo, error) {
	t.Helper()

	info := constraint.ContactInfo{Body1: a, Body2: b}
	var simplex gjk.Simplex
	if !gjk.GJK(a, b, &simplex) {
		t.Fatal("GJK() reported no collision")
	}

	err := EPA(&simplex, &info)
	return info, err
}

// vec2Near compares two vectors with an absolute tolerance on their distance
func vec2Near(a, b mgl64.Vec2, tolerance float64) bool {
	return a.Sub(b).Len() < tolerance
}

func TestEPA_Boxes(t *testing.T) {
	tests := []struct {
		name           string
		positionB      mgl64.Vec2
		expectedNormal mgl64.Vec2
		expectedDepth  float64
	}{
		{name: "overlap along x", positionB: mgl64.Vec2{0.8, 0}, expectedNormal: mgl64.Vec2{1, 0}, expectedDepth: 0.2},
		{name: "offset squares", positionB: mgl64.Vec2{0.8, 0.3}, expectedNormal: mgl64.Vec2{1, 0}, expectedDepth: 0.2},
		{name: "overlap along -y", positionB: mgl64.Vec2{0.1, -0.7}, expectedNormal: mgl64.Vec2{0, -1}, expectedDepth: 0.3},
		{name: "overlap along -x", positionB: mgl64.Vec2{-0.9, 0.2}, expectedNormal: mgl64.Vec2{-1, 0}, expectedDepth: 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := createBoxBody(mgl64.Vec2{0, 0}, 0.5, 0.5)
			b := createBoxBody(tt.positionB, 0.5, 0.5)

			info, err := runEPA(t, a, b)
			if err != nil {
				t.Fatalf("EPA() error = %v", err)
			}

			if !vec2Near(info.Normal, tt.expectedNormal, 1e-6) {
				t.Errorf("Normal = %v, want %v", info.Normal, tt.expectedNormal)
			}
			if math.Abs(info.Depth-tt.expectedDepth) > 1e-6 {
				t.Errorf("Depth = %v, want %v", info.Depth, tt.expectedDepth)
			}

			// The witness points are separated by the minimum translation vector
			mtv := info.Point1.Sub(info.Point2)
			if !vec2Near(mtv, info.Normal.Mul(info.Depth), 1e-6) {
				t.Errorf("Point1 - Point2 = %v, want %v", mtv, info.Normal.Mul(info.Depth))
			}
			if info.Offset1 != info.Point1.Sub(a.Transform.Position) {
				t.Errorf("Offset1 = %v, want Point1 - position", info.Offset1)
			}
			if info.Offset2 != info.Point2.Sub(b.Transform.Position) {
				t.Errorf("Offset2 = %v, want Point2 - position", info.Offset2)
			}
		})
	}
}

func TestEPA_Circles(t *testing.T) {
	a := createCircleBody(mgl64.Vec2{0, 0}, 1)
	b := createCircleBody(mgl64.Vec2{1.5, 0}, 1)

	info, err := runEPA(t, a, b)
	if err != nil {
		t.Fatalf("EPA() error = %v", err)
	}

	if math.Abs(info.Depth-0.5) > 1e-3 {
		t.Errorf("Depth = %v, want 0.5", info.Depth)
	}
	if !vec2Near(info.Normal, mgl64.Vec2{1, 0}, 1e-2) {
		t.Errorf("Normal = %v, want (1, 0)", info.Normal)
	}
}

func TestEPA_Concentric(t *testing.T) {
	a := createBoxBody(mgl64.Vec2{2, 2}, 0.5, 0.5)
	b := createBoxBody(mgl64.Vec2{2, 2}, 0.5, 0.5)

	info, err := runEPA(t, a, b)
	if err != nil {
		t.Fatalf("EPA() error = %v", err)
	}
	if math.Abs(info.Depth-1) > 1e-6 {
		t.Errorf("Depth = %v, want 1", info.Depth)
	}
	if math.Abs(info.Normal.Len()-1) > 1e-9 {
		t.Errorf("Normal %v is not unit length", info.Normal)
	}
}

func TestEPA_DegenerateSimplex(t *testing.T) {
	a := createBoxBody(mgl64.Vec2{0, 0}, 0.5, 0.5)
	b := createBoxBody(mgl64.Vec2{0.8, 0}, 0.5, 0.5)
	info := constraint.ContactInfo{Body1: a, Body2: b}

	simplex := createSimplex(mgl64.Vec2{-1, 0}, mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0})
	err := EPA(simplex, &info)
	if !errors.Is(err, ErrNotConverged) {
		t.Errorf("EPA() error = %v, want ErrNotConverged", err)
	}
	if !errors.Is(err, ErrDegenerateSimplex) {
		t.Errorf("EPA() error = %v, want it to wrap ErrDegenerateSimplex", err)
	}
}

func BenchmarkEPA_Boxes(b *testing.B) {
	boxA := createBoxBody(mgl64.Vec2{0, 0}, 0.5, 0.5)
	boxB := createBoxBody(mgl64.Vec2{0.8, 0.3}, 0.5, 0.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var simplex gjk.Simplex
		info := constraint.ContactInfo{Body1: boxA, Body2: boxB}
		if gjk.GJK(boxA, boxB, &simplex) {
			_ = EPA(&simplex, &info)
		}
	}
}
