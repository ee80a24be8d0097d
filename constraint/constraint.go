package constraint

import (
	"math"

	"github.com/akmonengine/feather2d/actor"
)

// Baumgarte is the fraction of the penetration depth fed back into the
// normal constraint each step.
const Baumgarte = 0.1

type Constraint interface {
	Solve()
	Apply()
}

// ComputeFriction mixes the friction coefficients of two bodies.
// Negative sums are clamped to zero.
func ComputeFriction(a, b *actor.Body) float64 {
	return math.Max(0, a.Friction+b.Friction) * 0.5
}
