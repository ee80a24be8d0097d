package constraint

import (
	"github.com/akmonengine/feather2d/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Jacobian is a constraint row over both bodies' degrees of freedom:
// linear x, linear y, angular for Body1, then the same for Body2.
type Jacobian [6]float64

func NewJacobian(v1 mgl64.Vec2, w1 float64, v2 mgl64.Vec2, w2 float64) Jacobian {
	return Jacobian{v1.X(), v1.Y(), w1, v2.X(), v2.Y(), w2}
}

func (j Jacobian) Dot(other Jacobian) float64 {
	var product float64
	for i := range j {
		product += j[i] * other[i]
	}
	return product
}

// MulComponents returns the component-wise product of j and other
func (j Jacobian) MulComponents(other Jacobian) Jacobian {
	var product Jacobian
	for i := range j {
		product[i] = j[i] * other[i]
	}
	return product
}

func (j Jacobian) Mul(f float64) Jacobian {
	var product Jacobian
	for i := range j {
		product[i] = j[i] * f
	}
	return product
}

func (j Jacobian) V1() mgl64.Vec2 { return mgl64.Vec2{j[0], j[1]} }
func (j Jacobian) W1() float64    { return j[2] }
func (j Jacobian) V2() mgl64.Vec2 { return mgl64.Vec2{j[3], j[4]} }
func (j Jacobian) W2() float64    { return j[5] }

// Solution is the outcome of one Solve: the clamped impulse magnitude and
// the velocity changes it produces on both bodies.
type Solution struct {
	Lambda float64

	DeltaV1 mgl64.Vec2
	DeltaW1 float64

	DeltaV2 mgl64.Vec2
	DeltaW2 float64
}

// Solver resolves one velocity constraint row of a contact.
type Solver struct {
	Info *ContactInfo

	jacobian      Jacobian
	inverseMass   Jacobian
	effectiveMass float64
	bias          float64
	clamp         func(lambda float64) float64
	kinematic     bool

	solution Solution
}

func newSolver(info *ContactInfo, jacobian Jacobian, bias float64, kinematic bool, clamp func(float64) float64) *Solver {
	b1, b2 := info.Body1, info.Body2

	inverseMass := Jacobian{
		b1.InverseMass(), b1.InverseMass(), b1.InverseAngularMass(),
		b2.InverseMass(), b2.InverseMass(), b2.InverseAngularMass(),
	}
	if kinematic {
		inverseMass[3], inverseMass[4], inverseMass[5] = 0, 0, 0
	}

	solver := &Solver{
		Info:        info,
		jacobian:    jacobian,
		inverseMass: inverseMass,
		bias:        bias,
		clamp:       clamp,
		kinematic:   kinematic,
	}

	if denominator := inverseMass.MulComponents(jacobian).Dot(jacobian); denominator > 0 {
		solver.effectiveMass = 1.0 / denominator
	}

	return solver
}

func contactBias(info *ContactInfo, dt float64) float64 {
	return -(Baumgarte / dt) * info.Depth
}

func clampNormal(lambda float64) float64 {
	if lambda < 0 {
		return 0
	}
	return lambda
}

// frictionClamp bounds the friction impulse by the paired normal solver's latest impulse
func frictionClamp(info *ContactInfo, normal *Solver) func(float64) float64 {
	coefficient := ComputeFriction(info.Body1, info.Body2)

	return func(lambda float64) float64 {
		bound := normal.solution.Lambda * coefficient
		if bound < 0 {
			bound = 0
		}
		return mgl64.Clamp(lambda, -bound, bound)
	}
}

func tangent(normal mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{normal.Y(), -normal.X()}
}

// NewContactSolver builds the non-penetration row between two dynamic bodies.
// The impulse is never negative: bodies can only be pushed apart.
func NewContactSolver(info *ContactInfo, dt float64) *Solver {
	n := info.Normal
	jacobian := NewJacobian(
		n.Mul(-1), -actor.Cross(info.Offset1, n),
		n, actor.Cross(info.Offset2, n),
	)

	return newSolver(info, jacobian, contactBias(info, dt), false, clampNormal)
}

// NewKinematicContactSolver builds the non-penetration row against a kinematic Body2.
func NewKinematicContactSolver(info *ContactInfo, dt float64) *Solver {
	n := info.Normal
	jacobian := NewJacobian(n.Mul(-1), -actor.Cross(info.Offset1, n), mgl64.Vec2{}, 0)

	return newSolver(info, jacobian, contactBias(info, dt), true, clampNormal)
}

// NewFrictionSolver builds the tangential row paired with a contact solver.
// The impulse stays within ±μ·λn, λn being the latest impulse of normal.
func NewFrictionSolver(info *ContactInfo, normal *Solver) *Solver {
	t := tangent(info.Normal)
	jacobian := NewJacobian(
		t.Mul(-1), -actor.Cross(info.Offset1, t),
		t, actor.Cross(info.Offset2, t),
	)

	return newSolver(info, jacobian, 0, false, frictionClamp(info, normal))
}

func NewKinematicFrictionSolver(info *ContactInfo, normal *Solver) *Solver {
	t := tangent(info.Normal)
	jacobian := NewJacobian(t.Mul(-1), -actor.Cross(info.Offset1, t), mgl64.Vec2{}, 0)

	return newSolver(info, jacobian, 0, true, frictionClamp(info, normal))
}

// NewSolverPair returns the normal solver followed by its friction solver,
// choosing the kinematic variants when Body2 is kinematic.
func NewSolverPair(info *ContactInfo, dt float64) (normal, friction *Solver) {
	if info.Body2.IsKinematic() {
		normal = NewKinematicContactSolver(info, dt)
		return normal, NewKinematicFrictionSolver(info, normal)
	}

	normal = NewContactSolver(info, dt)
	return normal, NewFrictionSolver(info, normal)
}

// Solve computes the impulse from the current velocities without modifying the bodies
func (s *Solver) Solve() {
	b1, b2 := s.Info.Body1, s.Info.Body2

	velocity := NewJacobian(b1.Velocity, b1.AngularVelocity, b2.Velocity, b2.AngularVelocity)
	if s.kinematic {
		velocity[3], velocity[4], velocity[5] = 0, 0, 0
	}

	jv := s.jacobian.Dot(velocity)
	lambda := s.clamp(s.effectiveMass * -(jv + s.bias))
	delta := s.jacobian.Mul(lambda).MulComponents(s.inverseMass)

	s.solution = Solution{
		Lambda:  lambda,
		DeltaV1: delta.V1(),
		DeltaW1: delta.W1(),
		DeltaV2: delta.V2(),
		DeltaW2: delta.W2(),
	}
}

// Apply adds the last solution to the bodies' velocities.
// A kinematic Body2 is left untouched.
func (s *Solver) Apply() {
	b1 := s.Info.Body1
	b1.Velocity = b1.Velocity.Add(s.solution.DeltaV1)
	b1.AngularVelocity += s.solution.DeltaW1

	if s.kinematic {
		return
	}

	b2 := s.Info.Body2
	b2.Velocity = b2.Velocity.Add(s.solution.DeltaV2)
	b2.AngularVelocity += s.solution.DeltaW2
}

func (s *Solver) Solution() Solution {
	return s.solution
}

func (s *Solver) Jacobian() Jacobian {
	return s.jacobian
}

func (s *Solver) EffectiveMass() float64 {
	return s.effectiveMass
}

func (s *Solver) Bias() float64 {
	return s.bias
}
