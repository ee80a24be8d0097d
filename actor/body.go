package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeKinematic bodies are read-only to the solver and the integrator
	// They behave as if their mass was infinite (e.g., ground, walls)
	BodyTypeKinematic
)

// Default body properties
const (
	DefaultMass        = 1.0
	DefaultAngularMass = 1.0
	DefaultFriction    = 0.5
)

// Handle is a stable reference to a body owned by a World.
// The generation changes whenever the slot is reused, so a handle to a
// destroyed body never resolves to its successor.
type Handle struct {
	Index      uint32
	Generation uint32
}

// Body represents a rigid body in the physics simulation
type Body struct {
	Transform Transform

	Velocity        mgl64.Vec2 // Linear velocity (m/s)
	AngularVelocity float64    // rad/s

	Mass        float64
	AngularMass float64 // moment of inertia
	Friction    float64

	BodyType BodyType
	Shape    Shape

	// Handle is assigned by the World owning the body. Read-only.
	Handle Handle

	accumulatedForce  mgl64.Vec2
	accumulatedTorque float64
}

// NewBody creates a new rigid body with the given properties.
// density is used to calculate mass and angular mass for dynamic bodies;
// a non-positive density keeps the default unit masses.
func NewBody(transform Transform, shape Shape, bodyType BodyType, density float64) Body {
	body := Body{
		Transform:   transform,
		Mass:        DefaultMass,
		AngularMass: DefaultAngularMass,
		Friction:    DefaultFriction,
		BodyType:    bodyType,
		Shape:       shape,
	}

	if bodyType == BodyTypeKinematic {
		body.Mass = math.Inf(1)
		body.AngularMass = math.Inf(1)
		return body
	}

	if shape != nil && density > 0 {
		body.Mass = shape.ComputeMass(density)
		body.AngularMass = shape.ComputeInertia(body.Mass)
	}

	return body
}

func (b *Body) IsKinematic() bool {
	return b.BodyType == BodyTypeKinematic
}

// InverseMass returns 0 for kinematic bodies
func (b *Body) InverseMass() float64 {
	if b.IsKinematic() || b.Mass == 0 {
		return 0
	}
	return 1.0 / b.Mass
}

// InverseAngularMass returns 0 for kinematic bodies
func (b *Body) InverseAngularMass() float64 {
	if b.IsKinematic() || b.AngularMass == 0 {
		return 0
	}
	return 1.0 / b.AngularMass
}

// Position is a shorthand for Transform.Position
func (b *Body) Position() mgl64.Vec2 {
	return b.Transform.Position
}

// IntegrateForces applies gravity and the accumulated forces to the velocity
func (b *Body) IntegrateForces(dt float64, gravity mgl64.Vec2) {
	if b.IsKinematic() {
		return
	}

	b.Velocity = b.Velocity.Add(gravity.Mul(dt))
	b.Velocity = b.Velocity.Add(b.accumulatedForce.Mul(dt * b.InverseMass()))
	b.AngularVelocity += b.accumulatedTorque * dt * b.InverseAngularMass()

	b.ClearForces()
}

// IntegratePosition moves the body along its velocity
func (b *Body) IntegratePosition(dt float64) {
	if b.IsKinematic() {
		return
	}

	b.Transform.Position = b.Transform.Position.Add(b.Velocity.Mul(dt))
	b.Transform.Rotation += b.AngularVelocity * dt
}

// AddForce accumulates a force (N) until the next step
func (b *Body) AddForce(force mgl64.Vec2) {
	if !b.IsKinematic() {
		b.accumulatedForce = b.accumulatedForce.Add(force)
	}
}

// AddTorque accumulates a torque (N⋅m) until the next step
func (b *Body) AddTorque(torque float64) {
	if !b.IsKinematic() {
		b.accumulatedTorque += torque
	}
}

func (b *Body) ClearForces() {
	b.accumulatedForce = mgl64.Vec2{0, 0}
	b.accumulatedTorque = 0
}

// SupportWorld returns the farthest world-space point of the body along direction
func (b *Body) SupportWorld(direction mgl64.Vec2) mgl64.Vec2 {
	// 1. Transform the direction into the local frame (inverse rotation)
	localDirection := b.Transform.InverseRotate(direction)

	// 2. Find the support point in the local frame
	localSupport := b.Shape.Support(localDirection)

	// 3. Back to world space (rotation + translation)
	return b.Transform.ToWorld(localSupport)
}
