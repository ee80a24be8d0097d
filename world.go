package feather2d

import (
	"fmt"
	"math"

	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DEFAULT_WORKERS    = 1
	DEFAULT_ITERATIONS = 10
)

// slot owns one body of the arena
type slot struct {
	body       *actor.Body
	generation uint32
	alive      bool
}

type World struct {
	// Gravity acceleration (m/s², or N/kg)
	Gravity mgl64.Vec2
	// Iterations of the velocity solver per step
	Iterations int
	// Workers used by integration and the narrow phase. The solver always runs on one goroutine.
	Workers int
	// SpatialGrid is an optional broad phase, all pairs are tested when nil
	SpatialGrid *SpatialGrid

	Collision        CollisionSettings
	ManifoldSettings constraint.ManifoldSettings

	Events Events

	slots     []slot
	free      []uint32
	manifolds map[pairKey]*constraint.Manifold
	epoch     constraint.UpdateID
}

// NewWorld creates an empty world with the default settings
func NewWorld(gravity mgl64.Vec2) *World {
	return &World{
		Gravity:          gravity,
		Iterations:       DEFAULT_ITERATIONS,
		Workers:          DEFAULT_WORKERS,
		Collision:        DefaultCollisionSettings,
		ManifoldSettings: constraint.DefaultManifoldSettings,
		Events:           NewEvents(),
		manifolds:        make(map[pairKey]*constraint.Manifold),
	}
}

// CreateBody copies body into the world and returns its handle
func (w *World) CreateBody(body actor.Body) actor.Handle {
	var index uint32
	if n := len(w.free); n > 0 {
		index = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		index = uint32(len(w.slots))
		// Generation 0 is never handed out, so the zero Handle is always invalid
		w.slots = append(w.slots, slot{generation: 0})
	}

	s := &w.slots[index]
	s.generation++
	s.alive = true

	handle := actor.Handle{Index: index, Generation: s.generation}
	body.Handle = handle
	s.body = &body

	return handle
}

// DestroyBody removes a body, its manifolds and its collision tracking.
// It reports false when the handle is stale.
func (w *World) DestroyBody(handle actor.Handle) bool {
	if w.Body(handle) == nil {
		return false
	}

	s := &w.slots[handle.Index]
	s.alive = false
	s.body = nil
	w.free = append(w.free, handle.Index)

	for pair := range w.manifolds {
		if pair.has(handle) {
			delete(w.manifolds, pair)
		}
	}
	w.Events.forget(handle)

	return true
}

// Body resolves a handle, nil when the body was destroyed
func (w *World) Body(handle actor.Handle) *actor.Body {
	if int(handle.Index) >= len(w.slots) {
		return nil
	}

	s := w.slots[handle.Index]
	if !s.alive || s.generation != handle.Generation {
		return nil
	}

	return s.body
}

// Bodies returns the live bodies in slot order
func (w *World) Bodies() []*actor.Body {
	bodies := make([]*actor.Body, 0, len(w.slots))
	for _, s := range w.slots {
		if s.alive {
			bodies = append(bodies, s.body)
		}
	}

	return bodies
}

// Manifold returns the persistent contacts between two bodies, or nil
func (w *World) Manifold(a, b actor.Handle) *constraint.Manifold {
	return w.manifolds[makePairKey(a, b)]
}

func (w *World) ManifoldCount() int {
	return len(w.manifolds)
}

// Epoch returns the number of completed steps
func (w *World) Epoch() constraint.UpdateID {
	return w.epoch
}

// Advance moves the simulation forward by dt seconds
func (w *World) Advance(dt float64) error {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("advance: %w: dt must be a positive finite duration, got %v", ErrInvalidArgument, dt)
	}
	if w.manifolds == nil {
		w.manifolds = make(map[pairKey]*constraint.Manifold)
	}

	workers := max(DEFAULT_WORKERS, w.Workers)
	bodies := w.Bodies()

	// Phase 1: External forces
	w.integrateForces(dt, bodies, workers)

	// Phase 2.0: Collision pair finding - Broad phase
	// Phase 2.1: Collision pair finding - Narrow phase
	contacts, err := NarrowPhase(BroadPhase(w.SpatialGrid, bodies), w.Collision, workers)
	if err != nil {
		return fmt.Errorf("advance: %w", err)
	}

	// Phase 3: Contact persistence
	w.updateManifolds(contacts)

	// Phase 4: Velocity solver
	solvers := w.buildSolvers(dt)
	w.solve(solvers)

	// Phase 5: Events
	for i := 0; i < len(solvers); i += 2 {
		w.Events.emitContact(*solvers[i].Info)
	}
	w.Events.flush()

	// Phase 6: Positions
	w.integratePositions(dt, bodies, workers)

	w.epoch++

	return nil
}

func (w *World) integrateForces(dt float64, bodies []*actor.Body, workers int) {
	task(workers, bodies, func(body *actor.Body) {
		body.IntegrateForces(dt, w.Gravity)
	})
}

func (w *World) integratePositions(dt float64, bodies []*actor.Body, workers int) {
	task(workers, bodies, func(body *actor.Body) {
		body.IntegratePosition(dt)
	})
}

// updateManifolds stores the new contacts and drops the manifolds untouched this step
func (w *World) updateManifolds(contacts []constraint.ContactInfo) {
	for _, info := range contacts {
		key := makePairKey(info.Body1.Handle, info.Body2.Handle)

		manifold, ok := w.manifolds[key]
		if !ok {
			manifold = &constraint.Manifold{}
			w.manifolds[key] = manifold
		}
		manifold.AddContact(info, w.epoch, w.ManifoldSettings)

		w.Events.recordCollision(key)
	}

	for key, manifold := range w.manifolds {
		if manifold.IsOutdated(w.epoch) {
			delete(w.manifolds, key)
		}
	}
}

// sortedManifoldKeys returns the manifold keys in pair order
func (w *World) sortedManifoldKeys() []pairKey {
	keys := make([]pairKey, 0, len(w.manifolds))
	for key := range w.manifolds {
		keys = append(keys, key)
	}
	sortPairKeys(keys)

	return keys
}

// buildSolvers creates a normal and a friction solver per stored contact.
// Normal solvers are at even indices, each followed by its friction solver.
func (w *World) buildSolvers(dt float64) []*constraint.Solver {
	solvers := make([]*constraint.Solver, 0, 4*len(w.manifolds))

	for _, key := range w.sortedManifoldKeys() {
		contacts := w.manifolds[key].Contacts()
		for i := range contacts {
			normal, friction := constraint.NewSolverPair(&contacts[i], dt)
			solvers = append(solvers, normal, friction)
		}
	}

	return solvers
}

// solve runs the sequential impulse iterations: every solver computes its impulse
// from the same velocities, then all impulses are applied.
func (w *World) solve(solvers []*constraint.Solver) {
	if len(solvers) == 0 {
		return
	}

	iterations := w.Iterations
	if iterations <= 0 {
		iterations = DEFAULT_ITERATIONS
	}

	for n := 0; n < iterations; n++ {
		for _, solver := range solvers {
			solver.Solve()
		}
		for _, solver := range solvers {
			solver.Apply()
		}
	}
}
