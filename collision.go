package feather2d

import (
	"errors"
	"fmt"

	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/constraint"
	"github.com/akmonengine/feather2d/epa"
	"github.com/akmonengine/feather2d/gjk"
)

// ErrInvalidArgument is returned when a query or a step is called with unusable input
var ErrInvalidArgument = errors.New("invalid argument")

// CollisionSettings tunes the narrow phase
type CollisionSettings struct {
	// WitnessSeparation discards contacts whose witness points are further apart than this distance.
	// Since both points are separated by the penetration vector, this bounds the accepted depth.
	// Zero disables the check.
	WitnessSeparation float64
}

var DefaultCollisionSettings = CollisionSettings{
	WitnessSeparation: 0.5,
}

// Pair represents a pair of bodies that potentially collide
type Pair struct {
	BodyA *actor.Body
	BodyB *actor.Body
}

// Collide runs the narrow phase on an ordered contact (see constraint.NewContactInfo).
// It fills the contact geometry and sets info.Collision.
//
// A kinematic Body1 means both bodies are kinematic: nothing is computed.
// EPA failures are reported as no collision.
func Collide(info *constraint.ContactInfo, settings CollisionSettings) error {
	if info == nil || info.Body1 == nil || info.Body2 == nil {
		return fmt.Errorf("collide: %w: nil body", ErrInvalidArgument)
	}
	if info.Body1.Shape == nil || info.Body2.Shape == nil {
		return fmt.Errorf("collide: %w: body without shape", ErrInvalidArgument)
	}

	info.Collision = false
	if info.Body1.IsKinematic() {
		return nil
	}

	var simplex gjk.Simplex
	if !gjk.GJK(info.Body1, info.Body2, &simplex) {
		return nil
	}

	if err := epa.EPA(&simplex, info); err != nil {
		return nil
	}

	if settings.WitnessSeparation > 0 && info.Separation() > settings.WitnessSeparation {
		return nil
	}

	info.Collision = true
	return nil
}

// Overlap reports whether two bodies intersect, without computing contact data
func Overlap(a, b *actor.Body) (bool, error) {
	if a == nil || b == nil {
		return false, fmt.Errorf("overlap: %w: nil body", ErrInvalidArgument)
	}
	if a.Shape == nil || b.Shape == nil {
		return false, fmt.Errorf("overlap: %w: body without shape", ErrInvalidArgument)
	}

	var simplex gjk.Simplex
	return gjk.GJK(a, b, &simplex), nil
}

// collidable reports whether a body can take part in a collision query
func collidable(body *actor.Body) bool {
	return body != nil && body.Shape != nil
}

// BroadPhase returns the candidate pairs in deterministic (i < j) order.
// Without a spatial grid every pair is tested, except kinematic ones.
// Bodies without a shape never collide.
func BroadPhase(spatialGrid *SpatialGrid, bodies []*actor.Body) []Pair {
	if spatialGrid != nil {
		spatialGrid.Build(bodies)
		return spatialGrid.FindPairs(bodies)
	}

	pairs := make([]Pair, 0, len(bodies))
	for i := 0; i < len(bodies); i++ {
		if !collidable(bodies[i]) {
			continue
		}
		for j := i + 1; j < len(bodies); j++ {
			if !collidable(bodies[j]) {
				continue
			}
			if bodies[i].IsKinematic() && bodies[j].IsKinematic() {
				continue
			}
			pairs = append(pairs, Pair{BodyA: bodies[i], BodyB: bodies[j]})
		}
	}

	return pairs
}

// narrowPhaseJob holds the outcome of one pair, so workers never share a write target
type narrowPhaseJob struct {
	pair Pair
	info constraint.ContactInfo
	err  error
}

// NarrowPhase collides every pair and returns the colliding contacts in pair order.
// The pairs are spread across workersCount goroutines; the result does not depend on it.
func NarrowPhase(pairs []Pair, settings CollisionSettings, workersCount int) ([]constraint.ContactInfo, error) {
	jobs := make([]*narrowPhaseJob, len(pairs))
	for i, pair := range pairs {
		jobs[i] = &narrowPhaseJob{pair: pair}
	}

	task(workersCount, jobs, func(job *narrowPhaseJob) {
		job.info = constraint.NewContactInfo(job.pair.BodyA, job.pair.BodyB)
		job.err = Collide(&job.info, settings)
	})

	contacts := make([]constraint.ContactInfo, 0, len(jobs))
	for _, job := range jobs {
		if job.err != nil {
			return nil, job.err
		}
		if job.info.Collision {
			contacts = append(contacts, job.info)
		}
	}

	return contacts, nil
}
