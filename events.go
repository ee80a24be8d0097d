package feather2d

import (
	"sort"

	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/constraint"
)

const (
	CONTACT EventType = iota
	COLLISION_ENTER
	COLLISION_STAY
	COLLISION_EXIT
)

// pairKey identifies an unordered pair of bodies
type pairKey struct {
	bodyA actor.Handle
	bodyB actor.Handle
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(bodyA, bodyB actor.Handle) pairKey {
	if handleLess(bodyB, bodyA) {
		bodyA, bodyB = bodyB, bodyA
	}

	return pairKey{bodyA: bodyA, bodyB: bodyB}
}

func handleLess(a, b actor.Handle) bool {
	if a.Index != b.Index {
		return a.Index < b.Index
	}
	return a.Generation < b.Generation
}

func (p pairKey) less(other pairKey) bool {
	if p.bodyA != other.bodyA {
		return handleLess(p.bodyA, other.bodyA)
	}
	return handleLess(p.bodyB, other.bodyB)
}

func (p pairKey) has(handle actor.Handle) bool {
	return p.bodyA == handle || p.bodyB == handle
}

func sortPairKeys(keys []pairKey) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].less(keys[j])
	})
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// ContactEvent is sent for every contact resolved during a step
type ContactEvent struct {
	Info constraint.ContactInfo
}

func (e ContactEvent) Type() EventType { return CONTACT }

// Collision events
type CollisionEnterEvent struct {
	BodyA actor.Handle
	BodyB actor.Handle
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	BodyA actor.Handle
	BodyB actor.Handle
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	BodyA actor.Handle
	BodyB actor.Handle
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordCollision marks a pair as colliding during the current step
func (e *Events) recordCollision(pair pairKey) {
	if e.currentActivePairs == nil {
		e.currentActivePairs = make(map[pairKey]bool)
	}
	e.currentActivePairs[pair] = true
}

// emitContact buffers a copy of a resolved contact
func (e *Events) emitContact(info constraint.ContactInfo) {
	if len(e.listeners[CONTACT]) == 0 {
		return
	}
	e.buffer = append(e.buffer, ContactEvent{Info: info})
}

// forget drops every tracked pair involving handle, without emitting an exit event
func (e *Events) forget(handle actor.Handle) {
	for pair := range e.previousActivePairs {
		if pair.has(handle) {
			delete(e.previousActivePairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.has(handle) {
			delete(e.currentActivePairs, pair)
		}
	}
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit.
// Events are buffered in pair order.
func (e *Events) processCollisionEvents() {
	current := make([]pairKey, 0, len(e.currentActivePairs))
	for pair := range e.currentActivePairs {
		current = append(current, pair)
	}
	sortPairKeys(current)

	for _, pair := range current {
		if e.previousActivePairs[pair] {
			// Pair was active before and still is, Stay
			e.buffer = append(e.buffer, CollisionStayEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		} else {
			// New pair, Enter
			e.buffer = append(e.buffer, CollisionEnterEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	exited := make([]pairKey, 0)
	for pair := range e.previousActivePairs {
		if !e.currentActivePairs[pair] {
			exited = append(exited, pair)
		}
	}
	sortPairKeys(exited)

	for _, pair := range exited {
		e.buffer = append(e.buffer, CollisionExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
	}

	// Swap for next frame and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	if e.currentActivePairs == nil {
		e.currentActivePairs = make(map[pairKey]bool)
	}
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processCollisionEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
