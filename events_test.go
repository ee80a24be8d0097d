package feather2d

import (
	"testing"

	"github.com/akmonengine/feather2d/actor"
	"github.com/go-gl/mathgl/mgl64"
)

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func (ec *eventCapture) reset() {
	ec.events = ec.events[:0]
}

func (ec *eventCapture) count() int {
	return len(ec.events)
}

func (ec *eventCapture) countType(eventType EventType) int {
	n := 0
	for _, e := range ec.events {
		if e.Type() == eventType {
			n++
		}
	}
	return n
}

func handle(index uint32) actor.Handle {
	return actor.Handle{Index: index, Generation: 1}
}

// =============================================================================
// Subscribe and Listeners Tests
// =============================================================================

func TestEvents_Subscribe(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, capture.capture)

	if len(events.listeners[COLLISION_ENTER]) != 1 {
		t.Errorf("Expected 1 listener for COLLISION_ENTER, got %d", len(events.listeners[COLLISION_ENTER]))
	}
}

func TestEvents_ZeroValueSubscribe(t *testing.T) {
	var events Events
	capture := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, capture.capture)
	events.recordCollision(makePairKey(handle(0), handle(1)))
	events.flush()

	if capture.count() != 1 {
		t.Errorf("Expected 1 event from a zero value Events, got %d", capture.count())
	}
}

func TestEvents_MultipleListeners(t *testing.T) {
	events := NewEvents()
	capture1 := &eventCapture{}
	capture2 := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, capture1.capture)
	events.Subscribe(COLLISION_ENTER, capture2.capture)

	events.recordCollision(makePairKey(handle(0), handle(1)))
	events.flush()

	if capture1.count() != 1 || capture2.count() != 1 {
		t.Errorf("Expected each listener to receive 1 event, got %d and %d", capture1.count(), capture2.count())
	}
}

// =============================================================================
// Enter / Stay / Exit Tests
// =============================================================================

func TestEvents_Lifecycle(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	for _, eventType := range []EventType{COLLISION_ENTER, COLLISION_STAY, COLLISION_EXIT} {
		events.Subscribe(eventType, capture.capture)
	}
	pair := makePairKey(handle(1), handle(0))

	steps := []struct {
		name      string
		colliding bool
		expected  EventType
	}{
		{name: "enter", colliding: true, expected: COLLISION_ENTER},
		{name: "stay", colliding: true, expected: COLLISION_STAY},
		{name: "exit", colliding: false, expected: COLLISION_EXIT},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			capture.reset()
			if step.colliding {
				events.recordCollision(pair)
			}
			events.flush()

			if capture.count() != 1 {
				t.Fatalf("Expected 1 event, got %d", capture.count())
			}
			if capture.events[0].Type() != step.expected {
				t.Errorf("Expected event type %d, got %d", step.expected, capture.events[0].Type())
			}
		})
	}

	capture.reset()
	events.flush()
	if capture.count() != 0 {
		t.Errorf("Expected no event once the pair is gone, got %d", capture.count())
	}
}

func TestEvents_PairOrdering(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(COLLISION_ENTER, capture.capture)

	events.recordCollision(makePairKey(handle(4), handle(2)))
	events.recordCollision(makePairKey(handle(3), handle(0)))
	events.recordCollision(makePairKey(handle(0), handle(1)))
	events.flush()

	expected := []CollisionEnterEvent{
		{BodyA: handle(0), BodyB: handle(1)},
		{BodyA: handle(0), BodyB: handle(3)},
		{BodyA: handle(2), BodyB: handle(4)},
	}
	if capture.count() != len(expected) {
		t.Fatalf("Expected %d events, got %d", len(expected), capture.count())
	}
	for i, e := range capture.events {
		if e.(CollisionEnterEvent) != expected[i] {
			t.Errorf("event %d = %v, want %v", i, e, expected[i])
		}
	}
}

func TestEvents_Forget(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(COLLISION_EXIT, capture.capture)

	events.recordCollision(makePairKey(handle(0), handle(1)))
	events.recordCollision(makePairKey(handle(2), handle(3)))
	events.flush()

	events.forget(handle(1))
	events.flush()

	if capture.count() != 1 {
		t.Fatalf("Expected 1 exit event, got %d", capture.count())
	}
	if exit := capture.events[0].(CollisionExitEvent); exit.BodyA != handle(2) {
		t.Errorf("exit event for %v, want the pair of %v", exit, handle(2))
	}
}

func TestEvents_ContactOnlyWhenSubscribed(t *testing.T) {
	events := NewEvents()
	a := createTestBox(mgl64.Vec2{0, 0}, 0.5, 0.5)
	b := createTestBox(mgl64.Vec2{0.8, 0}, 0.5, 0.5)

	events.emitContact(contactOf(a, b))
	if len(events.buffer) != 0 {
		t.Errorf("Expected no buffered contact without listener, got %d", len(events.buffer))
	}

	capture := &eventCapture{}
	events.Subscribe(CONTACT, capture.capture)
	events.emitContact(contactOf(a, b))
	events.flush()

	if capture.countType(CONTACT) != 1 {
		t.Errorf("Expected 1 contact event, got %d", capture.countType(CONTACT))
	}
}
