package constraint

import "math"

// UpdateID identifies a simulation step
type UpdateID uint64

// float32Epsilon matches the machine epsilon of single precision floats,
// which the drift tolerance is expressed in.
const float32Epsilon = 0x1p-23

// ManifoldSettings tunes contact persistence
type ManifoldSettings struct {
	// RedundancyDistance evicts a stored contact whose witness point is this close to a new one
	RedundancyDistance float64
	// DriftBias scales the tolerance used to detect stored contacts that no longer
	// match their body's position: eps * DriftBias * max(1, distance)
	DriftBias float64
	// MaxContacts caps the manifold size, oldest contacts are dropped first
	MaxContacts int
}

var DefaultManifoldSettings = ManifoldSettings{
	RedundancyDistance: 0.1,
	DriftBias:          50000,
	MaxContacts:        2,
}

// Manifold keeps the contacts of a body pair across steps, newest first.
type Manifold struct {
	contacts []ContactInfo
	last     UpdateID
}

// AddContact records a new contact at the given epoch.
//
// Stored contacts are evicted when one of their witness points is within
// RedundancyDistance of the new contact, or when their offset applied to the
// current body position no longer lands on the recorded world point.
// The new contact is prepended; the oldest ones beyond MaxContacts are dropped.
func (m *Manifold) AddContact(info ContactInfo, epoch UpdateID, settings ManifoldSettings) {
	m.last = epoch

	kept := m.contacts[:0]
	for _, contact := range m.contacts {
		tooClose := contact.Point1.Sub(info.Point1).Len() < settings.RedundancyDistance ||
			contact.Point2.Sub(info.Point2).Len() < settings.RedundancyDistance

		drift1 := info.Body1.Transform.Position.Add(contact.Offset1).Sub(contact.Point1).Len()
		drift2 := info.Body2.Transform.Position.Add(contact.Offset2).Sub(contact.Point2).Len()
		moved := !floatEq(drift1, 0, settings.DriftBias) || !floatEq(drift2, 0, settings.DriftBias)

		if tooClose || moved {
			continue
		}
		kept = append(kept, contact)
	}

	m.contacts = append(kept, ContactInfo{})
	copy(m.contacts[1:], m.contacts[:len(m.contacts)-1])
	m.contacts[0] = info

	if settings.MaxContacts > 0 && len(m.contacts) > settings.MaxContacts {
		m.contacts = m.contacts[:settings.MaxContacts]
	}
}

// IsOutdated reports whether the manifold was not touched during epoch
func (m *Manifold) IsOutdated(epoch UpdateID) bool {
	return m.last != epoch
}

// Contacts returns the stored contacts, newest first.
// The slice is owned by the manifold and valid until the next AddContact.
func (m *Manifold) Contacts() []ContactInfo {
	return m.contacts
}

func (m *Manifold) Len() int {
	return len(m.contacts)
}

// LastUpdate returns the epoch of the last AddContact
func (m *Manifold) LastUpdate() UpdateID {
	return m.last
}

// floatEq compares two floats with a tolerance relative to their magnitude
func floatEq(a, b, bias float64) bool {
	corrected := float32Epsilon * bias * math.Max(1, math.Abs(a)+math.Abs(b))
	return math.Abs(a-b) < corrected
}
