// Package a11y defines the accessibility collaborators of the UI state
// layer: live-region announcements, ARIA attribute writes and the
// reduced-motion preference. The actual DOM is out of scope; stores
// treat these as pure side-effecting sinks of state.
package a11y

import "sync"

// Announcer pushes text into a screen-reader live region.
type Announcer interface {
	Announce(text string)
}

// AttributeSink receives ARIA attribute writes keyed by element id.
type AttributeSink interface {
	SetAttribute(elementID, name, value string)
}

// MotionQuery is the prefers-reduced-motion read. It is consulted
// synchronously before any animated transition is scheduled.
type MotionQuery interface {
	ReducedMotion() bool
}

// NopAnnouncer discards announcements.
type NopAnnouncer struct{}

func (NopAnnouncer) Announce(string) {}

// NopAttributeSink discards attribute writes.
type NopAttributeSink struct{}

func (NopAttributeSink) SetAttribute(string, string, string) {}

// StaticMotion is a MotionQuery with a fixed answer.
type StaticMotion bool

func (s StaticMotion) ReducedMotion() bool {
	return bool(s)
}

// RecordingAnnouncer captures announcements for tests.
type RecordingAnnouncer struct {
	mu       sync.Mutex
	messages []string
}

func (r *RecordingAnnouncer) Announce(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, text)
}

// Messages returns a copy of the captured announcements.
func (r *RecordingAnnouncer) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.messages))
	copy(out, r.messages)

	return out
}

// AttributeWrite is one captured ARIA write.
type AttributeWrite struct {
	ElementID string
	Name      string
	Value     string
}

// RecordingAttributeSink captures attribute writes for tests.
type RecordingAttributeSink struct {
	mu     sync.Mutex
	writes []AttributeWrite
}

func (r *RecordingAttributeSink) SetAttribute(elementID, name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.writes = append(r.writes, AttributeWrite{
		ElementID: elementID,
		Name:      name,
		Value:     value,
	})
}

// Writes returns a copy of the captured attribute writes.
func (r *RecordingAttributeSink) Writes() []AttributeWrite {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]AttributeWrite, len(r.writes))
	copy(out, r.writes)

	return out
}

// Last returns the most recent write for an element and attribute name.
func (r *RecordingAttributeSink) Last(elementID, name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.writes) - 1; i >= 0; i-- {
		w := r.writes[i]
		if w.ElementID == elementID && w.Name == name {
			return w.Value, true
		}
	}

	return "", false
}
