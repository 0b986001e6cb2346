package pitch

import "strings"

// Class is a note number reduced modulo 12 (0 = C ... 11 = B)
type Class uint8

// NumClasses is the number of chromatic pitch classes
const NumClasses = 12

var names = [NumClasses]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// FromNote collapses a MIDI note number to its pitch class
func FromNote(note uint8) Class {
	return Class(note % NumClasses)
}

// Valid reports whether c is in [0,11]
func (c Class) Valid() bool {
	return c < NumClasses
}

func (c Class) Name() string {
	if !c.Valid() {
		return "?"
	}
	return names[c]
}

func (c Class) String() string {
	return c.Name()
}

// Names renders a sequence as "C E G"
func Names(cs []Class) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.Name()
	}
	return strings.Join(parts, " ")
}

// Set holds the pitch classes of currently sounding notes.
// It is a multiset: C3 and C4 held together are two entries, so releasing
// one leaves the other in place. Not safe for concurrent use.
type Set struct {
	held []Class
}

// NewSet creates an empty set
func NewSet() *Set {
	return &Set{held: make([]Class, 0, 16)}
}

// Add appends pc. Duplicates are kept.
func (s *Set) Add(pc Class) {
	s.held = append(s.held, pc)
}

// RemoveFirst removes one occurrence of pc and reports whether one was found.
// The last entry is swapped into the freed slot, so order is not preserved.
func (s *Set) RemoveFirst(pc Class) bool {
	for i, c := range s.held {
		if c != pc {
			continue
		}
		last := len(s.held) - 1
		s.held[i] = s.held[last]
		s.held = s.held[:last]
		return true
	}
	return false
}

// Snapshot returns a copy of the held classes
func (s *Set) Snapshot() []Class {
	out := make([]Class, len(s.held))
	copy(out, s.held)
	return out
}

func (s *Set) Len() int {
	return len(s.held)
}

// Reset drops every held entry
func (s *Set) Reset() {
	s.held = s.held[:0]
}
