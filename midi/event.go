package midi

import (
	"fmt"
	"strings"

	"pitchcast/pitch"
)

// MIDI status nibbles
const (
	NoteOff uint8 = 0x80
	NoteOn  uint8 = 0x90
	CC      uint8 = 0xB0
)

// Kind is the semantic meaning of a raw message for pitch tracking
type Kind int

const (
	KindOther Kind = iota
	KindNoteOn
	KindNoteOff
)

func (k Kind) String() string {
	switch k {
	case KindNoteOn:
		return "note-on"
	case KindNoteOff:
		return "note-off"
	default:
		return "other"
	}
}

// Policy decides how note-off is detected
type Policy int

const (
	// PolicyStatus classifies by status byte: 0x8n is off, 0x9n is on.
	PolicyStatus Policy = iota
	// PolicyVelocity treats any note message with velocity 0 as off.
	PolicyVelocity
)

func (p Policy) String() string {
	if p == PolicyVelocity {
		return "velocity"
	}
	return "status"
}

// ParsePolicy accepts "status" (also "") and "velocity"
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "status":
		return PolicyStatus, nil
	case "velocity":
		return PolicyVelocity, nil
	}
	return PolicyStatus, fmt.Errorf("unknown note-off policy %q (want status or velocity)", s)
}

// Event is a classified MIDI message. Channel is reported but never used
// for tracking; all channels share one held set.
type Event struct {
	Kind     Kind
	Class    pitch.Class
	Channel  uint8
	Note     uint8
	Velocity uint8
}

func (e Event) String() string {
	if e.Kind == KindOther {
		return "other"
	}
	return fmt.Sprintf("%s %s (note %d ch %d vel %d)", e.Kind, e.Class, e.Note, e.Channel, e.Velocity)
}

// Classify interprets a raw channel-voice message. It never indexes past
// the end of msg: anything shorter than two bytes is KindOther.
func Classify(msg []byte, policy Policy) Event {
	if len(msg) < 2 {
		return Event{Kind: KindOther}
	}

	status := msg[0] & 0xF0
	if status != NoteOn && status != NoteOff {
		return Event{Kind: KindOther}
	}

	ev := Event{
		Class:   pitch.FromNote(msg[1]),
		Channel: msg[0] & 0x0F,
		Note:    msg[1],
	}
	if len(msg) > 2 {
		ev.Velocity = msg[2]
	}

	switch policy {
	case PolicyVelocity:
		if len(msg) < 3 {
			return Event{Kind: KindOther}
		}
		if ev.Velocity == 0 {
			ev.Kind = KindNoteOff
		} else {
			ev.Kind = KindNoteOn
		}
	default:
		if status == NoteOff {
			ev.Kind = KindNoteOff
		} else {
			ev.Kind = KindNoteOn
		}
	}
	return ev
}
