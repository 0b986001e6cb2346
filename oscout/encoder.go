// Package oscout turns held pitch classes into OSC datagrams and sends them.
//
// Each frame is a single OSC message with one blob argument holding one
// byte per held pitch class, in held order:
//
//	/pc ,b <len> <pc0> <pc1> ... <padding>
//
// An empty set is still sent, as a zero-length blob.
package oscout

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/hypebeast/go-osc/osc"
	"github.com/pkg/errors"

	"pitchcast/pitch"
)

// DefaultAddress is the OSC address receivers listen on
const DefaultAddress = "/pc"

// EncodingError reports a snapshot that cannot be put on the wire
type EncodingError struct {
	Index int
	Class pitch.Class
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("pitch class %d at index %d out of range", e.Class, e.Index)
}

// Encoder builds /pc messages
type Encoder struct {
	address string
}

// NewEncoder validates address and returns an encoder for it
func NewEncoder(address string) (*Encoder, error) {
	if address == "" {
		address = DefaultAddress
	}
	if !strings.HasPrefix(address, "/") || strings.ContainsAny(address, " #,") {
		return nil, errors.Errorf("invalid OSC address %q", address)
	}
	return &Encoder{address: address}, nil
}

func (e *Encoder) Address() string {
	return e.address
}

// Message builds the OSC message for held without serializing it
func (e *Encoder) Message(held []pitch.Class) (*osc.Message, error) {
	blob := make([]byte, len(held))
	for i, pc := range held {
		if !pc.Valid() {
			return nil, &EncodingError{Index: i, Class: pc}
		}
		blob[i] = byte(pc)
	}
	return osc.NewMessage(e.address, blob), nil
}

// Encode returns the wire bytes for held
func (e *Encoder) Encode(held []pitch.Class) ([]byte, error) {
	msg, err := e.Message(held)
	if err != nil {
		return nil, err
	}
	frame, err := msg.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "marshal osc message")
	}
	return frame, nil
}

// Decode parses a frame produced by Encode. Used by receivers.
func (e *Encoder) Decode(frame []byte) ([]pitch.Class, error) {
	// go-osc refuses zero-length blobs, so the empty set is matched here
	if e.isEmptyFrame(frame) {
		return []pitch.Class{}, nil
	}

	packet, err := osc.ParsePacket(string(frame))
	if err != nil {
		return nil, errors.Wrap(err, "parse osc packet")
	}
	msg, ok := packet.(*osc.Message)
	if !ok {
		return nil, errors.New("expected an OSC message, got a bundle")
	}
	if msg.Address != e.address {
		return nil, errors.Errorf("unexpected address %q", msg.Address)
	}
	return Classes(msg)
}

// isEmptyFrame reports whether frame is "<address> ,b" with a zero blob length
func (e *Encoder) isEmptyFrame(frame []byte) bool {
	prefix := append(padded(e.address), padded(",b")...)
	if len(frame) < len(prefix)+4 || !bytes.Equal(frame[:len(prefix)], prefix) {
		return false
	}
	if binary.BigEndian.Uint32(frame[len(prefix):]) != 0 {
		return false
	}
	for _, b := range frame[len(prefix)+4:] {
		if b != 0 {
			return false
		}
	}
	return true
}

// padded null-terminates s and pads it to a multiple of 4 bytes
func padded(s string) []byte {
	out := make([]byte, (len(s)/4+1)*4)
	copy(out, s)
	return out
}

// Classes extracts the held pitch classes from a received message
func Classes(msg *osc.Message) ([]pitch.Class, error) {
	if len(msg.Arguments) != 1 {
		return nil, errors.Errorf("expected 1 argument, got %d", len(msg.Arguments))
	}
	blob, ok := msg.Arguments[0].([]byte)
	if !ok {
		return nil, errors.Errorf("expected blob argument, got %T", msg.Arguments[0])
	}

	held := make([]pitch.Class, len(blob))
	for i, b := range blob {
		pc := pitch.Class(b)
		if !pc.Valid() {
			return nil, &EncodingError{Index: i, Class: pc}
		}
		held[i] = pc
	}
	return held, nil
}
