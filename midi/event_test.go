package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchcast/pitch"
)

func TestClassifyStatusPolicy(t *testing.T) {
	cases := []struct {
		name string
		msg  []byte
		kind Kind
		pc   pitch.Class
	}{
		{"note on ch0", []byte{0x90, 60, 100}, KindNoteOn, 0},
		{"note on ch1", []byte{0x91, 61, 100}, KindNoteOn, 1},
		{"note off", []byte{0x80, 60, 0}, KindNoteOff, 0},
		{"note off ch15", []byte{0x8F, 71, 64}, KindNoteOff, 11},
		{"note on zero velocity stays on", []byte{0x90, 64, 0}, KindNoteOn, 4},
		{"two byte note on", []byte{0x95, 62}, KindNoteOn, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := Classify(tc.msg, PolicyStatus)
			assert.Equal(t, tc.kind, ev.Kind)
			assert.Equal(t, tc.pc, ev.Class)
		})
	}
}

func TestClassifyOther(t *testing.T) {
	others := [][]byte{
		nil,
		{},
		{0x90},
		{0xB0, 7, 100}, // control change
		{0xE0, 0, 64},  // pitch bend
		{0xC0, 5},      // program change
		{0xF8},         // clock
		{0xF0, 0x7E, 0x7F, 0xF7},
	}
	for _, msg := range others {
		assert.Equal(t, KindOther, Classify(msg, PolicyStatus).Kind, "% X", msg)
		assert.Equal(t, KindOther, Classify(msg, PolicyVelocity).Kind, "% X", msg)
	}
}

func TestClassifyVelocityPolicy(t *testing.T) {
	ev := Classify([]byte{0x90, 60, 0}, PolicyVelocity)
	assert.Equal(t, KindNoteOff, ev.Kind)
	assert.Equal(t, pitch.Class(0), ev.Class)

	ev = Classify([]byte{0x93, 67, 90}, PolicyVelocity)
	assert.Equal(t, KindNoteOn, ev.Kind)
	assert.Equal(t, pitch.Class(7), ev.Class)
	assert.Equal(t, uint8(3), ev.Channel)

	// a note-off carrying release velocity reads as on under this rule
	ev = Classify([]byte{0x80, 60, 64}, PolicyVelocity)
	assert.Equal(t, KindNoteOn, ev.Kind)

	assert.Equal(t, KindOther, Classify([]byte{0x90, 60}, PolicyVelocity).Kind)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyStatus, p)

	p, err = ParsePolicy(" Velocity ")
	require.NoError(t, err)
	assert.Equal(t, PolicyVelocity, p)
	assert.Equal(t, "velocity", p.String())

	_, err = ParsePolicy("both")
	assert.Error(t, err)
}
