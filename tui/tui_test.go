package tui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"pitchcast/midi"
	"pitchcast/pitch"
	"pitchcast/theme"
)

func press(m tea.Model, keys ...tea.KeyMsg) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

var (
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPickerNavigation(t *testing.T) {
	items := []string{"Midi Through", "Keystation 49", "IAC Bus 1"}
	p := NewPicker("Input port", items, theme.New(nil))
	assert.Contains(t, p.View(), "Keystation 49")

	m := press(p, down, down, down, up, enter)
	assert.Equal(t, 1, m.(Picker).Chosen())
	assert.Empty(t, m.View())
}

func TestPickerDigitsAndVimKeys(t *testing.T) {
	p := NewPicker("Output port", []string{"a", "b", "c"}, theme.New(nil))
	m := press(p, runes("2"), runes("k"), enter)
	assert.Equal(t, 1, m.(Picker).Chosen())

	m = press(p, runes("9"), runes("j"), enter)
	assert.Equal(t, 1, m.(Picker).Chosen())
}

func TestPickerCancel(t *testing.T) {
	p := NewPicker("Input port", []string{"a"}, theme.New(nil))
	m, cmd := p.Update(esc)
	assert.NotNil(t, cmd)
	assert.Equal(t, -1, m.(Picker).Chosen())
}

func TestConfirm(t *testing.T) {
	c := NewConfirm("Forward MIDI?", true, theme.New(nil))
	assert.Contains(t, c.View(), "[Y/n]")

	yes, ok := press(c, enter).(Confirm).Answer()
	assert.True(t, ok)
	assert.True(t, yes)

	yes, ok = press(c, runes("n")).(Confirm).Answer()
	assert.True(t, ok)
	assert.False(t, yes)

	_, ok = press(c, runes("x"), esc).(Confirm).Answer()
	assert.False(t, ok)
}

func TestMonitorLine(t *testing.T) {
	var buf bytes.Buffer
	mon := NewMonitor(&buf, theme.New(nil))

	mon.Update(midi.Event{Kind: midi.KindNoteOn, Class: 7}, []pitch.Class{0, 4, 7})
	mon.Update(midi.Event{Kind: midi.KindOther}, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "keys pressed (3): [C E G]")
	assert.Contains(t, lines[0], "note-on")
	assert.Contains(t, lines[1], "keys pressed (0): []")
}
