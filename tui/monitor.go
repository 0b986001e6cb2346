package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pitchcast/midi"
	"pitchcast/pitch"
	"pitchcast/theme"
)

// Monitor prints one line per event showing which pitch classes are held
type Monitor struct {
	w     io.Writer
	theme *theme.Theme
}

func NewMonitor(w io.Writer, th *theme.Theme) *Monitor {
	return &Monitor{w: w, theme: th}
}

// Line renders the twelve pitch classes, lit where held, then the held
// entries in order with their count
func (m *Monitor) Line(ev midi.Event, held []pitch.Class) string {
	var counts [pitch.NumClasses]int
	for _, pc := range held {
		if pc.Valid() {
			counts[pc]++
		}
	}

	dim := lipgloss.NewStyle().Foreground(m.theme.Muted())
	var row strings.Builder
	for pc := pitch.Class(0); pc < pitch.NumClasses; pc++ {
		if counts[pc] > 0 {
			lit := lipgloss.NewStyle().Foreground(m.theme.Class(pc)).Bold(true)
			row.WriteString(lit.Render(string(m.theme.Symbols.Held)))
		} else {
			row.WriteString(dim.Render(string(m.theme.Symbols.Silent)))
		}
	}

	kind := fmt.Sprintf("%-8s", ev.Kind)
	if ev.Kind != midi.KindOther {
		kind = fmt.Sprintf("%-8s %-2s", ev.Kind, ev.Class)
	} else {
		kind += "   "
	}
	return fmt.Sprintf("%s  %s  keys pressed (%d): [%s]", row.String(), dim.Render(kind), len(held), pitch.Names(held))
}

// Update has the pipeline.UpdateFunc signature
func (m *Monitor) Update(ev midi.Event, held []pitch.Class) {
	fmt.Fprintln(m.w, m.Line(ev, held))
}
