package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"pitchcast/pitch"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Held   rune // ● pitch class sounding
	Silent rune // · pitch class not sounding
	Cursor rune // ▶ picker selection
}

// New builds a theme; a nil palette selects Chromatic
func New(palette *Palette) *Theme {
	if palette == nil {
		palette = Chromatic
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Held:   '●',
			Silent: '·',
			Cursor: '▶',
		},
	}
}

// Load reads a GPL palette, falling back to Chromatic when path is empty
func Load(path string) (*Theme, error) {
	if path == "" {
		return New(nil), nil
	}
	p, err := LoadGPL(path)
	if err != nil {
		return nil, err
	}
	return New(p), nil
}

// Fixed UI colours, independent of the palette
var (
	muted   = lipgloss.Color("#6c6c6c")
	fg      = lipgloss.Color("#dcdcdc")
	warning = lipgloss.Color("#f4a261")
)

func (t *Theme) FG() lipgloss.Color      { return fg }
func (t *Theme) Muted() lipgloss.Color   { return muted }
func (t *Theme) Warning() lipgloss.Color { return warning }

// Accent is the palette midpoint
func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(0.5))
}

// Class returns the colour for a pitch class. A 12-colour palette maps one
// to one; any other size is interpolated.
func (t *Theme) Class(pc pitch.Class) lipgloss.Color {
	if len(t.Palette.Colors) == pitch.NumClasses {
		return rgbToLipgloss(t.Palette.Index(int(pc)))
	}
	return rgbToLipgloss(t.Palette.Lookup(float64(pc) / float64(pitch.NumClasses-1)))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
