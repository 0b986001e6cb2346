package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plasma = `GIMP Palette
Name: plasma
Columns: 3
# comment
 13   8 135	start
240 249  33	end
`

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader(plasma))
	require.NoError(t, err)
	assert.Equal(t, "plasma", p.Name)
	assert.Equal(t, []RGB{{13, 8, 135}, {240, 249, 33}}, p.Colors)

	_, err = ParseGPL(strings.NewReader("GIMP Palette\nName: empty\n"))
	assert.Error(t, err)
}

func TestLoadFallsBackToChromatic(t *testing.T) {
	th, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Chromatic, th.Palette)
	assert.Equal(t, lipgloss.Color("#e63946"), th.Class(0))
	assert.Equal(t, lipgloss.Color("#c74fb2"), th.Class(11))

	_, err = Load(filepath.Join(t.TempDir(), "missing.gpl"))
	assert.Error(t, err)
}

func TestClassInterpolatesOtherPalettes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plasma.gpl")
	require.NoError(t, os.WriteFile(path, []byte(plasma), 0644))

	th, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, lipgloss.Color("#0d0887"), th.Class(0))
	assert.Equal(t, lipgloss.Color("#f0f921"), th.Class(11))
}

func TestLookupAndIndexClamp(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}
	assert.Equal(t, RGB{100, 50, 25}, p.Lookup(0.5))
	assert.Equal(t, RGB{0, 0, 0}, p.Lookup(-1))
	assert.Equal(t, RGB{200, 100, 50}, p.Lookup(2))
	assert.Equal(t, RGB{0, 0, 0}, p.Index(-3))
	assert.Equal(t, RGB{200, 100, 50}, p.Index(9))
}
