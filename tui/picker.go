package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"pitchcast/theme"
)

// ErrCancelled is returned when the user quits a prompt
var ErrCancelled = errors.New("cancelled")

// Picker is a single-choice list prompt
type Picker struct {
	Title  string
	Items  []string
	Theme  *theme.Theme
	cursor int
	chosen int
	done   bool
}

func NewPicker(title string, items []string, th *theme.Theme) Picker {
	return Picker{Title: title, Items: items, Theme: th, chosen: -1}
}

func (m Picker) Init() tea.Cmd {
	return nil
}

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch s := key.String(); s {
	case "q", "esc", "ctrl+c":
		m.done = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.Items)-1 {
			m.cursor++
		}

	case "enter", " ":
		if len(m.Items) > 0 {
			m.chosen = m.cursor
		}
		m.done = true
		return m, tea.Quit

	default:
		// digits jump straight to an index
		if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
			if i := int(s[0] - '0'); i < len(m.Items) {
				m.cursor = i
			}
		}
	}
	return m, nil
}

func (m Picker) View() string {
	if m.done {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	itemStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	var out strings.Builder
	out.WriteString(titleStyle.Render(m.Title))
	out.WriteString("\n\n")
	for i, item := range m.Items {
		line := fmt.Sprintf("%d: %s", i, item)
		if i == m.cursor {
			out.WriteString(titleStyle.Render(string(m.Theme.Symbols.Cursor) + " " + line))
		} else {
			out.WriteString(itemStyle.Render("  " + line))
		}
		out.WriteString("\n")
	}
	out.WriteString("\n")
	out.WriteString(dimStyle.Render("↑/↓ or 0-9: move  enter: select  q: cancel"))
	out.WriteString("\n")
	return out.String()
}

// Chosen is the selected index, or -1 if cancelled
func (m Picker) Chosen() int {
	return m.chosen
}

// Pick runs a picker on the terminal and returns the chosen index
func Pick(title string, items []string, th *theme.Theme) (int, error) {
	if len(items) == 0 {
		return -1, errors.Errorf("%s: nothing to choose from", title)
	}
	final, err := tea.NewProgram(NewPicker(title, items, th)).Run()
	if err != nil {
		return -1, errors.Wrap(err, "run picker")
	}
	idx := final.(Picker).Chosen()
	if idx < 0 {
		return -1, ErrCancelled
	}
	return idx, nil
}
