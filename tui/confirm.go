package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"pitchcast/theme"
)

// Confirm is a yes/no prompt; enter takes the default
type Confirm struct {
	Question  string
	Default   bool
	Theme     *theme.Theme
	answer    bool
	answered  bool
	cancelled bool
}

func NewConfirm(question string, def bool, th *theme.Theme) Confirm {
	return Confirm{Question: question, Default: def, Theme: th}
}

func (m Confirm) Init() tea.Cmd {
	return nil
}

func (m Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answer, m.answered = true, true
	case "n", "N":
		m.answer, m.answered = false, true
	case "enter":
		m.answer, m.answered = m.Default, true
	case "q", "esc", "ctrl+c":
		m.cancelled = true
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m Confirm) View() string {
	if m.answered || m.cancelled {
		return ""
	}
	hint := "[y/N]"
	if m.Default {
		hint = "[Y/n]"
	}
	q := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true).Render(m.Question)
	h := lipgloss.NewStyle().Foreground(m.Theme.Muted()).Render(hint)
	return q + " " + h + "\n"
}

// Answer returns the choice and whether one was made
func (m Confirm) Answer() (yes, ok bool) {
	return m.answer, m.answered
}

// Ask runs a confirm prompt on the terminal
func Ask(question string, def bool, th *theme.Theme) (bool, error) {
	final, err := tea.NewProgram(NewConfirm(question, def, th)).Run()
	if err != nil {
		return false, errors.Wrap(err, "run prompt")
	}
	yes, ok := final.(Confirm).Answer()
	if !ok {
		return false, ErrCancelled
	}
	return yes, nil
}
