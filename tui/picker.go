package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-scoreplay/theme"
	"go-scoreplay/widgets"
)

var pickerKeys = []widgets.KeySection{
	{Keys: []widgets.KeyBinding{
		{Key: "j/k", Desc: "move"},
		{Key: "0-9", Desc: "jump to port"},
		{Key: "enter", Desc: "select"},
		{Key: "q", Desc: "cancel"},
	}},
}

// ErrNoSelection means the picker was dismissed
var ErrNoSelection = errors.New("no output port selected")

// Picker lets the user choose one output port
type Picker struct {
	Names  []string
	Theme  *theme.Theme
	cursor int
	chosen int
}

func NewPicker(names []string, th *theme.Theme) Picker {
	return Picker{Names: names, Theme: th, chosen: -1}
}

func (p Picker) Init() tea.Cmd {
	return nil
}

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.Names)-1 {
			p.cursor++
		}
	case "enter", " ":
		p.chosen = p.cursor
		return p, tea.Quit
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	default:
		// digits jump straight to a port
		s := key.String()
		if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
			if i := int(s[0] - '0'); i < len(p.Names) {
				p.cursor = i
			}
		}
	}
	return p, nil
}

// Chosen returns the selected index
func (p Picker) Chosen() (int, bool) {
	return p.chosen, p.chosen >= 0
}

func (p Picker) View() string {
	headerStyle := lipgloss.NewStyle().Foreground(p.Theme.Accent())
	cursorStyle := lipgloss.NewStyle().Foreground(p.Theme.Active())
	dimStyle := lipgloss.NewStyle().Foreground(p.Theme.Muted())

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render("Available output ports:"))
	out.WriteString("\n\n")
	for i, name := range p.Names {
		line := fmt.Sprintf("  %d: %s", i, name)
		if i == p.cursor {
			line = cursorStyle.Render(fmt.Sprintf("> %d: %s", i, name))
		}
		out.WriteString(line)
		out.WriteString("\n")
	}
	out.WriteString("\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(pickerKeys)))
	return out.String()
}

// PickPort runs the picker and returns the chosen index
func PickPort(names []string, th *theme.Theme) (int, error) {
	final, err := tea.NewProgram(NewPicker(names, th)).Run()
	if err != nil {
		return -1, err
	}
	if i, ok := final.(Picker).Chosen(); ok {
		return i, nil
	}
	return -1, ErrNoSelection
}
