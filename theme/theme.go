package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Pending  rune // · not yet fired
	Sounding rune // ● begin sent, end not yet
	Done     rune // ○ released
	Rest     rune // - pitch 0 sentinel

	BarFull  rune
	BarEmpty rune
}

// New builds a theme; a nil palette uses Plasma
func New(palette *Palette) *Theme {
	if palette == nil {
		palette = Plasma()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Pending:  '·',
			Sounding: '●',
			Done:     '○',
			Rest:     '-',

			BarFull:  '█',
			BarEmpty: '░',
		},
	}
}

// Load builds a theme from a .gpl path, falling back to Plasma when path is
// empty
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

// Color roles mapped to palette positions (0-1)
const (
	RoleMuted   = 0.15
	RoleFG      = 0.5
	RoleAccent  = 0.6
	RoleActive  = 0.75
	RoleWarning = 0.35
	RoleSuccess = 1.0
)

// Style helpers

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// Pitch colors a MIDI note by its position on the keyboard
func (t *Theme) Pitch(note uint8) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(float64(note) / 127))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
