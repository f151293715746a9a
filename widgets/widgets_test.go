package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNoteName(t *testing.T) {
	tests := map[uint8]string{
		0:   "C-1",
		54:  "F#3",
		60:  "C4",
		127: "G9",
	}
	for note, want := range tests {
		if got := NoteName(note); got != want {
			t.Errorf("NoteName(%d) = %q, want %q", note, got, want)
		}
	}
}

func TestRenderBarWidth(t *testing.T) {
	for _, frac := range []float64{-1, 0, 0.33, 0.5, 1, 3} {
		bar := RenderBar(frac, 20, '#', '.', lipgloss.Color("#ff0000"))
		if w := lipgloss.Width(bar); w != 20 {
			t.Errorf("frac %v: width %d", frac, w)
		}
	}
	if RenderBar(0.5, 0, '#', '.', "") != "" {
		t.Error("zero width should render nothing")
	}
	if got := strings.Count(RenderBar(0.5, 10, '#', '.', ""), "."); got != 5 {
		t.Errorf("expected 5 empty cells, got %d", got)
	}
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{{Title: "Playback", Keys: []KeyBinding{{"q", "quit"}}}})
	if !strings.Contains(out, "Playback") || !strings.Contains(out, "quit") {
		t.Errorf("unexpected help %q", out)
	}
}
