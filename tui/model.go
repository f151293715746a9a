package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-scoreplay/score"
	"go-scoreplay/sequencer"
	"go-scoreplay/theme"
	"go-scoreplay/widgets"
)

const barWidth = 40

var playbackKeys = []widgets.KeySection{
	{Keys: []widgets.KeyBinding{
		{Key: "q / ctrl+c", Desc: "stop (held notes still release), quit when done"},
	}},
}

// Model shows one playback. Quitting while notes are held cancels
// scheduling and waits for Play to release them before exiting.
type Model struct {
	Player *sequencer.Player
	Events []score.Event
	Theme  *theme.Theme
	Output string
	Tempo  int

	ctx    context.Context
	cancel context.CancelFunc

	stopping bool
	done     bool
	report   sequencer.Report
	err      error
}

type UpdateMsg struct{}

// stoppedMsg ends the update listener once the player is done
type stoppedMsg struct{}

// DoneMsg carries Play's result
type DoneMsg struct {
	Report sequencer.Report
	Err    error
}

func NewModel(player *sequencer.Player, s *score.Score, th *theme.Theme, output string, tempo int) Model {
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		Player: player,
		Events: s.Events(),
		Theme:  th,
		Output: output,
		Tempo:  tempo,
		ctx:    ctx,
		cancel: cancel,
	}
}

func ListenForUpdates(player *sequencer.Player) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-player.Updates():
			return UpdateMsg{}
		case <-player.Done():
			return stoppedMsg{}
		}
	}
}

// Play runs the player and reports completion as a DoneMsg
func Play(ctx context.Context, player *sequencer.Player) tea.Cmd {
	return func() tea.Msg {
		report, err := player.Play(ctx)
		return DoneMsg{Report: report, Err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Player),
		Play(m.ctx, m.Player),
	)
}

// Result returns the playback outcome once done
func (m Model) Result() (sequencer.Report, bool, error) {
	return m.report, m.done, m.err
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.done {
				return m, tea.Quit
			}
			m.stopping = true
			m.cancel()
		}

	case UpdateMsg:
		if m.done {
			return m, nil
		}
		return m, ListenForUpdates(m.Player)

	case DoneMsg:
		m.done = true
		m.report = msg.Report
		m.err = msg.Err
		m.cancel()
		if m.stopping {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) View() string {
	prog := m.Player.Progress()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())
	okStyle := lipgloss.NewStyle().Foreground(m.Theme.Success())

	header := headerStyle.Render(fmt.Sprintf("go-scoreplay  %-5s  %3dbpm  -> %s", prog.State, m.Tempo, m.Output))

	frac := 0.0
	if prog.Length > 0 {
		frac = float64(prog.Elapsed) / float64(prog.Length)
	}
	bar := widgets.RenderBar(frac, barWidth, m.Theme.Symbols.BarFull, m.Theme.Symbols.BarEmpty, m.Theme.Active())
	clock := fmt.Sprintf(" %s / %s", fmtDur(prog.Elapsed), fmtDur(prog.Length))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(bar)
	out.WriteString(clock)
	out.WriteString("\n\n")
	out.WriteString(m.renderEvents(prog))
	out.WriteString("\n\n")

	stats := fmt.Sprintf("events %d/%d  frames %d sent", prog.Fired, prog.Total, prog.Sent)
	if prog.Failed > 0 {
		stats += warnStyle.Render(fmt.Sprintf("  %d failed", prog.Failed))
	}
	out.WriteString(stats)
	out.WriteString("\n")

	switch {
	case m.done && m.err != nil:
		out.WriteString(warnStyle.Render("Error: " + m.err.Error()))
		out.WriteString("\n")
	case m.done:
		out.WriteString(okStyle.Render(fmt.Sprintf("done in %s", fmtDur(m.report.Elapsed))))
		out.WriteString("\n")
	case m.stopping:
		out.WriteString(dimStyle.Render("stopping, releasing held notes..."))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(playbackKeys)))
	return out.String()
}

// renderEvents draws one cell per event: pending, sounding or released
func (m Model) renderEvents(prog sequencer.Progress) string {
	sounding := make(map[uint8]bool, len(prog.Sounding))
	for _, p := range prog.Sounding {
		sounding[p] = true
	}

	// only the latest fired event of a pitch can still be sounding
	latest := make(map[uint8]int)
	for i := 0; i < prog.Fired && i < len(m.Events); i++ {
		latest[m.Events[i].Pitch] = i
	}

	cells := make([]string, len(m.Events))
	names := make([]string, len(m.Events))
	for i, ev := range m.Events {
		sym := m.Theme.Symbols.Pending
		color := m.Theme.Muted()
		switch {
		case i >= prog.Fired:
		case sounding[ev.Pitch] && latest[ev.Pitch] == i:
			sym = m.Theme.Symbols.Sounding
			color = m.Theme.Pitch(ev.Pitch)
		default:
			sym = m.Theme.Symbols.Done
			color = m.Theme.FG()
		}
		if ev.Pitch == 0 && i < prog.Fired {
			sym = m.Theme.Symbols.Rest
		}
		cells[i] = widgets.RenderCell(sym, color) + "   "
		names[i] = fmt.Sprintf("%-4s", widgets.NoteName(ev.Pitch))
	}
	return strings.Join(cells, "") + "\n" + strings.Join(names, "")
}

func fmtDur(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
