package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-scoreplay/config"
	"go-scoreplay/debug"
	"go-scoreplay/midi"
	"go-scoreplay/score"
	"go-scoreplay/sequencer"
	"go-scoreplay/theme"
	"go-scoreplay/timing"
	"go-scoreplay/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file (.json, .yaml); default ~/.config/go-scoreplay/config.json")
	portName := flag.String("port", "", "MIDI output port name (substring match)")
	serialDev := flag.String("serial", "", "serial device for raw MIDI, overrides -port")
	baud := flag.Int("baud", 0, "serial baud rate")
	tempo := flag.Int("tempo", 0, "tempo in bpm")
	noTUI := flag.Bool("no-tui", false, "play without the terminal UI and print a summary")
	debugLog := flag.Bool("debug", false, "write debug log")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *portName != "" {
		cfg.Output.PortName = *portName
	}
	if *serialDev != "" {
		cfg.Output.Serial = *serialDev
	}
	if *baud > 0 {
		cfg.Output.BaudRate = *baud
	}
	if *tempo != 0 {
		cfg.Playback.Tempo = *tempo
	}
	if *debugLog {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Debug {
		if *noTUI {
			debug.SetOutput(os.Stderr)
		} else if err := debug.Enable(debug.DefaultPath()); err != nil {
			return err
		}
		defer debug.Disable()
	}

	th := theme.New(nil)
	if cfg.UI.Palette != "" {
		if th, err = theme.Load(cfg.UI.Palette); err != nil {
			return err
		}
	}

	units, err := timing.New(cfg.Playback.Tempo)
	if err != nil {
		return err
	}
	s, err := score.DescendingScale(units)
	if err != nil {
		return err
	}

	defer gomidi.CloseDriver()
	out, err := openOutput(cfg, th, !*noTUI)
	if err != nil {
		return err
	}
	defer out.Close()

	player := sequencer.NewPlayer(s, out, sequencer.Options{
		Quantum: cfg.Quantum(),
		Buffer:  cfg.Playback.Buffer,
	})

	if *noTUI {
		return playPlain(player, out)
	}

	m := tui.NewModel(player, s, th, out.String(), cfg.Playback.Tempo)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	if _, done, err := final.(tui.Model).Result(); done {
		return err
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

// openOutput resolves the configured device. With several ports and no
// name the user picks one when interactive is set.
func openOutput(cfg *config.Config, th *theme.Theme, interactive bool) (midi.Out, error) {
	if cfg.Output.Serial != "" {
		return midi.OpenSerial(cfg.Output.Serial, cfg.Output.BaudRate)
	}

	ports, err := midi.OutPorts(cfg.ScanTimeout())
	if err != nil {
		return nil, err
	}

	port, err := midi.SelectOutPort(ports, cfg.Output.PortName)
	if errors.Is(err, midi.ErrAmbiguousPort) && interactive {
		// only offer the ports the configured name matched
		candidates := midi.MatchOutPorts(ports, cfg.Output.PortName)
		i, perr := tui.PickPort(midi.PortNames(candidates), th)
		if perr != nil {
			return nil, perr
		}
		port, err = candidates[i], nil
	}
	if err != nil {
		return nil, err
	}
	return midi.OpenPort(port)
}

// playPlain plays to completion, stopping early on interrupt
func playPlain(player *sequencer.Player, out midi.Out) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("go-scoreplay -> %s\n", out)
	report, err := player.Play(ctx)

	fmt.Printf("fired %d events in %d polls, %.3fs\n", report.Fired, report.Polls, report.Elapsed.Seconds())
	fmt.Printf("frames: %d sent, %d failed, %d dropped\n",
		report.Sink.Sent, len(report.Sink.Failures), report.Sink.Dropped)
	for _, f := range report.Sink.Failures {
		fmt.Printf("  %v\n", f)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
