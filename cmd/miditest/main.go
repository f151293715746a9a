package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-scoreplay/debug"
	"go-scoreplay/midi"
	"go-scoreplay/score"
	"go-scoreplay/sequencer"
	"go-scoreplay/timing"
)

const scanTimeout = 3 * time.Second

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	defer gomidi.CloseDriver()

	debug.SetOutput(os.Stderr)

	var err error
	switch os.Args[1] {
	case "list":
		err = listPorts()
	case "note":
		err = testNote(os.Args[2:])
	case "scale":
		err = playScale(os.Args[2:])
	case "export":
		err = exportScale(os.Args[2:])
	case "units":
		err = printUnits(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                  - List MIDI output ports and serial devices")
	fmt.Println("  note [port] [pitch]   - Send one note on/off pair")
	fmt.Println("  scale [port] [bpm]    - Play the descending scale")
	fmt.Println("  export <file> [bpm]   - Write the descending scale to a .mid file")
	fmt.Println("  units [bpm]           - Print note durations for a tempo")
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func intArg(args []string, i, def int) (int, error) {
	s := arg(args, i)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

// pitchArg reads a 7-bit note number
func pitchArg(args []string, i int, def uint8) (uint8, error) {
	n, err := intArg(args, i, int(def))
	if err != nil {
		return 0, err
	}
	if n < 0 || n > score.MaxValue {
		return 0, fmt.Errorf("pitch %d out of range 0-%d", n, score.MaxValue)
	}
	return uint8(n), nil
}

func listPorts() error {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Printf("(waiting up to %v...)\n", scanTimeout)

	outs, err := midi.OutPorts(scanTimeout)
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return err
	}
	for i, name := range midi.PortNames(outs) {
		fmt.Printf("  %d: %s\n", i, name)
	}

	fmt.Println("\n=== Serial Devices ===")
	serials, err := midi.SerialPorts()
	if err != nil {
		return err
	}
	for i, name := range midi.PortNames(serials) {
		fmt.Printf("  %d: %s\n", i, name)
	}
	return nil
}

func openOut(name string) (midi.Out, error) {
	outs, err := midi.OutPorts(scanTimeout)
	if err != nil {
		return nil, err
	}
	port, err := midi.SelectOutPort(outs, name)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Using output: %s\n", port.String())
	return midi.OpenPort(port)
}

func testNote(args []string) error {
	pitch, err := pitchArg(args, 1, 60)
	if err != nil {
		return err
	}
	units, err := timing.New(score.DemoTempo)
	if err != nil {
		return err
	}
	s, err := score.NewBuilder(units).Add(pitch, 1, 0, 127).Build()
	if err != nil {
		return err
	}
	return play(arg(args, 0), s)
}

func playScale(args []string) error {
	bpm, err := intArg(args, 1, score.DemoTempo)
	if err != nil {
		return err
	}
	units, err := timing.New(bpm)
	if err != nil {
		return err
	}
	s, err := score.DescendingScale(units)
	if err != nil {
		return err
	}
	return play(arg(args, 0), s)
}

func play(port string, s *score.Score) error {
	out, err := openOut(port)
	if err != nil {
		return err
	}
	defer out.Close()

	report, err := sequencer.NewPlayer(s, out, sequencer.Options{}).Play(context.Background())
	fmt.Printf("fired=%d polls=%d elapsed=%v sent=%d failed=%d dropped=%d\n",
		report.Fired, report.Polls, report.Elapsed.Round(time.Millisecond),
		report.Sink.Sent, len(report.Sink.Failures), report.Sink.Dropped)
	return err
}

func exportScale(args []string) error {
	path := arg(args, 0)
	if path == "" {
		return fmt.Errorf("export needs an output file")
	}
	bpm, err := intArg(args, 1, score.DemoTempo)
	if err != nil {
		return err
	}
	units, err := timing.New(bpm)
	if err != nil {
		return err
	}
	s, err := score.DescendingScale(units)
	if err != nil {
		return err
	}
	if err := s.WriteSMF(path, units); err != nil {
		return err
	}
	fmt.Printf("Wrote %d events (%v) to %s\n", s.Len(), s.Length(), path)
	return nil
}

func printUnits(args []string) error {
	bpm, err := intArg(args, 0, score.DemoTempo)
	if err != nil {
		return err
	}
	units, err := timing.New(bpm)
	if err != nil {
		return err
	}
	fmt.Printf("=== %d bpm ===\n", units.Tempo())
	for _, u := range units.SortedTable() {
		fmt.Printf("  %-14s %v\n", u.Name, u.Duration)
	}
	return nil
}
