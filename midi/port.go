package midi

import (
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-scoreplay/debug"
)

// PortOut sends frames to a driver port through gomidi
type PortOut struct {
	name   string
	send   func(msg gomidi.Message) error
	isOpen func() bool
	close  func() error
}

// OpenPort opens a driver output port for sending
func OpenPort(port drivers.Out) (*PortOut, error) {
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", port.String(), err)
	}
	debug.Log("port", "opened %q", port.String())
	return newPortOut(port.String(), send, port.IsOpen, port.Close), nil
}

func newPortOut(name string, send func(gomidi.Message) error, isOpen func() bool, close func() error) *PortOut {
	return &PortOut{name: name, send: send, isOpen: isOpen, close: close}
}

// Send writes one frame; a port the driver has closed reports ErrClosed
func (p *PortOut) Send(f Frame) error {
	if !p.isOpen() {
		return ErrClosed
	}
	if err := p.send(f.Message()); err != nil {
		if !p.isOpen() {
			return fmt.Errorf("%w: %v", ErrClosed, err)
		}
		return err
	}
	return nil
}

func (p *PortOut) Close() error {
	return p.close()
}

func (p *PortOut) String() string {
	return p.name
}

// OutPorts lists driver output ports. Enumeration runs in a goroutine with a
// timeout because CoreMIDI can hang.
func OutPorts(timeout time.Duration) ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case ports := <-ch:
		return ports, nil
	case <-time.After(timeout):
		// User may need to run: sudo killall coreaudiod midiserver
		return nil, fmt.Errorf("listing output ports: timed out after %v", timeout)
	}
}

// SelectOutPort resolves a single port. An empty name picks the only port;
// otherwise name is matched case-insensitively, exact match first, then as a
// substring.
func SelectOutPort[P fmt.Stringer](ports []P, name string) (P, error) {
	var none P
	if len(ports) == 0 {
		return none, ErrNoOutputDevice
	}

	if name == "" {
		if len(ports) == 1 {
			return ports[0], nil
		}
		return none, fmt.Errorf("%w: %s", ErrAmbiguousPort, strings.Join(PortNames(ports), ", "))
	}

	matches := MatchOutPorts(ports, name)
	switch len(matches) {
	case 0:
		return none, fmt.Errorf("%w: nothing matches %q", ErrNoOutputDevice, name)
	case 1:
		return matches[0], nil
	default:
		return none, fmt.Errorf("%w: %q matches %s", ErrAmbiguousPort, name, strings.Join(PortNames(matches), ", "))
	}
}

// MatchOutPorts returns the ports name could mean: every port for an empty
// name, a case-insensitive exact match alone, otherwise all substring matches.
func MatchOutPorts[P fmt.Stringer](ports []P, name string) []P {
	if name == "" {
		return ports
	}
	want := strings.ToLower(name)
	for _, p := range ports {
		if strings.ToLower(p.String()) == want {
			return []P{p}
		}
	}
	var matches []P
	for _, p := range ports {
		if strings.Contains(strings.ToLower(p.String()), want) {
			matches = append(matches, p)
		}
	}
	return matches
}

// PortNames returns the display name of each port
func PortNames[P fmt.Stringer](ports []P) []string {
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.String()
	}
	return names
}
