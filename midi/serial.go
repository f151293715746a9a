package midi

import (
	"errors"
	"fmt"
	"io"

	"go.bug.st/serial"

	"go-scoreplay/debug"
)

// DefaultBaudRate is the MIDI 1.0 DIN current-loop rate
const DefaultBaudRate = 31250

// SerialPort names a serial device so it can go through SelectOutPort
type SerialPort string

func (s SerialPort) String() string { return string(s) }

// SerialPorts lists serial devices present on the system
func SerialPorts() ([]SerialPort, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("listing serial ports: %w", err)
	}
	ports := make([]SerialPort, len(names))
	for i, n := range names {
		ports[i] = SerialPort(n)
	}
	return ports, nil
}

// SerialOut writes raw frames to a serial line: a DIN MIDI interface, or a
// USB-serial bridge running at a higher baud rate.
type SerialOut struct {
	name string
	w    io.WriteCloser
}

// OpenSerial opens a serial device in 8N1 at the given baud rate
func OpenSerial(name string, baud int) (*SerialOut, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	debug.Log("port", "opened serial %q at %d baud", name, baud)
	return newSerialOut(name, port), nil
}

func newSerialOut(name string, w io.WriteCloser) *SerialOut {
	return &SerialOut{name: name, w: w}
}

// Send writes the whole frame or fails. A port the OS reports as closed
// maps to ErrClosed.
func (s *SerialOut) Send(f Frame) error {
	n, err := s.w.Write(f[:])
	if err != nil {
		var pe *serial.PortError
		if errors.As(err, &pe) && pe.Code() == serial.PortClosed {
			return fmt.Errorf("%w: %v", ErrClosed, err)
		}
		if errors.Is(err, io.ErrClosedPipe) {
			return fmt.Errorf("%w: %v", ErrClosed, err)
		}
		return err
	}
	if n != len(f) {
		return io.ErrShortWrite
	}
	return nil
}

func (s *SerialOut) Close() error {
	return s.w.Close()
}

func (s *SerialOut) String() string {
	return s.name
}
