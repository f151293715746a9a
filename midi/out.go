package midi

import (
	"errors"
)

var (
	// ErrClosed is returned by an Out that can no longer deliver frames
	ErrClosed = errors.New("midi output closed")
	// ErrNoOutputDevice means enumeration found nothing to play on
	ErrNoOutputDevice = errors.New("no output port found")
	// ErrAmbiguousPort means several ports match and none was chosen
	ErrAmbiguousPort = errors.New("several output ports available")
)

// Out is a writable output connection. It does not support concurrent
// callers; the sequencer's sink is its only writer.
type Out interface {
	Send(f Frame) error
	Close() error
	String() string
}
