package sequencer

import (
	"errors"
	"fmt"
	"sync"

	"go-scoreplay/debug"
	"go-scoreplay/midi"
)

// DefaultBuffer is the sink's queue capacity in frames
const DefaultBuffer = 64

// WriteError is one failed device write
type WriteError struct {
	Frame midi.Frame
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %v: %v", e.Frame, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// SinkReport summarizes what reached the device
type SinkReport struct {
	Sent     int     // frames the device accepted
	Dropped  int     // frames discarded after the device closed
	Failures []error // one *WriteError per failed write
	Closed   bool    // the device closed mid-playback
}

// Sink is the only writer to a midi.Out. Any number of goroutines may Send;
// one goroutine (Run) writes frames to the device in arrival order.
type Sink struct {
	out     midi.Out
	frames  chan midi.Frame
	done    chan struct{}
	onWrite func()

	mu     sync.Mutex
	report SinkReport
}

// NewSink creates a sink over out. capacity <= 0 uses DefaultBuffer.
func NewSink(out midi.Out, capacity int) *Sink {
	if capacity <= 0 {
		capacity = DefaultBuffer
	}
	return &Sink{
		out:    out,
		frames: make(chan midi.Frame, capacity),
		done:   make(chan struct{}),
	}
}

// Send queues a frame. It must not be called after Close.
func (s *Sink) Send(f midi.Frame) {
	s.frames <- f
}

// Close signals that no more frames will be sent; Run returns once the
// queue is drained
func (s *Sink) Close() {
	close(s.frames)
}

// Done is closed when Run has drained the queue
func (s *Sink) Done() <-chan struct{} {
	return s.done
}

// Run writes queued frames until Close (blocking - run in goroutine)
func (s *Sink) Run() {
	defer close(s.done)
	for f := range s.frames {
		s.write(f)
		if s.onWrite != nil {
			s.onWrite()
		}
	}
}

func (s *Sink) write(f midi.Frame) {
	s.mu.Lock()
	closed := s.report.Closed
	s.mu.Unlock()

	if closed {
		// keep draining so emitters never block on a dead device
		s.mu.Lock()
		s.report.Dropped++
		s.mu.Unlock()
		return
	}

	err := s.out.Send(f)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.report.Sent++
		return
	}

	werr := &WriteError{Frame: f, Err: err}
	s.report.Failures = append(s.report.Failures, werr)
	if errors.Is(err, midi.ErrClosed) {
		s.report.Closed = true
		debug.Log("sink", "%s closed, dropping remaining frames: %v", s.out, err)
		return
	}
	debug.Log("sink", "%v", werr)
}

// Report returns a snapshot of delivery results
func (s *Sink) Report() SinkReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.report
	r.Failures = append([]error(nil), s.report.Failures...)
	return r
}
