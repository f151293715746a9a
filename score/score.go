package score

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnsorted means an event starts before the one preceding it
	ErrUnsorted = errors.New("start times out of order")
	// ErrOutOfRange means a pitch or velocity does not fit in 7 bits
	ErrOutOfRange = errors.New("value exceeds 7 bits")
)

// MaxValue is the largest pitch or velocity a frame can carry
const MaxValue = 0x7F

// Event is one note. Start is measured from the playback origin, not from the
// previous event. Pitch 0 is a rest by convention but is scheduled like any
// other note.
type Event struct {
	Pitch    uint8
	Velocity uint8
	Start    time.Duration
	Duration time.Duration
}

// End returns when the note releases
func (e Event) End() time.Duration {
	return e.Start + e.Duration
}

func (e Event) String() string {
	return fmt.Sprintf("pitch=%d vel=%d start=%v dur=%v", e.Pitch, e.Velocity, e.Start, e.Duration)
}

// BuildError reports which event failed validation
type BuildError struct {
	Index int
	Event Event
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("event %d (%s): %v", e.Index, e.Event, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Score is an ordered, immutable list of events. Insertion order is
// playback order.
type Score struct {
	events []Event
}

// New builds a score from absolute events, validating order and ranges
func New(events ...Event) (*Score, error) {
	if err := validate(events); err != nil {
		return nil, err
	}
	owned := make([]Event, len(events))
	copy(owned, events)
	return &Score{events: owned}, nil
}

func validate(events []Event) error {
	for i, ev := range events {
		if ev.Pitch > MaxValue || ev.Velocity > MaxValue {
			return &BuildError{Index: i, Event: ev, Err: ErrOutOfRange}
		}
		if ev.Start < 0 || ev.Duration < 0 {
			return &BuildError{Index: i, Event: ev, Err: ErrOutOfRange}
		}
		if i > 0 && ev.Start < events[i-1].Start {
			return &BuildError{Index: i, Event: ev, Err: ErrUnsorted}
		}
	}
	return nil
}

// Len returns the number of events
func (s *Score) Len() int {
	if s == nil {
		return 0
	}
	return len(s.events)
}

// At returns the event at index i
func (s *Score) At(i int) Event {
	return s.events[i]
}

// Events returns a copy of the event list
func (s *Score) Events() []Event {
	out := make([]Event, s.Len())
	if s != nil {
		copy(out, s.events)
	}
	return out
}

// Length is the last event's end, or zero for an empty score
func (s *Score) Length() time.Duration {
	if s.Len() == 0 {
		return 0
	}
	return s.events[len(s.events)-1].End()
}
