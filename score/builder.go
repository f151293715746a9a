package score

import (
	"time"

	"go-scoreplay/timing"
)

// Builder assembles a score from unit-relative values. Values are multiples
// of the tempo's beat: 0.5 is an eighth, 2 is a half note.
type Builder struct {
	units  timing.Units
	events []Event
	cursor time.Duration // end of the last sequential event
}

// NewBuilder starts an empty score at the given tempo
func NewBuilder(units timing.Units) *Builder {
	return &Builder{units: units}
}

// Add appends an event with an absolute, unit-relative start time. Start
// times must not decrease; Build rejects a score where they do.
func (b *Builder) Add(pitch uint8, duration, start float64, velocity uint8) *Builder {
	ev := Event{
		Pitch:    pitch,
		Velocity: velocity,
		Start:    b.units.Beats(start),
		Duration: b.units.Beats(duration),
	}
	b.events = append(b.events, ev)
	if end := ev.End(); end > b.cursor {
		b.cursor = end
	}
	return b
}

// Append places an event right after the latest end seen so far, so a
// melody can be written as a plain list of note lengths.
func (b *Builder) Append(pitch uint8, duration float64, velocity uint8) *Builder {
	ev := Event{
		Pitch:    pitch,
		Velocity: velocity,
		Start:    b.cursor,
		Duration: b.units.Beats(duration),
	}
	b.events = append(b.events, ev)
	b.cursor = ev.End()
	return b
}

// Rest advances the sequential position without adding an event
func (b *Builder) Rest(duration float64) *Builder {
	b.cursor += b.units.Beats(duration)
	return b
}

// Len returns how many events have been added
func (b *Builder) Len() int {
	return len(b.events)
}

// Build validates the events and freezes them into a Score
func (b *Builder) Build() (*Score, error) {
	return New(b.events...)
}
