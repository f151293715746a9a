package timing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// ErrInvalidTempo is returned for a tempo that cannot produce a positive beat
var ErrInvalidTempo = errors.New("invalid tempo")

// Names of the binary subdivisions, longest first
const (
	Whole        = "whole"
	Half         = "half"
	Quarter      = "quarter"
	Eighth       = "eighth"
	Sixteenth    = "sixteenth"
	ThirtySecond = "thirty-second"
)

// Units converts musical durations into wall-clock durations for one tempo.
// The zero value is not usable; build one with New.
type Units struct {
	tempo int
	beat  time.Duration
}

var maxTempo = int64(time.Minute / 8)

// New derives the unit table for a tempo in beats per minute
func New(bpm int) (Units, error) {
	if bpm <= 0 {
		return Units{}, fmt.Errorf("%w: %d bpm", ErrInvalidTempo, bpm)
	}
	// every unit down to a thirty-second must be at least 1ns
	if int64(bpm) > maxTempo {
		return Units{}, fmt.Errorf("%w: %d bpm", ErrInvalidTempo, bpm)
	}
	return Units{tempo: bpm, beat: time.Minute / time.Duration(bpm)}, nil
}

// Tempo returns the beats per minute the table was built for
func (u Units) Tempo() int {
	return u.tempo
}

// Beat is the reference unit: one quarter note
func (u Units) Beat() time.Duration {
	return u.beat
}

func (u Units) Whole() time.Duration   { return 2 * u.Half() }
func (u Units) Half() time.Duration    { return 2 * u.beat }
func (u Units) Quarter() time.Duration { return u.beat }

// Shorter subdivisions divide the minute once each, so rounding stays below 1ns
// instead of compounding through repeated halving.
func (u Units) Eighth() time.Duration       { return u.sub(2) }
func (u Units) Sixteenth() time.Duration    { return u.sub(4) }
func (u Units) ThirtySecond() time.Duration { return u.sub(8) }

func (u Units) sub(div int) time.Duration {
	return time.Minute / time.Duration(u.tempo*div)
}

// Beats scales the reference unit by a unit-relative value (0.5 = an eighth)
func (u Units) Beats(x float64) time.Duration {
	return time.Duration(math.Round(float64(u.beat) * x))
}

// Table returns every named unit
func (u Units) Table() map[string]time.Duration {
	return map[string]time.Duration{
		Whole:        u.Whole(),
		Half:         u.Half(),
		Quarter:      u.Quarter(),
		Eighth:       u.Eighth(),
		Sixteenth:    u.Sixteenth(),
		ThirtySecond: u.ThirtySecond(),
	}
}

// Named looks up a unit by name
func (u Units) Named(name string) (time.Duration, bool) {
	d, ok := u.Table()[name]
	return d, ok
}

// SortedTable returns the table as (name, duration) pairs, longest first
func (u Units) SortedTable() []NamedUnit {
	table := u.Table()
	out := make([]NamedUnit, 0, len(table))
	for name, d := range table {
		out = append(out, NamedUnit{Name: name, Duration: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Duration > out[j].Duration })
	return out
}

// NamedUnit is one row of the unit table
type NamedUnit struct {
	Name     string
	Duration time.Duration
}
