package score

import (
	"fmt"
	"math"
	"sort"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-scoreplay/timing"
)

// TicksPerQuarter is the SMF resolution used by WriteSMF
const TicksPerQuarter = 960

type smfEvent struct {
	tick uint32
	off  bool
	msg  gomidi.Message
}

// WriteSMF renders the score to a single-track Standard MIDI File so a
// schedule can be checked in any sequencer without a device attached.
func (s *Score) WriteSMF(path string, units timing.Units) error {
	toTicks := func(d time.Duration) uint32 {
		return uint32(math.Round(float64(d) / float64(units.Beat()) * TicksPerQuarter))
	}

	var evs []smfEvent
	for _, ev := range s.Events() {
		evs = append(evs,
			smfEvent{tick: toTicks(ev.Start), msg: gomidi.NoteOn(0, ev.Pitch, ev.Velocity)},
			smfEvent{tick: toTicks(ev.End()), off: true, msg: gomidi.NoteOff(0, ev.Pitch)},
		)
	}
	// releases go first on a shared tick so repeated pitches retrigger
	sort.SliceStable(evs, func(i, j int) bool {
		if evs[i].tick != evs[j].tick {
			return evs[i].tick < evs[j].tick
		}
		return evs[i].off && !evs[j].off
	})

	file := smf.New()
	file.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTempo(float64(units.Tempo())))
	var last uint32
	for _, ev := range evs {
		track.Add(ev.tick-last, ev.msg)
		last = ev.tick
	}
	track.Close(0)

	if err := file.Add(track); err != nil {
		return fmt.Errorf("add track: %w", err)
	}
	if err := file.WriteFile(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
