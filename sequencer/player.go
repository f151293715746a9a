package sequencer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"go-scoreplay/debug"
	"go-scoreplay/midi"
	"go-scoreplay/score"
)

// DefaultQuantum is the dispatch polling interval; it bounds dispatch jitter
const DefaultQuantum = time.Millisecond

var (
	// ErrIncomplete means the device closed before every frame was written
	ErrIncomplete = errors.New("playback incomplete")
	// ErrAlreadyPlayed means Play was called on a spent Player
	ErrAlreadyPlayed = errors.New("player already started")
)

// Options tunes a Player
type Options struct {
	Quantum time.Duration // polling interval, DefaultQuantum if zero
	Buffer  int           // sink queue capacity, DefaultBuffer if zero
}

// Report summarizes one playback
type Report struct {
	Fired   int           // events launched
	Polls   int           // dispatch iterations
	Elapsed time.Duration // origin to Stopped
	Sink    SinkReport
}

// Progress is a live snapshot for display
type Progress struct {
	State    State
	Elapsed  time.Duration
	Length   time.Duration
	Fired    int
	Total    int
	Sounding []uint8 // pitches currently held, ascending
	Sent     int
	Failed   int
}

// Player plays one score to one output. Playback is one-shot: a Player
// owns its score's cursor and cannot be rewound.
type Player struct {
	cursor  *score.Cursor
	sink    *Sink
	out     midi.Out
	quantum time.Duration

	mu       sync.Mutex
	state    State
	origin   time.Time
	elapsed  time.Duration // frozen at Stopped
	fired    int
	sounding map[uint8]int

	emitters sync.WaitGroup

	// Notify TUI of updates
	updates chan struct{}
	stopped chan struct{}

	// called from the dispatch goroutine for each launched event
	onFire func(ev score.Event, poll int)
}

// NewPlayer hands s to a new cursor. s must not be used elsewhere afterwards.
func NewPlayer(s *score.Score, out midi.Out, opts Options) *Player {
	if opts.Quantum <= 0 {
		opts.Quantum = DefaultQuantum
	}
	p := &Player{
		cursor:   score.NewCursor(s),
		sink:     NewSink(out, opts.Buffer),
		out:      out,
		quantum:  opts.Quantum,
		sounding: make(map[uint8]int),
		updates:  make(chan struct{}, 1),
		stopped:  make(chan struct{}),
	}
	p.sink.onWrite = p.notify
	return p
}

// Updates signals (coalesced) whenever progress changes
func (p *Player) Updates() <-chan struct{} {
	return p.updates
}

// Done is closed once playback has reached Stopped
func (p *Player) Done() <-chan struct{} {
	return p.stopped
}

// State returns the current lifecycle state
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Play runs the score to completion and blocks until every frame has been
// handed to the device. Cancelling ctx stops new events from firing; notes
// already sounding still get their end frame.
func (p *Player) Play(ctx context.Context) (Report, error) {
	p.mu.Lock()
	if p.state != Idle {
		p.mu.Unlock()
		return Report{}, ErrAlreadyPlayed
	}
	p.state = Running
	p.origin = time.Now()
	p.mu.Unlock()
	p.notify()

	debug.Log("dispatch", "play %d events over %v to %s", p.cursor.Total(), p.cursor.Length(), p.out)

	go p.sink.Run()

	polls, err := p.dispatch(ctx)

	// Stopped waits for held notes so no end frame is lost
	p.emitters.Wait()
	p.sink.Close()
	<-p.sink.Done()

	p.mu.Lock()
	p.state = Stopped
	p.elapsed = time.Since(p.origin)
	report := Report{
		Fired:   p.fired,
		Polls:   polls,
		Elapsed: p.elapsed,
		Sink:    p.sink.Report(),
	}
	p.mu.Unlock()
	p.notify()
	close(p.stopped)

	debug.Log("dispatch", "stopped after %v: fired=%d sent=%d failed=%d dropped=%d",
		report.Elapsed, report.Fired, report.Sink.Sent, len(report.Sink.Failures), report.Sink.Dropped)

	if report.Sink.Closed {
		return report, fmt.Errorf("%w: %s closed after %d frames", ErrIncomplete, p.out, report.Sink.Sent)
	}
	return report, err
}

// dispatch polls the cursor until the deadline. An event is due once
// elapsed >= start, so an event at t=0 fires on the first iteration.
func (p *Player) dispatch(ctx context.Context) (int, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	length := p.cursor.Length()
	timer := time.NewTimer(p.quantum)
	defer timer.Stop()

	polls := 0
	for {
		polls++
		elapsed := time.Since(p.origin)

		// fire everything due so chords leave in the same iteration
		for {
			ev, ok := p.cursor.Peek()
			if !ok || ev.Start > elapsed {
				break
			}
			p.fire(ev, polls)
			p.cursor.Advance()
		}

		if p.cursor.Exhausted() {
			p.setState(Draining)
		}

		// deadline ends the loop even if the cursor still has events
		if elapsed >= length {
			return polls, nil
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(p.quantum)
		select {
		case <-ctx.Done():
			debug.Log("dispatch", "cancelled at %v with %d events left", elapsed, p.cursor.Remaining())
			return polls, ctx.Err()
		case <-timer.C:
		}
	}
}

func (p *Player) setState(s State) {
	p.mu.Lock()
	changed := p.state != s
	p.state = s
	p.mu.Unlock()
	if changed {
		p.notify()
	}
}

// fire launches one emitter for ev
func (p *Player) fire(ev score.Event, poll int) {
	p.mu.Lock()
	p.fired++
	p.mu.Unlock()

	debug.Log("dispatch", "poll=%d %s", poll, ev)
	if p.onFire != nil {
		p.onFire(ev, poll)
	}

	p.emitters.Add(1)
	go p.emit(ev)
}

// emit sends begin, holds for the duration, then sends end. It cannot be
// interrupted once started.
func (p *Player) emit(ev score.Event) {
	defer p.emitters.Done()

	p.hold(ev.Pitch, 1)
	p.sink.Send(midi.NoteOn(ev.Pitch, ev.Velocity))

	time.Sleep(ev.Duration)

	p.sink.Send(midi.NoteOff(ev.Pitch))
	p.hold(ev.Pitch, -1)
}

func (p *Player) hold(pitch uint8, delta int) {
	p.mu.Lock()
	p.sounding[pitch] += delta
	if p.sounding[pitch] <= 0 {
		delete(p.sounding, pitch)
	}
	p.mu.Unlock()
	p.notify()
}

// Progress returns a snapshot of playback
func (p *Player) Progress() Progress {
	sink := p.sink.Report()

	p.mu.Lock()
	defer p.mu.Unlock()

	prog := Progress{
		State:  p.state,
		Length: p.cursor.Length(),
		Fired:  p.fired,
		Total:  p.cursor.Total(),
		Sent:   sink.Sent,
		Failed: len(sink.Failures),
	}
	switch p.state {
	case Idle:
	case Stopped:
		prog.Elapsed = p.elapsed
	default:
		prog.Elapsed = time.Since(p.origin)
	}
	for pitch := range p.sounding {
		prog.Sounding = append(prog.Sounding, pitch)
	}
	sort.Slice(prog.Sounding, func(i, j int) bool { return prog.Sounding[i] < prog.Sounding[j] })
	return prog
}

// notify wakes a listener without blocking
func (p *Player) notify() {
	select {
	case p.updates <- struct{}{}:
	default:
	}
}
