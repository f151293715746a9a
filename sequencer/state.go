package sequencer

// State is where a Player is in its lifecycle
type State int32

const (
	Idle     State = iota // not started
	Running               // scheduling events
	Draining              // every event fired; waiting for the deadline and held notes
	Stopped               // deadline passed, every emitter finished, sink drained
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Running:
		return "PLAY"
	case Draining:
		return "DRAIN"
	case Stopped:
		return "STOP"
	}
	return "?"
}
