package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI status bytes on channel 1
const (
	NoteOnStatus  uint8 = 0x90
	NoteOffStatus uint8 = 0x80
)

// Frame is one 3-byte channel message: status, pitch, velocity. It carries
// no timing; whoever sends it already waited.
type Frame [3]byte

// NoteOn builds a begin frame
func NoteOn(pitch, velocity uint8) Frame {
	return frameOf(gomidi.NoteOn(0, pitch, velocity))
}

// NoteOff builds an end frame; velocity is always zero
func NoteOff(pitch uint8) Frame {
	return frameOf(gomidi.NoteOff(0, pitch))
}

func frameOf(msg gomidi.Message) Frame {
	var f Frame
	copy(f[:], msg)
	return f
}

// IsNoteOn reports whether f begins a note
func (f Frame) IsNoteOn() bool {
	return f[0]&0xF0 == NoteOnStatus
}

// IsNoteOff reports whether f ends a note
func (f Frame) IsNoteOff() bool {
	return f[0]&0xF0 == NoteOffStatus
}

func (f Frame) Pitch() uint8    { return f[1] }
func (f Frame) Velocity() uint8 { return f[2] }

// Message exposes the frame as a gomidi message
func (f Frame) Message() gomidi.Message {
	return gomidi.Message(f[:])
}

func (f Frame) String() string {
	return f.Message().String()
}
