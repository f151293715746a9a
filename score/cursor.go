package score

import "time"

// Cursor is a forward-only read position over a score. It takes ownership
// of the score; nothing else may read it during playback.
type Cursor struct {
	score    *Score
	position int
	length   time.Duration
}

// NewCursor starts a cursor at the first event
func NewCursor(s *Score) *Cursor {
	return &Cursor{score: s, length: s.Length()}
}

// Peek returns the current event without advancing
func (c *Cursor) Peek() (Event, bool) {
	if c.Exhausted() {
		return Event{}, false
	}
	return c.score.At(c.position), true
}

// Advance returns the current event and moves past it. It reports false,
// and does not move, once the score is exhausted.
func (c *Cursor) Advance() (Event, bool) {
	ev, ok := c.Peek()
	if !ok {
		return Event{}, false
	}
	c.position++
	return ev, true
}

// Position is the index of the next event to be read
func (c *Cursor) Position() int {
	return c.position
}

// Remaining returns how many events have not been consumed
func (c *Cursor) Remaining() int {
	return c.score.Len() - c.position
}

// Exhausted reports whether every event has been consumed
func (c *Cursor) Exhausted() bool {
	return c.position >= c.score.Len()
}

// Length is the whole score's length; it does not shrink as the cursor moves
func (c *Cursor) Length() time.Duration {
	return c.length
}

// Total returns the number of events in the underlying score
func (c *Cursor) Total() int {
	return c.score.Len()
}
