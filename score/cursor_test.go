package score

import (
	"testing"
	"time"
)

func scale(t *testing.T, n int) *Score {
	t.Helper()
	b := NewBuilder(mustUnits(t, 200))
	for i := 0; i < n; i++ {
		b.Add(uint8(60-i), 0.5, float64(i)*0.5, 100)
	}
	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func TestPeekIsIdempotent(t *testing.T) {
	c := NewCursor(scale(t, 3))
	first, ok1 := c.Peek()
	second, ok2 := c.Peek()
	if !ok1 || !ok2 {
		t.Fatal("expected events")
	}
	if first != second {
		t.Errorf("peek changed: %v then %v", first, second)
	}
	if c.Position() != 0 {
		t.Errorf("peek moved the cursor to %d", c.Position())
	}
}

func TestAdvanceWalksEveryEvent(t *testing.T) {
	const n = 8
	s := scale(t, n)
	c := NewCursor(s)
	for i := 0; i < n; i++ {
		peeked, _ := c.Peek()
		ev, ok := c.Advance()
		if !ok {
			t.Fatalf("advance %d: cursor exhausted early", i)
		}
		if ev != peeked || ev != s.At(i) {
			t.Errorf("advance %d: got %v, want %v", i, ev, s.At(i))
		}
		if c.Position() != i+1 {
			t.Errorf("advance %d: position %d", i, c.Position())
		}
	}
	if !c.Exhausted() {
		t.Error("expected exhausted after n advances")
	}
	if _, ok := c.Peek(); ok {
		t.Error("expected peek to report none")
	}
}

func TestAdvanceOnExhaustedCursorDoesNothing(t *testing.T) {
	c := NewCursor(scale(t, 1))
	c.Advance()
	if _, ok := c.Advance(); ok {
		t.Error("expected advance to fail when exhausted")
	}
	if c.Position() != 1 {
		t.Errorf("position moved past the end: %d", c.Position())
	}
	if c.Remaining() != 0 {
		t.Errorf("remaining = %d", c.Remaining())
	}
}

func TestCursorLengthIsConstant(t *testing.T) {
	s := scale(t, 4)
	c := NewCursor(s)
	want := s.Length()
	for !c.Exhausted() {
		if c.Length() != want {
			t.Fatalf("length changed to %v", c.Length())
		}
		c.Advance()
	}
	if c.Length() != want || want != 600*time.Millisecond {
		t.Errorf("length = %v, want %v", c.Length(), want)
	}
}

func TestEmptyCursor(t *testing.T) {
	s, _ := New()
	c := NewCursor(s)
	if !c.Exhausted() || c.Length() != 0 || c.Total() != 0 {
		t.Errorf("unexpected empty cursor state: exhausted=%v length=%v", c.Exhausted(), c.Length())
	}
}
