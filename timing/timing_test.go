package timing

import (
	"errors"
	"testing"
	"time"
)

func TestNewRejectsNonPositiveTempo(t *testing.T) {
	for _, bpm := range []int{0, -1, -200} {
		if _, err := New(bpm); !errors.Is(err, ErrInvalidTempo) {
			t.Errorf("New(%d): expected ErrInvalidTempo, got %v", bpm, err)
		}
	}
}

func TestNewRejectsTempoWithZeroLengthUnits(t *testing.T) {
	u, err := New(int(maxTempo))
	if err != nil {
		t.Fatalf("New(%d): %v", maxTempo, err)
	}
	if u.ThirtySecond() <= 0 {
		t.Errorf("thirty-second at max tempo = %v", u.ThirtySecond())
	}
	if _, err := New(int(maxTempo) + 1); !errors.Is(err, ErrInvalidTempo) {
		t.Errorf("New(%d): expected ErrInvalidTempo, got %v", maxTempo+1, err)
	}
}

func TestQuarterIsOneBeat(t *testing.T) {
	tests := []struct {
		bpm  int
		want time.Duration
	}{
		{60, time.Second},
		{120, 500 * time.Millisecond},
		{200, 300 * time.Millisecond},
		{7, time.Minute / 7},
		{1, time.Minute},
	}
	for _, tt := range tests {
		u, err := New(tt.bpm)
		if err != nil {
			t.Fatalf("New(%d): %v", tt.bpm, err)
		}
		if u.Quarter() != tt.want {
			t.Errorf("bpm %d: quarter = %v, want %v", tt.bpm, u.Quarter(), tt.want)
		}
		if u.Beat() != u.Quarter() {
			t.Errorf("bpm %d: beat %v != quarter %v", tt.bpm, u.Beat(), u.Quarter())
		}
	}
}

func TestLongUnitsDoubleExactly(t *testing.T) {
	for bpm := 1; bpm <= 400; bpm++ {
		u, err := New(bpm)
		if err != nil {
			t.Fatalf("New(%d): %v", bpm, err)
		}
		if u.Half() != 2*u.Quarter() {
			t.Fatalf("bpm %d: half %v != 2*quarter %v", bpm, u.Half(), u.Quarter())
		}
		if u.Whole() != 2*u.Half() {
			t.Fatalf("bpm %d: whole %v != 2*half %v", bpm, u.Whole(), u.Half())
		}
	}
}

func TestSubdivisionsStayWithinOneNanosecond(t *testing.T) {
	for bpm := 1; bpm <= 400; bpm++ {
		u, _ := New(bpm)
		exact := float64(time.Minute) / float64(bpm)
		checks := map[string]struct {
			got time.Duration
			div float64
		}{
			Eighth:       {u.Eighth(), 2},
			Sixteenth:    {u.Sixteenth(), 4},
			ThirtySecond: {u.ThirtySecond(), 8},
		}
		for name, c := range checks {
			diff := exact/c.div - float64(c.got)
			if diff < 0 || diff >= 1 {
				t.Fatalf("bpm %d %s: got %v, exact %.3fns", bpm, name, c.got, exact/c.div)
			}
		}
	}
}

func TestBeats(t *testing.T) {
	u, _ := New(200)
	if got := u.Beats(0.5); got != 150*time.Millisecond {
		t.Errorf("Beats(0.5) = %v, want 150ms", got)
	}
	if got := u.Beats(4); got != u.Whole() {
		t.Errorf("Beats(4) = %v, want whole %v", got, u.Whole())
	}
	if got := u.Beats(0); got != 0 {
		t.Errorf("Beats(0) = %v, want 0", got)
	}
}

func TestTable(t *testing.T) {
	u, _ := New(120)
	table := u.Table()
	if len(table) != 6 {
		t.Fatalf("expected 6 units, got %d", len(table))
	}
	if d, ok := u.Named(Sixteenth); !ok || d != 125*time.Millisecond {
		t.Errorf("Named(sixteenth) = %v, %v", d, ok)
	}
	if _, ok := u.Named("dotted"); ok {
		t.Error("expected unknown unit to be missing")
	}

	sorted := u.SortedTable()
	if sorted[0].Name != Whole || sorted[len(sorted)-1].Name != ThirtySecond {
		t.Errorf("unexpected order: %v", sorted)
	}
}
