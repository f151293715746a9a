package score

import "go-scoreplay/timing"

// DemoTempo is the tempo the descending scale was written for
const DemoTempo = 200

// DescendingScale is the stock demo: eight eighth notes walking down from
// F#3, a closing B2, then a pitch-0 sentinel to pad the tail.
func DescendingScale(units timing.Units) (*Score, error) {
	pitches := []uint8{54, 53, 51, 49, 47, 46, 44, 42, 47, 0}
	b := NewBuilder(units)
	for i, p := range pitches {
		b.Add(p, 0.5, float64(i+1)*0.5, 127)
	}
	return b.Build()
}
