package caption

import (
	"errors"
	"math"
)

// ErrEmptyResult is returned when a trim window removes every word.
// Callers should surface it as a user error, not a crash.
var ErrEmptyResult = errors.New("no words remain inside the trim window")

// Word is a single timestamped token. Times are floating-point seconds.
type Word struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (w Word) Duration() float64 {
	return w.End - w.Start
}

// Chunk is one on-screen caption unit: a contiguous run of words shown
// together. It is recomputed from its words on every segmentation pass
// and never mutated in place.
type Chunk struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

// TrimWindow is the [start, end) sub-range of the timeline kept by the
// user, in seconds.
type TrimWindow struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Empty reports whether the window selects nothing. An empty window is
// treated as "no trim" throughout the engine.
func (t TrimWindow) Empty() bool {
	return t.End <= t.Start
}

func (t TrimWindow) Duration() float64 {
	return t.End - t.Start
}

// Clamp bounds the window to [0, total]. A non-positive total leaves
// the window unchanged.
func (t TrimWindow) Clamp(total float64) TrimWindow {
	if total <= 0 {
		return t
	}
	return TrimWindow{
		Start: math.Max(t.Start, 0),
		End:   math.Min(t.End, total),
	}
}

// Style describes the requested caption appearance. Path optionally
// references a custom font file on disk.
type Style struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Color  string  `json:"color"`
	Weight string  `json:"weight"`
	Path   string  `json:"path"`
}
