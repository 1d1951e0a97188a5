package caption

import (
	"math"
)

// Reslice filters and shifts words onto the zero-based timeline of the
// trim window. Words wholly outside the window are dropped, words
// straddling a boundary are clipped to it, and survivors are shifted
// so the window start becomes time zero.
//
// priorOffset restores absolute time when the words are already
// expressed relative to an earlier trim: pass that window's start so
// two successive trims compose correctly. Pass 0 for untrimmed words.
//
// The surviving sequence is re-validated against the window duration
// before being returned, since clipping can shrink a word below the
// minimum-duration floor. Returns ErrEmptyResult when nothing
// survives. Applying the identity window (0, duration) with a zero
// offset is a no-op.
func Reslice(words []Word, window TrimWindow, priorOffset float64, opts ValidateOptions) ([]Word, error) {
	out := make([]Word, 0, len(words))
	for _, w := range words {
		start := w.Start + priorOffset
		end := w.End + priorOffset
		if end <= window.Start || start >= window.End {
			continue
		}
		w.Start = math.Max(start, window.Start) - window.Start
		w.End = math.Min(end, window.End) - window.Start
		if w.End <= w.Start {
			continue
		}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, ErrEmptyResult
	}

	opts.TotalDuration = window.Duration()
	return Validate(out, opts)
}
