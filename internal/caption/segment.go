package caption

import (
	"strings"
	"unicode/utf8"
)

// SegmentOptions control where chunk boundaries fall.
type SegmentOptions struct {
	GapThreshold     float64 // silence longer than this ends the chunk (strictly greater)
	MaxDuration      float64 // a chunk reaching this many seconds ends
	PreferredWords   int     // soft word cap
	MaxWords         int     // hard word cap (inclusive)
	BreakPunctuation string  // characters that end a chunk after at least two words
}

// Segment greedily partitions a validated, sorted word sequence into
// chunks. Every input word lands in exactly one chunk, in order; an
// empty input yields no chunks. Implemented as a fold that computes
// boundary indices first, then a pure mapping from runs to chunks.
func Segment(words []Word, opts SegmentOptions) []Chunk {
	bounds := boundaries(words, opts)
	chunks := make([]Chunk, 0, len(bounds))
	for i, start := range bounds {
		end := len(words)
		if i+1 < len(bounds) {
			end = bounds[i+1]
		}
		chunks = append(chunks, buildChunk(words[start:end]))
	}
	return chunks
}

// boundaries returns the start index of every chunk. The first run
// always starts at 0.
func boundaries(words []Word, opts SegmentOptions) []int {
	if len(words) == 0 {
		return nil
	}

	bounds := []int{0}
	runStart := 0
	for i := 1; i < len(words); i++ {
		if startsNewChunk(words, runStart, i, opts) {
			bounds = append(bounds, i)
			runStart = i
		}
	}
	return bounds
}

// startsNewChunk decides whether words[i] opens a new run given the
// current run words[runStart:i].
func startsNewChunk(words []Word, runStart, i int, opts SegmentOptions) bool {
	count := i - runStart
	last := words[i-1]

	// hard cap is inclusive: a full run never takes another word
	if opts.MaxWords > 0 && count >= opts.MaxWords {
		return true
	}
	// equality at the gap threshold keeps the words together
	if words[i].Start-last.End > opts.GapThreshold {
		return true
	}
	if opts.MaxDuration > 0 && last.End-words[runStart].Start >= opts.MaxDuration {
		return true
	}
	if opts.PreferredWords > 0 && count >= opts.PreferredWords {
		return true
	}
	if count >= 2 && endsWithBreak(last.Text, opts.BreakPunctuation) {
		return true
	}
	return false
}

func endsWithBreak(text, punctuation string) bool {
	if text == "" || punctuation == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(text)
	return strings.ContainsRune(punctuation, last)
}

// buildChunk derives the aggregate for one run. The run is never empty.
func buildChunk(run []Word) Chunk {
	texts := make([]string, len(run))
	end := run[0].End
	for i, w := range run {
		texts[i] = w.Text
		if w.End > end {
			end = w.End
		}
	}
	return Chunk{
		Text:  strings.Join(texts, " "),
		Start: run[0].Start,
		End:   end,
		Words: append([]Word(nil), run...),
	}
}
