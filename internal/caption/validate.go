package caption

import (
	"fmt"
	"sort"
)

// Rule identifies which validation check a word failed.
type Rule string

const (
	RuleNegativeTiming         Rule = "negative_timing"
	RuleTooShort               Rule = "too_short"
	RuleZeroOrNegativeDuration Rule = "zero_or_negative_duration"
	RuleOverlap                Rule = "overlap"
	RuleExceedsDuration        Rule = "exceeds_duration"
)

// ValidationError reports the first word that violated a rule. The
// whole batch is rejected; nothing is dropped or auto-corrected, so
// upstream transcription bugs stay visible.
type ValidationError struct {
	Rule   Rule
	Index  int
	Word   Word
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("word %d (%q): %s: %s", e.Index, e.Word.Text, e.Rule, e.Detail)
}

// ValidateOptions bound the checks. TotalDuration of zero disables the
// upper-bound rule.
type ValidateOptions struct {
	MinWordDuration float64 // seconds, physical floor for a spoken word
	TotalDuration   float64 // seconds, 0 = unbounded
}

// tolerance for words that end a hair past the clip duration
const durationEpsilon = 0.001

// Validate sorts the words by (start, end) and checks each against the
// timing rules, carrying the previous word's end forward. It returns
// the sorted sequence or the first violation. The input slice is not
// modified. Validating its own output is a no-op.
func Validate(words []Word, opts ValidateOptions) ([]Word, error) {
	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	previousEnd := 0.0
	for i, w := range sorted {
		if w.Start < 0 || w.End < 0 {
			return nil, &ValidationError{
				Rule: RuleNegativeTiming, Index: i, Word: w,
				Detail: fmt.Sprintf("start=%.3fs end=%.3fs", w.Start, w.End),
			}
		}
		if w.Duration() < opts.MinWordDuration {
			return nil, &ValidationError{
				Rule: RuleTooShort, Index: i, Word: w,
				Detail: fmt.Sprintf("duration %.1fms is below the %.1fms floor",
					w.Duration()*1000, opts.MinWordDuration*1000),
			}
		}
		if w.End <= w.Start {
			return nil, &ValidationError{
				Rule: RuleZeroOrNegativeDuration, Index: i, Word: w,
				Detail: fmt.Sprintf("start=%.3fs end=%.3fs", w.Start, w.End),
			}
		}
		if i > 0 && w.Start < previousEnd {
			return nil, &ValidationError{
				Rule: RuleOverlap, Index: i, Word: w,
				Detail: fmt.Sprintf("starts at %.3fs before the previous word ends at %.3fs",
					w.Start, previousEnd),
			}
		}
		if opts.TotalDuration > 0 && w.End > opts.TotalDuration+durationEpsilon {
			return nil, &ValidationError{
				Rule: RuleExceedsDuration, Index: i, Word: w,
				Detail: fmt.Sprintf("ends at %.3fs past the %.3fs clip duration",
					w.End, opts.TotalDuration),
			}
		}
		previousEnd = w.End
	}

	return sorted, nil
}
