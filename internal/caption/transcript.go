package caption

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TranscriptWord is the raw word shape produced by the speech-to-text
// collaborator, before validation.
type TranscriptWord struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TranscriptSegment is one recognizer segment holding zero or more words.
type TranscriptSegment struct {
	Words []TranscriptWord `json:"words"`
}

// ExtractWords flattens recognizer segments into Words, discarding
// empty or whitespace-only tokens. Ids are deterministic
// "<segment>-<index>" so the same transcript always yields the same
// ids.
func ExtractWords(segments []TranscriptSegment) []Word {
	var words []Word
	for segIdx, segment := range segments {
		for wordIdx, tw := range segment.Words {
			text := strings.TrimSpace(tw.Text)
			if text == "" {
				continue
			}
			words = append(words, Word{
				ID:    fmt.Sprintf("%d-%d", segIdx, wordIdx),
				Text:  text,
				Start: tw.Start,
				End:   tw.End,
			})
		}
	}
	return words
}

// EnsureIDs fills in ids for re-imported words that lack one. A fresh
// random suffix is assigned per word, so re-running an update on the
// same payload regenerates ids (existing ids are kept untouched).
func EnsureIDs(words []Word) []Word {
	out := make([]Word, len(words))
	copy(out, words)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = "w-" + uuid.NewString()[:8]
		}
	}
	return out
}
