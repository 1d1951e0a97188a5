package caption

import (
	"errors"
	"strings"
	"testing"
)

var testValidateOpts = ValidateOptions{MinWordDuration: 0.02}

func TestValidateSortsByStartTime(t *testing.T) {
	words := []Word{
		{ID: "c", Text: "third", Start: 4.0, End: 4.5},
		{ID: "a", Text: "first", Start: 0.0, End: 0.5},
		{ID: "b", Text: "second", Start: 1.0, End: 1.5},
	}

	sorted, err := Validate(words, testValidateOpts)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	wantOrder := []string{"a", "b", "c"}
	for i, id := range wantOrder {
		if sorted[i].ID != id {
			t.Errorf("position %d: expected word %q, got %q", i, id, sorted[i].ID)
		}
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	words := []Word{
		{ID: "b", Text: "two", Start: 1.0, End: 1.5},
		{ID: "a", Text: "one", Start: 0.0, End: 0.5},
	}

	once, err := Validate(words, testValidateOpts)
	if err != nil {
		t.Fatalf("first Validate returned error: %v", err)
	}
	twice, err := Validate(once, testValidateOpts)
	if err != nil {
		t.Fatalf("second Validate returned error: %v", err)
	}

	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("position %d changed on re-validation: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestValidateRejectsOverlap(t *testing.T) {
	words := []Word{
		{ID: "a", Text: "one", Start: 0.0, End: 1.0},
		{ID: "b", Text: "two", Start: 0.5, End: 1.5},
	}

	_, err := Validate(words, testValidateOpts)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Rule != RuleOverlap {
		t.Errorf("expected rule %q, got %q", RuleOverlap, verr.Rule)
	}
	if verr.Word.ID != "b" {
		t.Errorf("expected offending word b, got %q", verr.Word.ID)
	}
}

func TestValidateRejectsShortWordWithMillisecondDetail(t *testing.T) {
	words := []Word{
		{ID: "a", Text: "blip", Start: 1.0, End: 1.005},
	}

	_, err := Validate(words, testValidateOpts)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Rule != RuleTooShort {
		t.Errorf("expected rule %q, got %q", RuleTooShort, verr.Rule)
	}
	if !strings.Contains(verr.Error(), "5.0ms") {
		t.Errorf("expected duration in milliseconds in message, got %q", verr.Error())
	}
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name     string
		words    []Word
		opts     ValidateOptions
		wantRule Rule
	}{
		{
			name:     "negative start",
			words:    []Word{{Text: "x", Start: -0.5, End: 0.5}},
			opts:     testValidateOpts,
			wantRule: RuleNegativeTiming,
		},
		{
			name:     "zero duration with no floor configured",
			words:    []Word{{Text: "x", Start: 2.0, End: 2.0}},
			opts:     ValidateOptions{},
			wantRule: RuleZeroOrNegativeDuration,
		},
		{
			name:     "exceeds clip duration",
			words:    []Word{{Text: "x", Start: 0.0, End: 5.5}},
			opts:     ValidateOptions{MinWordDuration: 0.02, TotalDuration: 5.0},
			wantRule: RuleExceedsDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.words, tt.opts)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Rule != tt.wantRule {
				t.Errorf("expected rule %q, got %q", tt.wantRule, verr.Rule)
			}
		})
	}
}

func TestValidateAllowsEndWithinEpsilonOfDuration(t *testing.T) {
	words := []Word{{Text: "x", Start: 0.0, End: 5.0005}}
	opts := ValidateOptions{MinWordDuration: 0.02, TotalDuration: 5.0}

	if _, err := Validate(words, opts); err != nil {
		t.Errorf("expected epsilon tolerance past the clip end, got %v", err)
	}
}

func TestValidateDoesNotModifyInput(t *testing.T) {
	words := []Word{
		{ID: "b", Text: "two", Start: 1.0, End: 1.5},
		{ID: "a", Text: "one", Start: 0.0, End: 0.5},
	}

	if _, err := Validate(words, testValidateOpts); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if words[0].ID != "b" {
		t.Error("Validate reordered the caller's slice")
	}
}

func TestValidateEmptyInput(t *testing.T) {
	out, err := Validate(nil, testValidateOpts)
	if err != nil {
		t.Fatalf("Validate(nil) returned error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %d words", len(out))
	}
}
