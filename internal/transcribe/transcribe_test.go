package transcribe

import (
	"context"
	"testing"
)

func TestFactoryReturnsOpenAITranscriber(t *testing.T) {
	ctx := context.Background()
	tr, err := Factory(ctx, ProviderOpenAI, "fake-key", Options{})
	if err != nil {
		t.Fatalf("Factory(ProviderOpenAI) returned error: %v", err)
	}
	if _, ok := tr.(*OpenAITranscriber); !ok {
		t.Errorf("expected *OpenAITranscriber, got %T", tr)
	}
}

func TestFactoryReturnsGeminiTranscriber(t *testing.T) {
	ctx := context.Background()
	tr, err := Factory(ctx, ProviderGemini, "fake-key", Options{})
	if err != nil {
		t.Fatalf("Factory(ProviderGemini) returned error: %v", err)
	}
	if _, ok := tr.(*GeminiTranscriber); !ok {
		t.Errorf("expected *GeminiTranscriber, got %T", tr)
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	ctx := context.Background()
	if _, err := Factory(ctx, Provider("unknown"), "fake-key", Options{}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestOpenAITranscriberRequiresAPIKey(t *testing.T) {
	ctx := context.Background()
	if _, err := NewOpenAITranscriber(ctx, "", Options{}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestParseVerboseJSONWords(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantWords int
		wantErr   bool
	}{
		{
			name: "segment scoped words",
			input: `{"language": "en", "duration": 2.0, "segments": [
				{"start": 0, "end": 1, "text": "hello world", "words": [
					{"word": "hello", "start": 0.0, "end": 0.4},
					{"word": "world", "start": 0.5, "end": 0.9}
				]}
			]}`,
			wantWords: 2,
		},
		{
			name: "top level words only",
			input: `{"language": "en", "words": [
				{"word": "hello", "start": 0.0, "end": 0.4}
			]}`,
			wantWords: 1,
		},
		{
			name:    "no word timestamps",
			input:   `{"text": "hello world", "segments": [{"start": 0, "end": 1, "text": "hello world"}]}`,
			wantErr: true,
		},
		{
			name:    "empty response",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVerboseJSONWords(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			total := 0
			for _, seg := range result.Segments {
				total += len(seg.Words)
			}
			if total != tt.wantWords {
				t.Errorf("expected %d words, got %d", tt.wantWords, total)
			}
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	input := "```json\n[{\"word\": \"hi\", \"start\": 0, \"end\": 0.3}]\n```"
	cleaned := cleanJSONResponse(input)
	if cleaned != `[{"word": "hi", "start": 0, "end": 0.3}]` {
		t.Errorf("unexpected cleaned response: %q", cleaned)
	}
}
