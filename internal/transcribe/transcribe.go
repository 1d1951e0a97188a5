package transcribe

import (
	"context"
	"fmt"

	"github.com/jmallik/capline/internal/caption"
)

// Result is the raw speech-to-text output: ordered segments of
// word-level timestamps. Times are floating-point seconds. The engine
// treats this as opaque input; validation happens downstream.
type Result struct {
	Segments []caption.TranscriptSegment
	Language string
	Duration float64
}

// interface for the speech-to-text collaborator
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// transcription service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// transcription options
type Options struct {
	Language string // source language of the audio
	Model    string
	Prompt   string
}

// creates a transcriber based on provider
func Factory(ctx context.Context, provider Provider, apiKey string, opts Options) (Transcriber, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
