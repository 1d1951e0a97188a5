package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmallik/capline/internal/caption"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// implements Transcriber using the OpenAI Audio API with word-level
// timestamp granularity
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

// word from the Whisper verbose_json response
type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// segment from the Whisper verbose_json response
type whisperSegment struct {
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Text  string        `json:"text"`
	Words []whisperWord `json:"words"`
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Words    []whisperWord    `json:"words"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewOpenAITranscriber(ctx context.Context, apiKey string, opts Options) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAITranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes a single audio file with per-word timestamps
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word", "segment"},
	}
	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}
	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	result, err := parseVerboseJSONWords(resp.RawJSON())
	if err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}
	if result.Language == "" {
		result.Language = t.options.Language
	}
	return result, nil
}

// parseVerboseJSONWords extracts word-level timestamps. Segment-scoped
// words are preferred; Whisper also reports a flat top-level word list
// when only word granularity was honored, which becomes one segment.
func parseVerboseJSONWords(rawJSON string) (*Result, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var resp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &resp); err != nil {
		return nil, err
	}

	var segments []caption.TranscriptSegment
	for _, seg := range resp.Segments {
		if len(seg.Words) == 0 {
			continue
		}
		segments = append(segments, caption.TranscriptSegment{
			Words: convertWhisperWords(seg.Words),
		})
	}
	if len(segments) == 0 && len(resp.Words) > 0 {
		segments = []caption.TranscriptSegment{
			{Words: convertWhisperWords(resp.Words)},
		}
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("response carries no word timestamps")
	}

	return &Result{
		Segments: segments,
		Language: resp.Language,
		Duration: resp.Duration,
	}, nil
}

func convertWhisperWords(words []whisperWord) []caption.TranscriptWord {
	out := make([]caption.TranscriptWord, len(words))
	for i, w := range words {
		out[i] = caption.TranscriptWord{
			Text:  w.Word,
			Start: w.Start,
			End:   w.End,
		}
	}
	return out
}
