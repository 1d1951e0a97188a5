package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jmallik/capline/internal/caption"
	"github.com/jmallik/capline/internal/logging"
)

const (
	chunksFileName     = "chunks.json"
	metadataFileName   = "metadata.json"
	transcriptFileName = "captions.txt"
	videoFileName      = "captions.mp4"
)

// Metadata is the record persisted alongside each rendered output.
type Metadata struct {
	AudioPath     string              `json:"audio_path"`
	ContentHash   string              `json:"content_hash"`
	VideoDuration float64             `json:"video_duration"`
	VideoTrim     *caption.TrimWindow `json:"video_trim,omitempty"`
	Font          FontRecord          `json:"font"`
}

// FontRecord captures both the requested style and the font the
// renderer actually applied.
type FontRecord struct {
	Family  string  `json:"family"`
	Size    float64 `json:"size"`
	Color   string  `json:"color"`
	Weight  string  `json:"weight,omitempty"`
	Path    string  `json:"path,omitempty"`
	Applied string  `json:"applied"`
}

// Store manages the per-output directories under the output root. Each
// output holds the rendered video, the chunk payload, a plain-text
// transcript and the metadata record.
type Store struct {
	root string
	log  *logging.Logger
}

func NewStore(root string, log *logging.Logger) *Store {
	if log == nil {
		log = logging.NewNop()
	}
	return &Store{root: root, log: log}
}

func (s *Store) Root() string {
	return s.root
}

// NewOutputID mints an opaque identifier for a fresh output.
func (s *Store) NewOutputID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *Store) Dir(outputID string) string {
	return filepath.Join(s.root, outputID)
}

func (s *Store) VideoPath(outputID string) string {
	return filepath.Join(s.Dir(outputID), videoFileName)
}

func (s *Store) TranscriptPath(outputID string) string {
	return filepath.Join(s.Dir(outputID), transcriptFileName)
}

// HasRenderedOutput reports whether the output's assets are actually
// on disk, guarding against stale cache index entries.
func (s *Store) HasRenderedOutput(outputID string) bool {
	for _, path := range []string{s.VideoPath(outputID), s.TranscriptPath(outputID)} {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

// ListOutputs returns the ids of all persisted outputs.
func (s *Store) ListOutputs() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read output root: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	return ids, nil
}

// WriteChunks persists the chunk payload for an output.
func (s *Store) WriteChunks(outputID string, chunks []caption.Chunk) error {
	return s.writeJSON(outputID, chunksFileName, chunks)
}

// LoadChunks reads the chunk payload back. A missing file returns
// os.ErrNotExist; a corrupt one reads as empty with a warning.
func (s *Store) LoadChunks(outputID string) ([]caption.Chunk, error) {
	path := filepath.Join(s.Dir(outputID), chunksFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var chunks []caption.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		s.log.Warnw("chunk payload corrupted, treating as empty",
			"output_id", outputID, "error", err)
		return nil, nil
	}
	return chunks, nil
}

// WriteMetadata persists the metadata record for an output.
func (s *Store) WriteMetadata(outputID string, meta Metadata) error {
	return s.writeJSON(outputID, metadataFileName, meta)
}

// LoadMetadata reads the metadata record. A missing file returns
// os.ErrNotExist; a corrupt one reads as a zero record with a warning.
func (s *Store) LoadMetadata(outputID string) (*Metadata, error) {
	path := filepath.Join(s.Dir(outputID), metadataFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		s.log.Warnw("metadata record corrupted, treating as empty",
			"output_id", outputID, "error", err)
		return &Metadata{}, nil
	}
	return &meta, nil
}

// WriteTranscript writes the plain-text transcript: one chunk per line.
func (s *Store) WriteTranscript(outputID string, chunks []caption.Chunk) error {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Text)
		sb.WriteString("\n")
	}

	path := s.TranscriptPath(outputID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}

func (s *Store) writeJSON(outputID, name string, v interface{}) error {
	dir := s.Dir(outputID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
