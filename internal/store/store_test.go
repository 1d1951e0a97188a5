package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmallik/capline/internal/caption"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), nil)
}

func TestChunksRoundTrip(t *testing.T) {
	s := newTestStore(t)
	id := s.NewOutputID()

	chunks := []caption.Chunk{
		{
			Text: "hello world", Start: 0.0, End: 1.2,
			Words: []caption.Word{
				{ID: "0-0", Text: "hello", Start: 0.0, End: 0.5},
				{ID: "0-1", Text: "world", Start: 0.6, End: 1.2},
			},
		},
	}

	if err := s.WriteChunks(id, chunks); err != nil {
		t.Fatalf("WriteChunks failed: %v", err)
	}
	loaded, err := s.LoadChunks(id)
	if err != nil {
		t.Fatalf("LoadChunks failed: %v", err)
	}
	if len(loaded) != 1 || len(loaded[0].Words) != 2 {
		t.Fatalf("unexpected payload shape: %+v", loaded)
	}
	if loaded[0].Words[0] != chunks[0].Words[0] {
		t.Errorf("word did not survive the round trip: %+v", loaded[0].Words[0])
	}
}

func TestLoadChunksMissingOutput(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LoadChunks("no-such-output")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadChunksCorruptReadsEmpty(t *testing.T) {
	s := newTestStore(t)
	id := s.NewOutputID()
	if err := os.MkdirAll(s.Dir(id), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(id), "chunks.json"), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	chunks, err := s.LoadChunks(id)
	if err != nil {
		t.Fatalf("corrupt payload should not fail the request: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("corrupt payload should read as empty, got %d chunks", len(chunks))
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	s := newTestStore(t)
	id := s.NewOutputID()

	meta := Metadata{
		AudioPath:     "/tmp/in.mp3",
		ContentHash:   "abc123",
		VideoDuration: 12.5,
		VideoTrim:     &caption.TrimWindow{Start: 2.0, End: 8.0},
		Font: FontRecord{
			Family: "DejaVu-Sans", Size: 70, Color: "white", Applied: "DejaVu-Sans",
		},
	}
	if err := s.WriteMetadata(id, meta); err != nil {
		t.Fatalf("WriteMetadata failed: %v", err)
	}

	loaded, err := s.LoadMetadata(id)
	if err != nil {
		t.Fatalf("LoadMetadata failed: %v", err)
	}
	if loaded.ContentHash != "abc123" || loaded.VideoTrim == nil || loaded.VideoTrim.Start != 2.0 {
		t.Errorf("metadata did not survive the round trip: %+v", loaded)
	}
}

func TestWriteTranscript(t *testing.T) {
	s := newTestStore(t)
	id := s.NewOutputID()

	chunks := []caption.Chunk{
		{Text: "line one"},
		{Text: "line two"},
	}
	if err := s.WriteTranscript(id, chunks); err != nil {
		t.Fatalf("WriteTranscript failed: %v", err)
	}

	data, err := os.ReadFile(s.TranscriptPath(id))
	if err != nil {
		t.Fatalf("failed to read transcript: %v", err)
	}
	if string(data) != "line one\nline two\n" {
		t.Errorf("unexpected transcript: %q", string(data))
	}
}

func TestHasRenderedOutput(t *testing.T) {
	s := newTestStore(t)
	id := s.NewOutputID()

	if s.HasRenderedOutput(id) {
		t.Error("fresh id should have no rendered assets")
	}

	if err := os.MkdirAll(s.Dir(id), 0755); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{s.VideoPath(id), s.TranscriptPath(id)} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if !s.HasRenderedOutput(id) {
		t.Error("expected rendered assets to be detected")
	}
}

func TestNewOutputIDShape(t *testing.T) {
	s := newTestStore(t)
	a, b := s.NewOutputID(), s.NewOutputID()
	if a == b {
		t.Error("output ids should be unique")
	}
	if len(a) != 32 {
		t.Errorf("expected a 32-char hex id, got %q", a)
	}
}

func TestListOutputs(t *testing.T) {
	s := newTestStore(t)
	if ids, err := s.ListOutputs(); err != nil || len(ids) != 0 {
		t.Fatalf("expected empty listing, got %v (%v)", ids, err)
	}

	id := s.NewOutputID()
	if err := s.WriteChunks(id, nil); err != nil {
		t.Fatal(err)
	}

	ids, err := s.ListOutputs()
	if err != nil {
		t.Fatalf("ListOutputs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != id {
		t.Errorf("expected [%s], got %v", id, ids)
	}
}
