package audio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMediaTypeChecks(t *testing.T) {
	tests := []struct {
		path    string
		isAudio bool
		isVideo bool
	}{
		{"song.mp3", true, false},
		{"SONG.WAV", true, false},
		{"clip.mp4", false, true},
		{"clip.webm", false, true},
		{"notes.txt", false, false},
		{"archive.zip", false, false},
	}

	for _, tt := range tests {
		if got := IsAudioFile(tt.path); got != tt.isAudio {
			t.Errorf("IsAudioFile(%q) = %v, want %v", tt.path, got, tt.isAudio)
		}
		if got := IsVideoFile(tt.path); got != tt.isVideo {
			t.Errorf("IsVideoFile(%q) = %v, want %v", tt.path, got, tt.isVideo)
		}
		if got := IsMediaFile(tt.path); got != (tt.isAudio || tt.isVideo) {
			t.Errorf("IsMediaFile(%q) = %v", tt.path, got)
		}
	}
}

func TestHashFileIsContentAddressed(t *testing.T) {
	dir := t.TempDir()

	pathA := filepath.Join(dir, "a.mp3")
	pathB := filepath.Join(dir, "b.mp3")
	pathC := filepath.Join(dir, "c.mp3")
	if err := os.WriteFile(pathA, []byte("same bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pathB, []byte("same bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pathC, []byte("other bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	hashA, err := HashFile(pathA)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	hashB, _ := HashFile(pathB)
	hashC, _ := HashFile(pathC)

	if hashA != hashB {
		t.Error("identical content under different names should hash the same")
	}
	if hashA == hashC {
		t.Error("different content should not collide")
	}
	if len(hashA) != 64 {
		t.Errorf("expected a sha256 hex digest, got %d chars", len(hashA))
	}
}

func TestHashFileMissing(t *testing.T) {
	if _, err := HashFile(filepath.Join(t.TempDir(), "absent.mp3")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
