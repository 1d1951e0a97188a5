package cache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestIndexRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache_index.json")
	ix := NewIndex(path, nil)

	if _, ok := ix.Get("missing"); ok {
		t.Error("empty index returned a hit")
	}

	if err := ix.Set("keyA", "output-1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, ok := ix.Get("keyA"); !ok || got != "output-1" {
		t.Errorf("expected output-1, got %q (hit=%v)", got, ok)
	}

	// a second index over the same file sees the durable state
	again := NewIndex(path, nil)
	if got, ok := again.Get("keyA"); !ok || got != "output-1" {
		t.Errorf("reloaded index: expected output-1, got %q (hit=%v)", got, ok)
	}
}

func TestIndexCorruptFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache_index.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write corrupt index: %v", err)
	}

	ix := NewIndex(path, nil)
	if _, ok := ix.Get("anything"); ok {
		t.Error("corrupt index should read as empty")
	}
	if err := ix.Set("keyA", "output-1"); err != nil {
		t.Fatalf("Set over corrupt index failed: %v", err)
	}
	if got, ok := ix.Get("keyA"); !ok || got != "output-1" {
		t.Errorf("expected recovery after corrupt read, got %q (hit=%v)", got, ok)
	}
}

func TestIndexConcurrentWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache_index.json")
	ix := NewIndex(path, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// all writers race on the same key; any one may win
			if err := ix.Set("contested", "winner"); err != nil {
				t.Errorf("Set failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got, ok := ix.Get("contested"); !ok || got != "winner" {
		t.Errorf("expected winner after concurrent writes, got %q (hit=%v)", got, ok)
	}
}

func TestIndexEntriesIsACopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache_index.json")
	ix := NewIndex(path, nil)
	if err := ix.Set("keyA", "output-1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entries := ix.Entries()
	entries["keyA"] = "tampered"

	if got, _ := ix.Get("keyA"); got != "output-1" {
		t.Errorf("mutating the snapshot leaked into the index: %q", got)
	}
}
