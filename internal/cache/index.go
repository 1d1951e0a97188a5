package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmallik/capline/internal/logging"
)

// Index is the durable cache index: a flat JSON document mapping
// derived keys to opaque output identifiers. The whole document is
// loaded per access and read-modify-write is serialized internally;
// callers never touch a lock. Entries are only ever added — a changed
// trim or style derives a new key.
type Index struct {
	path string
	log  *logging.Logger
	mu   sync.Mutex
}

func NewIndex(path string, log *logging.Logger) *Index {
	if log == nil {
		log = logging.NewNop()
	}
	return &Index{path: path, log: log}
}

// Get returns the output id stored under key, if any.
func (ix *Index) Get(key string) (string, bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	entries := ix.load()
	id, ok := entries[key]
	return id, ok
}

// Set records an output id under key. Concurrent writers of the same
// key are acceptable; the last write wins.
func (ix *Index) Set(key, outputID string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	entries := ix.load()
	entries[key] = outputID
	return ix.write(entries)
}

// Entries returns a copy of the whole index, for listings.
func (ix *Index) Entries() map[string]string {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	entries := ix.load()
	out := make(map[string]string, len(entries))
	for k, v := range entries {
		out[k] = v
	}
	return out
}

// load reads the index document. A missing file is an empty index; a
// corrupt one is reset to empty with a warning, never a failure.
func (ix *Index) load() map[string]string {
	data, err := os.ReadFile(ix.path)
	if err != nil {
		if !os.IsNotExist(err) {
			ix.log.Warnw("cache index unreadable, treating as empty",
				"path", ix.path, "error", err)
		}
		return map[string]string{}
	}

	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		ix.log.Warnw("cache index corrupted, resetting",
			"path", ix.path, "error", err)
		return map[string]string{}
	}
	return entries
}

func (ix *Index) write(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(ix.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache index directory: %w", err)
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode cache index: %w", err)
	}
	if err := os.WriteFile(ix.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache index: %w", err)
	}
	return nil
}
