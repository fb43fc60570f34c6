package tournament

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cardroom/holdem/internal/fileutil"
)

// FileStore persists the latest snapshot as pretty-printed JSON at a fixed
// path, each save replacing the last. Writes go through a temp file and a
// rename, so the file always holds one complete snapshot.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates the file's directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating snapshot dir: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// SaveTournament implements Store.
func (s *FileStore) SaveTournament(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fileutil.WriteAtomic(s.path, data, 0o644)
}

// Load reads back the last saved snapshot.
func (s *FileStore) Load() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}
