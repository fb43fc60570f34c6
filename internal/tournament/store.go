package tournament

import (
	"sync"
	"time"
)

// Snapshot is the durable view of a tournament, captured between hands.
type Snapshot struct {
	ID          string
	Status      Status
	Level       int // 1-based rung
	HandsPlayed int
	Players     []PlayerState
	Standings   []Standing // populated once finished
	SavedAt     time.Time
}

// PlayerState is one entrant's position within a snapshot.
type PlayerState struct {
	PlayerID   string
	Chips      int
	Eliminated bool
}

// Store persists tournament snapshots. A snapshot is saved after every hand
// and at completion; tables finish hands concurrently, so implementations
// must tolerate concurrent calls. Save failures are logged, never fatal.
type Store interface {
	SaveTournament(snap Snapshot) error
}

// NopStore discards snapshots. It is the default.
type NopStore struct{}

// SaveTournament implements Store.
func (NopStore) SaveTournament(Snapshot) error { return nil }

// MemoryStore retains every snapshot in memory, oldest first.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveTournament implements Store.
func (s *MemoryStore) SaveTournament(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snap)
	return nil
}

// Latest returns the most recent snapshot, if any.
func (s *MemoryStore) Latest() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.snapshots) == 0 {
		return Snapshot{}, false
	}
	return s.snapshots[len(s.snapshots)-1], true
}

// Len reports how many snapshots have been saved.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}
