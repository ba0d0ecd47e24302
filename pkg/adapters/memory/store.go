package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/pathway/pkg/domain"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Snapshot),
	}
}

func copySnapshot(s *domain.Snapshot) *domain.Snapshot {
	c := *s
	c.Occupancy = make(map[string]int, len(s.Occupancy))
	for k, v := range s.Occupancy {
		c.Occupancy[k] = v
	}
	return &c
}

// Save persists the snapshot in memory.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	// Copy to ensure isolation, similar to serialization
	copied := copySnapshot(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[snap.RunID] = copied
	return nil
}

// Load retrieves the snapshot from memory.
func (s *Store) Load(ctx context.Context, runID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[runID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}

	// Copy on read so callers can't mutate store state through the pointer
	return copySnapshot(snap), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}

// List returns stored run IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]string, 0, len(s.data))
	for id := range s.data {
		runs = append(runs, id)
	}
	sort.Strings(runs)
	return runs, nil
}
