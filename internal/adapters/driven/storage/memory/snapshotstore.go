package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory implementation of driven.SnapshotStore.
type SnapshotStore struct {
	mu    sync.RWMutex
	snaps map[string]domain.IndexSnapshot // keyed by hash
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snaps: make(map[string]domain.IndexSnapshot),
	}
}

// Save stores a snapshot, updating generation and build time when the
// hash already exists.
func (s *SnapshotStore) Save(_ context.Context, snap *domain.IndexSnapshot) error {
	if snap == nil || snap.ID == "" || snap.Hash == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.snaps[snap.Hash]; ok {
		existing.Generation = snap.Generation
		existing.BuiltAt = snap.BuiltAt
		s.snaps[snap.Hash] = existing
		return nil
	}

	stored := *snap
	stored.Data = append([]byte(nil), snap.Data...)
	s.snaps[snap.Hash] = stored
	return nil
}

// Latest returns the most recently built snapshot.
func (s *SnapshotStore) Latest(_ context.Context) (*domain.IndexSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ordered := s.ordered()
	if len(ordered) == 0 {
		return nil, domain.ErrNotFound
	}
	latest := ordered[0]
	latest.Data = append([]byte(nil), latest.Data...)
	return &latest, nil
}

// List returns snapshot headers, newest first.
func (s *SnapshotStore) List(_ context.Context) ([]domain.IndexSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ordered := s.ordered()
	for i := range ordered {
		ordered[i].Data = nil
	}
	return ordered, nil
}

// Prune keeps the newest keep snapshots.
func (s *SnapshotStore) Prune(_ context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ordered := s.ordered()
	if len(ordered) <= keep {
		return 0, nil
	}
	for _, snap := range ordered[keep:] {
		delete(s.snaps, snap.Hash)
	}
	return len(ordered) - keep, nil
}

// ordered must be called with the lock held.
func (s *SnapshotStore) ordered() []domain.IndexSnapshot {
	out := make([]domain.IndexSnapshot, 0, len(s.snaps))
	for _, snap := range s.snaps {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BuiltAt.Equal(out[j].BuiltAt) {
			return out[i].BuiltAt.After(out[j].BuiltAt)
		}
		return out[i].Generation > out[j].Generation
	})
	return out
}
