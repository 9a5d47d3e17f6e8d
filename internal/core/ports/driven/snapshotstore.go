package driven

import (
	"context"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

// SnapshotStore persists serialised indexes.
// Backed by SQLite, so a restart can serve the last index before the
// first rebuild completes.
type SnapshotStore interface {
	// Save stores a snapshot. Saving a hash that already exists only
	// updates its generation and build time.
	Save(ctx context.Context, snap *domain.IndexSnapshot) error

	// Latest returns the most recently built snapshot.
	// Returns domain.ErrNotFound if the store is empty.
	Latest(ctx context.Context) (*domain.IndexSnapshot, error)

	// List returns snapshot headers (without Data), newest first.
	List(ctx context.Context) ([]domain.IndexSnapshot, error)

	// Prune removes all but the newest keep snapshots and returns the
	// number removed.
	Prune(ctx context.Context, keep int) (int, error)
}
