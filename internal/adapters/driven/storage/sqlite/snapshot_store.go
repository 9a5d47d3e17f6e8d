package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/core/ports/driven"
)

// snapshotStore implements driven.SnapshotStore.
type snapshotStore struct {
	store *Store
}

var _ driven.SnapshotStore = (*snapshotStore)(nil)

// Save stores a snapshot. An existing row with the same hash keeps its
// id and data; only its generation and build time move forward.
func (s *snapshotStore) Save(ctx context.Context, snap *domain.IndexSnapshot) error {
	if snap == nil || snap.ID == "" || snap.Hash == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO index_snapshots (id, hash, generation, documents, built_at, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
			generation = excluded.generation,
			built_at = excluded.built_at
	`, snap.ID, snap.Hash, int64(snap.Generation), snap.Documents,
		formatTime(snap.BuiltAt), snap.Data)
	if err != nil {
		return fmt.Errorf("saving index snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recently built snapshot, data included.
func (s *snapshotStore) Latest(ctx context.Context) (*domain.IndexSnapshot, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, hash, generation, documents, built_at, data
		FROM index_snapshots
		ORDER BY built_at DESC, generation DESC
		LIMIT 1
	`)

	var (
		snap       domain.IndexSnapshot
		generation int64
		builtAt    string
	)
	err := row.Scan(&snap.ID, &snap.Hash, &generation, &snap.Documents, &builtAt, &snap.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning index snapshot: %w", err)
	}
	snap.Generation = uint64(generation)
	snap.BuiltAt = parseTime(builtAt)
	return &snap, nil
}

// List returns snapshot headers, newest first.
func (s *snapshotStore) List(ctx context.Context) ([]domain.IndexSnapshot, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, hash, generation, documents, built_at
		FROM index_snapshots
		ORDER BY built_at DESC, generation DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying index snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []domain.IndexSnapshot //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			snap       domain.IndexSnapshot
			generation int64
			builtAt    string
		)
		if err := rows.Scan(&snap.ID, &snap.Hash, &generation, &snap.Documents, &builtAt); err != nil {
			return nil, fmt.Errorf("scanning index snapshot: %w", err)
		}
		snap.Generation = uint64(generation)
		snap.BuiltAt = parseTime(builtAt)
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating index snapshots: %w", err)
	}
	return snaps, nil
}

// Prune keeps the newest keep snapshots and deletes the rest.
func (s *snapshotStore) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, domain.ErrInvalidInput
	}

	res, err := s.store.db.ExecContext(ctx, `
		DELETE FROM index_snapshots
		WHERE id NOT IN (
			SELECT id FROM index_snapshots
			ORDER BY built_at DESC, generation DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning index snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning index snapshots: %w", err)
	}
	return int(n), nil
}

// formatTime stores times as fixed-width UTC strings so they sort
// lexically in the same order as chronologically.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
