package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

func TestSnapshotStore_LatestEmpty(t *testing.T) {
	store := NewSnapshotStore()

	_, err := store.Latest(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotStore_SaveLatestList(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	data := []byte("index-one")
	require.NoError(t, store.Save(ctx, &domain.IndexSnapshot{ID: "s1", Hash: "h1", Generation: 1, BuiltAt: base, Data: data}))
	require.NoError(t, store.Save(ctx, &domain.IndexSnapshot{ID: "s2", Hash: "h2", Generation: 2, BuiltAt: base.Add(time.Second), Data: []byte("index-two")}))

	data[0] = 'X'

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s2", latest.ID)
	assert.Equal(t, "index-two", string(latest.Data))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s1", list[1].ID)
	assert.Nil(t, list[1].Data)

	require.NoError(t, store.Save(ctx, &domain.IndexSnapshot{ID: "s3", Hash: "h1", Generation: 3, BuiltAt: base.Add(time.Minute)}))
	latest, err = store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s1", latest.ID)
	assert.Equal(t, uint64(3), latest.Generation)
	assert.Equal(t, "index-one", string(latest.Data))
}

func TestSnapshotStore_Prune(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, hash := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, &domain.IndexSnapshot{
			ID: "id-" + hash, Hash: hash, Generation: uint64(i + 1), BuiltAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	removed, err := store.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c", list[0].Hash)

	_, err = store.Prune(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(ctx, nil), domain.ErrInvalidInput)
}
