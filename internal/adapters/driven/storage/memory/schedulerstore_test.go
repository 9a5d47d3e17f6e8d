package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

func TestSchedulerStore_Tasks(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()

	got, err := store.GetTask(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: "b", Interval: time.Minute}))
	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: "a", Interval: time.Hour, Enabled: true}))

	got, err = store.GetTask(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, got.Interval)
	assert.True(t, got.Enabled)

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)

	require.NoError(t, store.DeleteTask(ctx, "a"))
	tasks, err = store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	assert.ErrorIs(t, store.SaveTask(ctx, nil), domain.ErrInvalidInput)
}

func TestSchedulerStore_History(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, store.RecordResult(ctx, &domain.TaskResult{TaskID: "t", ItemsProcessed: i}))
	}

	history, err := store.GetTaskHistory(ctx, "t", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 3, history[0].ItemsProcessed)
	assert.Equal(t, 2, history[1].ItemsProcessed)

	require.NoError(t, store.PruneHistory(ctx, 1))
	history, err = store.GetTaskHistory(ctx, "t", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 3, history[0].ItemsProcessed)
}
