package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSchedulerConfig(t *testing.T) {
	config := DefaultSchedulerConfig()

	assert.False(t, config.Enabled)
	assert.Len(t, config.TaskConfigs, 2)

	reloadCfg := config.TaskConfigs[TaskIDCorpusReload]
	assert.True(t, reloadCfg.Enabled)
	assert.Equal(t, 1*time.Hour, reloadCfg.Interval)

	pruneCfg := config.TaskConfigs[TaskIDSnapshotPrune]
	assert.True(t, pruneCfg.Enabled)
	assert.Equal(t, 6*time.Hour, pruneCfg.Interval)
}

func TestSchedulerConfig_GetTaskConfig(t *testing.T) {
	config := DefaultSchedulerConfig()

	reloadCfg := config.GetTaskConfig(TaskIDCorpusReload)
	assert.True(t, reloadCfg.Enabled)

	unknownCfg := config.GetTaskConfig("unknown-task")
	assert.False(t, unknownCfg.Enabled)
	assert.Equal(t, time.Duration(0), unknownCfg.Interval)
}

func TestSchedulerConfig_GetTaskConfig_NilMap(t *testing.T) {
	config := SchedulerConfig{Enabled: true}

	cfg := config.GetTaskConfig("any-task")
	assert.False(t, cfg.Enabled)
	assert.Equal(t, time.Duration(0), cfg.Interval)
}

func TestTaskConstants(t *testing.T) {
	assert.Equal(t, "corpus-reload", TaskIDCorpusReload)
	assert.Equal(t, "snapshot-prune", TaskIDSnapshotPrune)
}
