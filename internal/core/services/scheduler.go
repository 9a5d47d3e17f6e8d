package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/core/ports/driven"
	"github.com/custodia-labs/skillroute/internal/core/ports/driving"
	"github.com/custodia-labs/skillroute/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// historyRetention is how many results are kept per task.
const historyRetention = 100

// Scheduler manages background task execution.
// It is a pure core service with no external control API.
type Scheduler struct {
	config    domain.SchedulerConfig
	store     driven.SchedulerStore
	corpus    driving.CorpusService
	snapshots driven.SnapshotStore
	keep      int
	tick      time.Duration

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	inFlight map[string]bool
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration. snapshots may be
// nil, in which case the prune task is a no-op.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	corpus driving.CorpusService,
	snapshots driven.SnapshotStore,
	keepSnapshots int,
) *Scheduler {
	return &Scheduler{
		config:    config,
		store:     store,
		corpus:    corpus,
		snapshots: snapshots,
		keep:      keepSnapshots,
		tick:      time.Minute,
		inFlight:  make(map[string]bool),
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or ctx is done, and returns once every running task has finished.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Warn("scheduler: failed to initialise tasks: %v", err)
	}

	err := s.run(ctx)
	s.wg.Wait()
	return err
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// initialiseTasks ensures all configured tasks exist in the store.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	tasks := []struct {
		id, name string
	}{
		{domain.TaskIDCorpusReload, "Corpus Reload"},
		{domain.TaskIDSnapshotPrune, "Snapshot Prune"},
	}
	for _, t := range tasks {
		cfg := s.config.GetTaskConfig(t.id)
		if !cfg.Enabled || cfg.Interval <= 0 {
			if err := s.disableTask(ctx, t.id); err != nil {
				return err
			}
			continue
		}
		if err := s.ensureTask(ctx, t.id, t.name, cfg); err != nil {
			return err
		}
	}
	return nil
}

// disableTask turns off a task left enabled by an earlier configuration.
func (s *Scheduler) disableTask(ctx context.Context, id string) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil || task == nil || !task.Enabled {
		return err
	}
	task.Enabled = false
	return s.store.SaveTask(ctx, task)
}

// ensureTask creates or updates a task in the store.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if task == nil {
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: cfg.Interval,
			Enabled:  cfg.Enabled,
			NextRun:  time.Now().Add(cfg.Interval),
		}
	} else {
		if task.Interval != cfg.Interval {
			task.Interval = cfg.Interval
			task.NextRun = time.Now().Add(cfg.Interval)
		}
		task.Enabled = cfg.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) error {
	s.checkAndRunDueTasks(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// checkAndRunDueTasks finds and executes tasks that are due.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Warn("scheduler: failed to list tasks: %v", err)
		return
	}

	now := time.Now()
	for i := range tasks {
		task := &tasks[i]
		if !task.Enabled {
			continue
		}
		if task.NextRun.IsZero() || !task.NextRun.After(now) {
			s.runTask(ctx, task)
		}
	}
}

// runTask executes a single task. A task that is still running is not
// started again.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	s.mu.Lock()
	if s.inFlight[task.ID] {
		s.mu.Unlock()
		logger.Debug("scheduler: task %s still running, skipping", task.ID)
		return
	}
	s.inFlight[task.ID] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inFlight, task.ID)
			s.mu.Unlock()
		}()

		result := &domain.TaskResult{
			TaskID:    task.ID,
			StartedAt: time.Now(),
		}

		var err error
		switch task.ID {
		case domain.TaskIDCorpusReload:
			result.ItemsProcessed, err = s.runCorpusReload(ctx)
		case domain.TaskIDSnapshotPrune:
			result.ItemsProcessed, err = s.runSnapshotPrune(ctx)
		default:
			logger.Warn("scheduler: unknown task ID: %s", task.ID)
			return
		}

		result.EndedAt = time.Now()
		if err != nil {
			result.Success = false
			result.Error = err.Error()
			task.LastError = err.Error()
		} else {
			result.Success = true
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		}

		task.LastRun = result.StartedAt
		task.NextRun = result.EndedAt.Add(task.Interval)

		if saveErr := s.store.SaveTask(ctx, task); saveErr != nil {
			logger.Warn("scheduler: failed to save task %s: %v", task.ID, saveErr)
		}
		if recordErr := s.store.RecordResult(ctx, result); recordErr != nil {
			logger.Warn("scheduler: failed to record result for %s: %v", task.ID, recordErr)
		}
		if pruneErr := s.store.PruneHistory(ctx, historyRetention); pruneErr != nil {
			logger.Warn("scheduler: failed to prune history: %v", pruneErr)
		}
	}()
}

// runCorpusReload rebuilds the index and reports the document count.
func (s *Scheduler) runCorpusReload(ctx context.Context) (int, error) {
	if s.corpus == nil {
		return 0, nil
	}
	if err := s.corpus.Reload(ctx); err != nil {
		return 0, err
	}
	return s.corpus.Status().Documents, nil
}

// runSnapshotPrune removes persisted snapshots beyond the retention count.
func (s *Scheduler) runSnapshotPrune(ctx context.Context) (int, error) {
	if s.snapshots == nil || s.keep <= 0 {
		return 0, nil
	}
	return s.snapshots.Prune(ctx, s.keep)
}
