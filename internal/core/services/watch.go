package services

import (
	"context"

	"github.com/custodia-labs/skillroute/internal/core/ports/driven"
	"github.com/custodia-labs/skillroute/internal/logger"
)

// Reloader rebuilds the corpus index.
type Reloader interface {
	Reload(ctx context.Context) error
}

// WatchLoop reloads the corpus for every change batch the watcher emits.
// Batches that arrive while a reload runs are picked up afterwards, so a
// burst of edits costs at most one extra rebuild. It returns when ctx is
// done or the watcher stops.
func WatchLoop(ctx context.Context, watcher driven.CorpusWatcher, reloader Reloader) error {
	changes, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}

	for change := range changes {
		logger.Info("corpus changed (%d paths), reloading", len(change.Paths))
		for _, p := range change.Paths {
			logger.Debug("  changed: %s", p)
		}
		if err := reloader.Reload(ctx); err != nil && !isCancellation(err) {
			logger.Warn("reload after corpus change failed: %v", err)
		}
	}
	return ctx.Err()
}
