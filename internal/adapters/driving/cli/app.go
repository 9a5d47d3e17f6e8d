package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/custodia-labs/skillroute/internal/adapters/driven/config/file"
	"github.com/custodia-labs/skillroute/internal/adapters/driven/metrics"
	"github.com/custodia-labs/skillroute/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/skillroute/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/skillroute/internal/connectors/filesystem"
	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/core/ports/driven"
	"github.com/custodia-labs/skillroute/internal/core/services"
	"github.com/custodia-labs/skillroute/internal/index"
	"github.com/custodia-labs/skillroute/internal/loader/markdown"
	"github.com/custodia-labs/skillroute/internal/logger"
	"github.com/custodia-labs/skillroute/internal/validator"
)

// application is the wired service graph for one command invocation.
type application struct {
	settings  *domain.AppSettings
	connector *filesystem.Connector
	corpus    *services.CorpusService
	router    *services.RouterService
	registry  *prometheus.Registry
	recorder  *metrics.Recorder
	snapshots driven.SnapshotStore
	tasks     driven.SchedulerStore
	persisted bool
	closers   []func() error
}

// newSettingsService opens the config store selected by --config-dir.
func newSettingsService() (*services.SettingsService, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	return services.NewSettingsService(store), nil
}

// newApplication resolves settings and wires the corpus and router.
func newApplication() (*application, error) {
	settingsService, err := newSettingsService()
	if err != nil {
		return nil, err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if corpusRoot != "" {
		settings.Corpus.Root = corpusRoot
	}
	root, err := settings.Corpus.AbsRoot()
	if err != nil {
		return nil, fmt.Errorf("resolving corpus root: %w", err)
	}
	settings.Corpus.Root = root

	app := &application{
		settings: settings,
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.recorder = metrics.NewRecorder(app.registry)

	if err := app.openStores(); err != nil {
		return nil, err
	}

	app.connector = filesystem.New(root, filesystem.WithDebounce(settings.Watch.Debounce))
	app.closers = append(app.closers, app.connector.Close)

	check := validator.New(settings.Vocabulary.DomainAliases)
	app.corpus = services.NewCorpusService(
		app.connector,
		markdown.New(markdown.WithSeparator(settings.Corpus.Separator)),
		check,
		index.Builder{},
		services.WithSnapshotStore(app.snapshots),
		services.WithMetrics(app.recorder),
		services.WithWorkers(settings.Corpus.Workers),
	)
	app.closers = append(app.closers, app.corpus.Close)
	app.router = services.NewRouterService(app.corpus, check, app.recorder)

	logger.Debug("corpus root %s (persist=%t)", root, app.persisted)
	return app, nil
}

func (a *application) openStores() error {
	if ephemeral || !a.settings.Storage.Persist {
		a.snapshots = memory.NewSnapshotStore()
		a.tasks = memory.NewSchedulerStore()
		return nil
	}

	store, err := sqlite.NewStore(a.settings.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening snapshot store: %w", err)
	}
	a.snapshots = store.SnapshotStore()
	a.tasks = store.SchedulerStore()
	a.persisted = true
	a.closers = append(a.closers, store.Close)
	return nil
}

// restore publishes the last persisted snapshot when there is one.
func (a *application) restore(ctx context.Context) {
	if !a.persisted {
		return
	}
	err := a.corpus.Restore(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("no persisted snapshot to restore")
	default:
		logger.Warn("restoring snapshot: %v", err)
	}
}

// Close releases stores and stops background work, newest first.
func (a *application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
