package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/core/ports/driven"
	"github.com/custodia-labs/skillroute/internal/core/ports/driving"
	"github.com/custodia-labs/skillroute/internal/logger"
)

// Ensure CorpusService implements the interfaces.
var (
	_ driving.CorpusService = (*CorpusService)(nil)
	_ IndexProvider         = (*CorpusService)(nil)
)

// DefaultWorkers is the number of files loaded in parallel when no
// worker count is configured.
const DefaultWorkers = 4

// reloadKey is the single-flight key shared by every rebuild.
const reloadKey = "reload"

// maxReloadJoins bounds how often a caller re-joins after a rebuild it
// did not start was cancelled.
const maxReloadJoins = 3

// snapshot is one published index with the results of its build.
type snapshot struct {
	index      driven.Index
	generation uint64
	builtAt    time.Time
	warnings   []domain.Warning
	shadowed   int

	// stale is set when the index was restored from the store or a later
	// rebuild failed.
	stale atomic.Bool
}

// fileResult is the outcome of loading one file. Each worker writes only
// its own slot.
type fileResult struct {
	docs    []domain.Document
	loadErr error
	readErr error
}

// CorpusService loads the corpus, builds the index and publishes it.
//
// Rebuilds are coalesced: while one is in flight, further Reload calls
// wait for it and share its result. The published snapshot is swapped
// with a single atomic store, so readers never observe a partial index.
type CorpusService struct {
	source    driven.CorpusSource
	loader    driven.DocumentLoader
	validator driven.MetadataValidator
	builder   driven.IndexBuilder
	snapshots driven.SnapshotStore
	metrics   driven.MetricsRecorder
	workers   int

	current atomic.Pointer[snapshot]
	flight  singleflight.Group

	mu        sync.Mutex
	state     domain.ServiceState
	lastError string

	bgCtx    context.Context
	bgCancel context.CancelFunc
	bgWG     sync.WaitGroup
}

// CorpusOption configures a CorpusService.
type CorpusOption func(*CorpusService)

// WithSnapshotStore persists every published index and enables Restore.
func WithSnapshotStore(store driven.SnapshotStore) CorpusOption {
	return func(s *CorpusService) {
		s.snapshots = store
	}
}

// WithMetrics records build measurements.
func WithMetrics(m driven.MetricsRecorder) CorpusOption {
	return func(s *CorpusService) {
		s.metrics = m
	}
}

// WithWorkers sets the number of files loaded in parallel.
func WithWorkers(n int) CorpusOption {
	return func(s *CorpusService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewCorpusService creates a corpus service in the unloaded state.
func NewCorpusService(
	source driven.CorpusSource,
	loader driven.DocumentLoader,
	validator driven.MetadataValidator,
	builder driven.IndexBuilder,
	opts ...CorpusOption,
) *CorpusService {
	ctx, cancel := context.WithCancel(context.Background())
	s := &CorpusService{
		source:    source,
		loader:    loader,
		validator: validator,
		builder:   builder,
		workers:   DefaultWorkers,
		state:     domain.StateUnloaded,
		bgCtx:     ctx,
		bgCancel:  cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reload rebuilds the index and blocks until the rebuild finishes.
// If a rebuild is already running the call joins it. A cancelled ctx
// returns early; the build itself runs under the context of the call
// that started it. When that caller leaves and cancels the build, joiners
// whose own ctx is still live start a new one.
func (s *CorpusService) Reload(ctx context.Context) error {
	var err error
	for i := 0; i <= maxReloadJoins; i++ {
		err = s.joinReload(ctx)
		if !isCancellation(err) || ctx.Err() != nil {
			return err
		}
		logger.Debug("joined rebuild was cancelled, starting another")
	}
	return err
}

func (s *CorpusService) joinReload(ctx context.Context) error {
	ch := s.flight.DoChan(reloadKey, func() (any, error) {
		return nil, s.rebuild(ctx)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerReload starts a rebuild in the background.
func (s *CorpusService) TriggerReload() {
	s.bgWG.Add(1)
	go func() {
		defer s.bgWG.Done()
		if err := s.Reload(s.bgCtx); err != nil && !isCancellation(err) {
			logger.Warn("background reload failed: %v", err)
		}
	}()
}

// Close cancels background reloads and waits for them to return.
func (s *CorpusService) Close() error {
	s.bgCancel()
	s.bgWG.Wait()
	return nil
}

// Restore publishes the latest persisted snapshot. It only applies while
// nothing has been published yet, and the restored index is reported as
// stale until the next successful rebuild.
func (s *CorpusService) Restore(ctx context.Context) error {
	if s.snapshots == nil {
		return fmt.Errorf("%w: no snapshot store configured", domain.ErrNotFound)
	}

	stored, err := s.snapshots.Latest(ctx)
	if err != nil {
		return fmt.Errorf("load latest snapshot: %w", err)
	}
	idx, err := s.builder.Restore(stored.Data)
	if err != nil {
		return fmt.Errorf("restore snapshot %s: %w", stored.ID, err)
	}
	if idx.Hash() != stored.Hash {
		return fmt.Errorf("%w: snapshot %s hash mismatch", domain.ErrInvalidInput, stored.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.Load() != nil {
		return nil
	}
	snap := &snapshot{
		index:      idx,
		generation: stored.Generation,
		builtAt:    stored.BuiltAt,
	}
	snap.stale.Store(true)
	s.current.Store(snap)
	s.setStateLocked(domain.StateReady)
	logger.Info("restored index %s (%d documents, generation %d)", shortHash(stored.Hash), idx.Len(), stored.Generation)
	return nil
}

// Index returns the published index, or nil before the first build.
func (s *CorpusService) Index() driven.Index {
	if snap := s.current.Load(); snap != nil {
		return snap.index
	}
	return nil
}

// View returns the published index together with its generation and
// stale flag, all read from the same snapshot.
func (s *CorpusService) View() IndexView {
	snap := s.current.Load()
	if snap == nil {
		return IndexView{}
	}
	return IndexView{
		Index:      snap.index,
		Generation: snap.generation,
		Stale:      snap.stale.Load(),
	}
}

// Status returns the lifecycle state and a summary of the published index.
func (s *CorpusService) Status() domain.Status {
	s.mu.Lock()
	st := domain.Status{
		State:     s.state,
		LastError: s.lastError,
	}
	s.mu.Unlock()

	if snap := s.current.Load(); snap != nil {
		st.Stale = snap.stale.Load()
		st.Generation = snap.generation
		st.Documents = snap.index.Len()
		st.Shadowed = snap.shadowed
		st.IndexHash = snap.index.Hash()
		st.BuiltAt = snap.builtAt
		st.Warnings = len(snap.warnings)
	}
	return st
}

// Document returns an indexed document by id.
func (s *CorpusService) Document(ctx context.Context, id string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := s.Index()
	if idx == nil {
		return nil, domain.ErrIndexNotReady
	}
	doc, ok := idx.Document(id)
	if !ok {
		return nil, fmt.Errorf("document %q: %w", id, domain.ErrNotFound)
	}
	return &doc, nil
}

// Documents returns the indexed documents matching filters, ordered by id.
func (s *CorpusService) Documents(ctx context.Context, filters domain.Filters) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := s.Index()
	if idx == nil {
		return nil, domain.ErrIndexNotReady
	}
	filters, err := normaliseFilters(s.validator, filters)
	if err != nil {
		return nil, err
	}

	ids := filterIDs(idx, filters)
	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := idx.Document(id); ok {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// Warnings returns the warnings of the published build.
func (s *CorpusService) Warnings() []domain.Warning {
	if snap := s.current.Load(); snap != nil {
		return append([]domain.Warning(nil), snap.warnings...)
	}
	return nil
}

// rebuild runs one full load-validate-build-publish cycle.
func (s *CorpusService) rebuild(ctx context.Context) (err error) {
	ctx, span := tracer.Start(ctx, "corpus.rebuild",
		trace.WithAttributes(attribute.String("skillroute.corpus.root", s.source.Root())))
	defer func() { endSpan(span, err) }()

	prev := s.beginRebuild()
	start := time.Now()

	snap, err := s.build(ctx)
	if err != nil {
		if isCancellation(err) {
			s.mu.Lock()
			s.setStateLocked(prev)
			s.mu.Unlock()
			logger.Debug("rebuild cancelled: %v", err)
			return err
		}
		s.fail(err)
		s.observeBuild(time.Since(start), 0, 0, err)
		return err
	}

	s.publish(ctx, snap)
	span.AddEvent("published", trace.WithAttributes(
		attribute.Int64("skillroute.index.generation", int64(snap.generation)),
		attribute.Int("skillroute.index.documents", snap.index.Len()),
		attribute.Int("skillroute.index.warnings", len(snap.warnings)),
	))
	s.observeBuild(time.Since(start), snap.index.Len(), len(snap.warnings), nil)
	return nil
}

// beginRebuild moves to Loading or Reloading and returns the state to
// restore if the rebuild is cancelled.
func (s *CorpusService) beginRebuild() domain.ServiceState {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	if s.current.Load() == nil {
		s.setStateLocked(domain.StateLoading)
	} else {
		s.setStateLocked(domain.StateReloading)
	}
	return prev
}

func (s *CorpusService) build(ctx context.Context) (*snapshot, error) {
	logger.Section("Loading corpus")

	paths, err := s.source.List(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("found %d files under %s", len(paths), s.source.Root())

	results := make([]fileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, p := range paths {
		g.Go(func() error {
			content, err := s.source.Read(gctx, p)
			if err != nil {
				if isCancellation(err) {
					return err
				}
				results[i] = fileResult{readErr: err}
				return nil
			}
			docs, err := s.loader.Load(gctx, p, content)
			if isCancellation(err) {
				return err
			}
			results[i] = fileResult{docs: docs, loadErr: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		docs     []domain.Document
		warnings []domain.Warning
	)
	for i, r := range results {
		if r.readErr != nil {
			warnings = append(warnings, domain.Warning{
				Code:       domain.WarningUnreadableFile,
				SourcePath: paths[i],
				Message:    r.readErr.Error(),
			})
			continue
		}
		warnings = append(warnings, loadWarnings(paths[i], r.loadErr)...)
		for _, doc := range r.docs {
			doc, w := s.validator.Validate(doc)
			docs = append(docs, doc)
			warnings = append(warnings, w...)
		}
	}

	docs, dups := s.validator.Deduplicate(docs)
	warnings = append(warnings, dups...)
	for _, w := range warnings {
		logger.Warn("%s", w)
	}

	idx, err := s.builder.Build(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	return &snapshot{
		index:    idx,
		builtAt:  time.Now().UTC(),
		warnings: warnings,
		shadowed: len(dups),
	}, nil
}

// publish atomically swaps in snap and persists it when a store is set.
func (s *CorpusService) publish(ctx context.Context, snap *snapshot) {
	s.mu.Lock()
	if prev := s.current.Load(); prev != nil {
		snap.generation = prev.generation + 1
	} else {
		snap.generation = 1
	}
	s.current.Store(snap)
	s.lastError = ""
	s.setStateLocked(domain.StateReady)
	s.mu.Unlock()

	logger.Info("published index %s: %d documents, %d warnings (generation %d)",
		shortHash(snap.index.Hash()), snap.index.Len(), len(snap.warnings), snap.generation)

	if s.snapshots != nil {
		s.persist(context.WithoutCancel(ctx), snap)
	}
}

func (s *CorpusService) persist(ctx context.Context, snap *snapshot) {
	data, err := snap.index.Serialize()
	if err != nil {
		logger.Warn("failed to serialise index: %v", err)
		return
	}
	err = s.snapshots.Save(ctx, &domain.IndexSnapshot{
		ID:         uuid.New().String(),
		Hash:       snap.index.Hash(),
		Generation: snap.generation,
		Documents:  snap.index.Len(),
		BuiltAt:    snap.builtAt,
		Data:       data,
	})
	if err != nil {
		logger.Warn("failed to persist index snapshot: %v", err)
	}
}

// fail records a failed rebuild. The previous snapshot, if any, keeps
// being served and is marked stale.
func (s *CorpusService) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastError = err.Error()
	if s.current.Load() == nil {
		s.setStateLocked(domain.StateFailed)
		logger.Error("corpus load failed: %v", err)
		return
	}
	s.current.Load().stale.Store(true)
	s.setStateLocked(domain.StateReady)
	logger.Warn("corpus reload failed, serving previous index: %v", err)
}

func (s *CorpusService) setStateLocked(state domain.ServiceState) {
	s.state = state
	if s.metrics != nil {
		s.metrics.SetState(state.String())
	}
}

func (s *CorpusService) observeBuild(d time.Duration, documents, warnings int, err error) {
	if s.metrics != nil {
		s.metrics.ObserveBuild(d, documents, warnings, err)
	}
}

// loadWarnings turns a loader error into warnings, one per degraded
// segment.
func loadWarnings(path string, err error) []domain.Warning {
	if err == nil {
		return nil
	}

	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	warnings := make([]domain.Warning, 0, len(errs))
	for _, e := range errs {
		w := domain.Warning{
			Code:       domain.WarningMalformedDocument,
			SourcePath: path,
			Message:    e.Error(),
		}
		var docErr *domain.DocumentError
		if errors.As(e, &docErr) {
			w.Ordinal = docErr.Ordinal
			w.Message = docErr.Reason
		}
		if errors.Is(e, domain.ErrInvalidFrontMatter) {
			w.Code = domain.WarningInvalidFrontMatter
		}
		warnings = append(warnings, w)
	}
	return warnings
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
