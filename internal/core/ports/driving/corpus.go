package driving

import (
	"context"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

// CorpusService owns the corpus lifecycle and the published index.
type CorpusService interface {
	// Reload rebuilds the index and blocks until the build finishes.
	// Concurrent calls join the in-flight build.
	Reload(ctx context.Context) error

	// TriggerReload starts a rebuild in the background and returns immediately.
	TriggerReload()

	// Status returns the current lifecycle state and index summary.
	Status() domain.Status

	// Document returns an indexed document by id.
	Document(ctx context.Context, id string) (*domain.Document, error)

	// Documents returns the indexed documents matching filters, ordered by id.
	Documents(ctx context.Context, filters domain.Filters) ([]domain.Document, error)

	// Warnings returns the warnings of the published build.
	Warnings() []domain.Warning
}
