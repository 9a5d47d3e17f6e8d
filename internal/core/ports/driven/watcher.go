package driven

import (
	"context"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

// CorpusWatcher reports changes below the corpus root.
type CorpusWatcher interface {
	// Watch starts watching. The channel is closed when ctx is done or
	// the watcher is closed.
	Watch(ctx context.Context) (<-chan domain.CorpusChange, error)

	// Close releases resources.
	Close() error
}
