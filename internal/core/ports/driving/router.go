package driving

import (
	"context"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

// QueryRouter routes agent queries to ranked documents.
type QueryRouter interface {
	// Route returns matching documents ordered by score, then id, along
	// with the generation of the index that answered.
	// Returns domain.ErrIndexNotReady before the first successful build.
	Route(ctx context.Context, query domain.Query) (domain.RouteResult, error)
}
