package driven

import (
	"context"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

// DocumentLoader parses one physical corpus file into logical documents.
type DocumentLoader interface {
	// Load splits content on the separator and parses each segment.
	// sourcePath is the slash-separated path relative to the corpus root.
	// Documents are always returned; a non-nil error reports degraded
	// segments and wraps domain.ErrMalformedDocument.
	Load(ctx context.Context, sourcePath string, content []byte) ([]domain.Document, error)
}

// MetadataValidator normalises document metadata.
type MetadataValidator interface {
	// Validate normalises a single document.
	Validate(doc domain.Document) (domain.Document, []domain.Warning)

	// Deduplicate resolves duplicate ids across documents in corpus order.
	// The last document with an id wins; earlier ones are marked Shadowed.
	Deduplicate(docs []domain.Document) ([]domain.Document, []domain.Warning)

	// NormaliseFilters applies the metadata vocabulary to query filters.
	NormaliseFilters(f domain.Filters) domain.Filters
}
