package driven

import (
	"context"

	"github.com/custodia-labs/skillroute/internal/core/domain"
)

// Field names a metadata lookup table in the index.
type Field string

// Indexed metadata fields.
const (
	FieldTag      Field = "tag"
	FieldCategory Field = "category"
	FieldDomain   Field = "domain"
	FieldSkill    Field = "skill"
)

// Index is an immutable, built index. Implementations must be safe for
// concurrent readers.
type Index interface {
	// Len returns the number of indexed documents.
	Len() int

	// IDs returns all indexed document ids in ascending order.
	IDs() []string

	// Document returns an indexed document by id.
	Document(id string) (domain.Document, bool)

	// Excerpt returns the plain-text preview of a document.
	Excerpt(id string) string

	// Lookup returns the ascending ids with an exact field value.
	Lookup(field Field, value string) []string

	// Postings returns the term frequency per document id for a token.
	Postings(token string) map[string]int

	// Tokenize splits text with the same analyser used for bodies.
	Tokenize(text string) []string

	// Serialize returns the canonical byte form of the index.
	Serialize() ([]byte, error)

	// Hash returns the hex content hash of the serialised index.
	Hash() string
}

// IndexBuilder builds and restores indexes.
type IndexBuilder interface {
	// Build indexes every non-shadowed document.
	Build(ctx context.Context, docs []domain.Document) (Index, error)

	// Restore rebuilds an index from its serialised form.
	Restore(data []byte) (Index, error)
}
